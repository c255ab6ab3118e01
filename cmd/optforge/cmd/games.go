package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optforge/optforge/internal/library"
	"github.com/optforge/optforge/internal/runner"
)

var (
	gameName      string
	gameRunner    string
	gameDirectory string
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage the games library",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List games in the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lib, err := library.Open(libraryPath())
		if err != nil {
			return err
		}
		defer lib.Close()

		games, err := lib.List()
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No games in the library.")
			return nil
		}
		for _, g := range games {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-12s %s\n", g.Slug, g.Runner, g.Name)
		}
		return nil
	},
}

var gamesAddCmd = &cobra.Command{
	Use:   "add <slug>",
	Short: "Add a game to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := runner.Get(gameRunner); err != nil {
			return err
		}

		lib, err := library.Open(libraryPath())
		if err != nil {
			return err
		}
		defer lib.Close()

		name := gameName
		if name == "" {
			name = args[0]
		}
		game, err := lib.Add(library.Game{
			Slug:      args[0],
			Name:      name,
			Runner:    gameRunner,
			Directory: gameDirectory,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (config %s)\n", game.Slug, game.ConfigID)
		return nil
	},
}

var gamesRemoveCmd = &cobra.Command{
	Use:   "remove <slug>",
	Short: "Remove a game from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.Open(libraryPath())
		if err != nil {
			return err
		}
		defer lib.Close()

		if err := lib.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	gamesAddCmd.Flags().StringVar(&gameName, "name", "", "display name (default: the slug)")
	gamesAddCmd.Flags().StringVar(&gameRunner, "runner", "", "runner slug (required)")
	gamesAddCmd.Flags().StringVar(&gameDirectory, "directory", "", "game install directory")
	_ = gamesAddCmd.MarkFlagRequired("runner")

	gamesCmd.AddCommand(gamesListCmd, gamesAddCmd, gamesRemoveCmd)
	rootCmd.AddCommand(gamesCmd)
}
