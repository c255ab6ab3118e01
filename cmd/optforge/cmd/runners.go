package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optforge/optforge/internal/runner"
)

var runnersCmd = &cobra.Command{
	Use:   "runners",
	Short: "List available runners",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, slug := range runner.Slugs() {
			r, err := runner.Get(slug)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", slug, r.HumanName())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runnersCmd)
}
