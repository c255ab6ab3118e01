package runner

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/optforge/optforge/internal/logging"
)

// Environment is the host state runner schemas read at render time:
// where runner data lives and where compat versions are installed.
type Environment struct {
	DataDir     string
	VersionsDir string
	Logger      *logging.Logger
}

var (
	envMu sync.RWMutex
	env   = Environment{Logger: logging.NewNop()}
)

// Configure installs the package environment. Call once at startup,
// before any form render. Descriptor producers read it lazily, so
// schemas registered from init pick the configured values up.
func Configure(e Environment) {
	if e.Logger == nil {
		e.Logger = logging.NewNop()
	}
	envMu.Lock()
	env = e
	envMu.Unlock()
	compatVersions.SetDir(e.VersionsDir)
}

func dataDir() string {
	envMu.RLock()
	defer envMu.RUnlock()
	if env.DataDir != "" {
		return env.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "optforge")
}

func envLogger() *logging.Logger {
	envMu.RLock()
	defer envMu.RUnlock()
	return env.Logger
}
