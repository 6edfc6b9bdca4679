package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/store"
)

// loadNetwork parses the network named by args[0], or by the config's
// network field when no argument is given.
func (opts *RootOptions) loadNetwork(args []string) (*circuit.Graph, string, error) {
	path := opts.Config.Network
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, "", NewExitError(ExitCommandError, "no network: pass a network file or set network in --config")
	}

	text, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, path, NewExitError(ExitCommandError, fmt.Sprintf("network file not found: %s", path))
	}
	if err != nil {
		return nil, path, WrapExitError(ExitCommandError, "failed to read network", err)
	}

	g, err := circuit.Parse(string(text))
	if err != nil {
		return nil, path, WrapExitError(ExitCommandError, fmt.Sprintf("invalid network %s", path), err)
	}
	slog.Debug("network loaded", "path", path, "modules", g.Len(), "fingerprint", g.Fingerprint())
	return g, path, nil
}

// openStore opens the configured run history. It returns nil when no
// database is configured.
func (opts *RootOptions) openStore() (*store.Store, error) {
	if opts.Config.Database == "" {
		return nil, nil
	}
	st, err := store.Open(opts.Config.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// requireStore is openStore for commands that cannot run without history.
func (opts *RootOptions) requireStore() (*store.Store, error) {
	st, err := opts.openStore()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, NewExitError(ExitCommandError, "no database: pass --db or set database in --config")
	}
	return st, nil
}
