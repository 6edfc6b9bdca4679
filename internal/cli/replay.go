package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/period"
	"github.com/roach88/pulsenet/internal/store"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-simulate a recorded run and verify determinism",
		Long: `Re-simulate a recorded run from the network stored with it and
compare the fresh result with the recorded one.

Exit codes:
  0 - Replay matches the recorded run
  1 - Replay differs from the recorded run
  2 - Command error (database not found, unknown run, etc.)

Examples:
  pulsenet replay 01927c4e-... --db runs.db
  pulsenet replay 01927c4e-... --db runs.db --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runReplay(opts *RootOptions, id string, cmd *cobra.Command) error {
	st, err := opts.requireStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := st.Replay(cmd.Context(), id, period.WithMaxPresses(opts.Config.MaxPresses))
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return opts.formatter(cmd).Fail(ExitCommandError, "replay failed", err)
	}

	if err := opts.formatter(cmd).Success(res, func(w io.Writer) {
		mark := "✓"
		if !res.Match {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s (%s, seq %d)\n", mark, res.Run.ID, res.Run.Mode, res.Run.Seq)
		fmt.Fprintf(w, "  recorded answer: %d\n", res.Run.Answer)
		fmt.Fprintf(w, "  replayed answer: %d\n", res.Answer)
	}); err != nil {
		return err
	}

	if !res.Match {
		return NewExitError(ExitFailure, fmt.Sprintf("replay of %s differs from the recorded run", id))
	}
	return nil
}
