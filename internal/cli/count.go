package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/sim"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	Presses int64
}

// CountResult is the output of the count command.
type CountResult struct {
	Network     string `json:"network"`
	Fingerprint string `json:"fingerprint"`
	Presses     int64  `json:"presses"`
	Low         int64  `json:"low"`
	High        int64  `json:"high"`
	Answer      int64  `json:"answer"`
	RunID       string `json:"run_id,omitempty"`
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count [network]",
		Short: "Count pulses over a fixed number of presses",
		Long: `Press the button a fixed number of times over one shared state and
count every low and high pulse delivered, including the button's own.
The answer is low x high.

Exit codes:
  0 - Count completed
  1 - Simulation error
  2 - Command error (missing network, invalid network, etc.)

Examples:
  pulsenet count network.txt
  pulsenet count network.txt --presses 10
  pulsenet count --config run.cue --db runs.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(opts, args, cmd)
		},
	}

	cmd.Flags().Int64VarP(&opts.Presses, "presses", "n", 0, "number of presses (default from config)")

	return cmd
}

func runCount(opts *CountOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	g, path, err := opts.loadNetwork(args)
	if err != nil {
		return err
	}

	presses := opts.Presses
	if presses == 0 {
		presses = opts.Config.Presses
	}
	if presses < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("presses must be positive, got %d", presses))
	}

	counts, err := sim.CountPulses(ctx, g, presses)
	if err != nil {
		return out.Fail(ExitFailure, "count failed", err)
	}

	result := CountResult{
		Network:     path,
		Fingerprint: g.Fingerprint(),
		Presses:     presses,
		Low:         counts.Low,
		High:        counts.High,
		Answer:      counts.Product(),
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		run, err := st.WriteCountRun(ctx, engine.UUIDv7Generator{}.Generate(), g, presses, counts)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
	}

	return out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Network: %s\n", result.Network)
		fmt.Fprintf(w, "Presses: %d\n", result.Presses)
		fmt.Fprintf(w, "Low:     %d\n", result.Low)
		fmt.Fprintf(w, "High:    %d\n", result.High)
		fmt.Fprintf(w, "Answer:  %d\n", result.Answer)
		if result.RunID != "" {
			fmt.Fprintf(w, "Run:     %s\n", result.RunID)
		}
	})
}
