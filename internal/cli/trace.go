package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Presses int64
	Module  string // optional - only pulses to or from this module
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Network string            `json:"network"`
	Presses int64             `json:"presses"`
	Trace   []engine.Delivery `json:"trace"`
	Counts  engine.Counts     `json:"counts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [network]",
		Short: "Print every pulse delivered during the first presses",
		Long: `Press the button and print every delivered pulse in delivery order,
stamped with its press number and sequence number.

Counts cover all delivered pulses plus one button pulse per press, even
when --module filters the printed trace.

Examples:
  pulsenet trace network.txt
  pulsenet trace network.txt --presses 4 --module inv
  pulsenet trace network.txt --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args, cmd)
		},
	}

	cmd.Flags().Int64VarP(&opts.Presses, "presses", "n", 1, "number of presses to trace")
	cmd.Flags().StringVarP(&opts.Module, "module", "m", "", "only show pulses to or from this module")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	g, path, err := opts.loadNetwork(args)
	if err != nil {
		return err
	}
	if opts.Presses < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("presses must be positive, got %d", opts.Presses))
	}

	result := TraceResult{
		Network: path,
		Presses: opts.Presses,
		Trace:   []engine.Delivery{},
	}
	eng := engine.New(g, engine.WithObserver(func(d engine.Delivery) {
		if opts.Module == "" || d.From == opts.Module || d.To == opts.Module {
			result.Trace = append(result.Trace, d)
		}
	}))

	counts, err := eng.Run(cmd.Context(), opts.Presses)
	if err != nil {
		return out.Fail(ExitFailure, "trace failed", err)
	}
	result.Counts = counts

	return out.Success(result, func(w io.Writer) {
		for _, d := range result.Trace {
			fmt.Fprintf(w, "[%d/%d] %s -%s-> %s\n", d.Press, d.Seq, d.From, d.Level, d.To)
		}
		fmt.Fprintf(w, "\n%d pulses (%d low, %d high) over %d presses\n",
			result.Counts.Total(), result.Counts.Low, result.Counts.High, result.Presses)
	})
}
