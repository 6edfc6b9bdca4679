package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/topology"
)

// ComponentsResult is the output of the components command.
type ComponentsResult struct {
	Network    string                 `json:"network"`
	Components [][]string             `json:"components"` // closing order
	Loops      []topology.LoopWarning `json:"loops"`
}

// NewComponentsCommand creates the components command.
func NewComponentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components [network]",
		Short: "List strongly connected subsystems and feedback loops",
		Long: `List the strongly connected components of the network in closing
order (reverse topological order of the condensation), followed by one
feedback loop per cyclic component.

Examples:
  pulsenet components network.txt
  pulsenet components network.txt --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComponents(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runComponents(opts *RootOptions, args []string, cmd *cobra.Command) error {
	g, path, err := opts.loadNetwork(args)
	if err != nil {
		return err
	}

	result := ComponentsResult{
		Network:    path,
		Components: topology.Components(g),
		Loops:      topology.Loops(g),
	}

	return opts.formatter(cmd).Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Components (%d):\n", len(result.Components))
		for i, c := range result.Components {
			fmt.Fprintf(w, "  %d. %s\n", i+1, strings.Join(c, ", "))
		}
		if len(result.Loops) == 0 {
			fmt.Fprintln(w, "\nNo feedback loops.")
			return
		}
		fmt.Fprintf(w, "\nFeedback loops (%d):\n", len(result.Loops))
		for _, l := range result.Loops {
			fmt.Fprintf(w, "  [%s] %s\n", l.Level, strings.Join(l.Path, " -> "))
		}
	})
}
