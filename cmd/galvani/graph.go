package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/galvani/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <model-file>",
	Short: "Export the submodel data-flow visualization",
	Long:  `Assembles the model and outputs a Mermaid diagram (graph LR) of which submodel reads which published variable.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		return runGraph(cmd.Context(), cmd.OutOrStdout(), args[0], highlight)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("highlight", nil, "Submodels to emphasise")
}

func runGraph(ctx context.Context, w io.Writer, path string, highlight []string) error {
	p, _, err := loadPipeline(path)
	if err != nil {
		return err
	}
	m, err := p.Assemble(ctx)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if len(highlight) > 0 {
		overlay = &graph.GraphOverlay{Highlight: highlight}
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(m, overlay))
	return err
}
