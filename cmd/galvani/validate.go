package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model-file>",
	Short: "Check a model file for consistency",
	Long: `Assembles the model without discretising it and reports missing variables,
collisions, ownership violations and incomplete unknowns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidate(cmd.Context(), cmd.OutOrStdout(), args[0]); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, w io.Writer, path string) error {
	p, _, err := loadPipeline(path)
	if err != nil {
		return err
	}

	m, err := p.Assemble(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Model %q is valid! ✅ (%d submodels, %d unknowns)\n", m.Name, len(m.Submodels), len(m.StateVariables()))
	return nil
}
