package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/galvani/internal/logging"
)

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "galvani",
	Short: "Galvani compiles battery models into differential-algebraic systems",
	Long: `Galvani assembles a battery model from submodels declared in a YAML or JSON
model file, discretises it on the declared mesh and reports the resulting state layout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		formatFlag, _ := cmd.Flags().GetString("log-format")
		format, err := logging.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		logger = logging.New(os.Stderr, logging.Level(debug), format)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of every assembly phase")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
