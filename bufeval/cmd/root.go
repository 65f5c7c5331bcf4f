// Package cmd provides the command-line interface of bufeval.
package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/bufeval/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bufeval",
	Short: "Bufeval evaluates the capacity, energy, and performance of buffer levels.",
	Long: `Bufeval reads a scenario that describes an architecture of buffer ` +
		`levels and the tiles a mapping places on them. It checks whether ` +
		`each tile fits and reports the access counts, energy, and cycles.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadArchitecture(path string) (*config.Architecture, error) {
	scenario, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	arch, err := config.Build(scenario)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return arch, nil
}

func loadEnv() config.Env {
	env, err := config.LoadEnv(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return env
}
