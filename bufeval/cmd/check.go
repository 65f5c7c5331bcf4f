package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sarchlab/bufeval/config"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <scenario.yaml>",
	Short: "Run only the pre-evaluation capacity check of every tile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := loadArchitecture(args[0])
		if err != nil {
			return err
		}

		failed := checkAll(cmd.OutOrStdout(), arch)
		if failed > 0 {
			return fmt.Errorf("%d of %d tiles do not fit",
				failed, len(arch.Evaluations))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkAll(w io.Writer, arch *config.Architecture) int {
	failed := 0

	for _, e := range arch.Evaluations {
		status := e.Level.PreEvaluationCheck(
			e.WorkingSetSizes(), e.Mask, e.Workload)

		if status.Success {
			fmt.Fprintf(w, "%-20s %s\n", e.Level.Name(), color.GreenString("ok"))
			continue
		}

		failed++
		fmt.Fprintf(w, "%-20s %s %s\n",
			e.Level.Name(), color.RedString("fail"), status.FailReason)
	}

	return failed
}
