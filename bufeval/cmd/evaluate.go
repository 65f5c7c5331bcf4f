package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/sarchlab/bufeval/buffer"
	"github.com/sarchlab/bufeval/config"
	"github.com/sarchlab/bufeval/datarecording"
	"github.com/sarchlab/bufeval/hooking"
	"github.com/sarchlab/bufeval/monitoring"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <scenario.yaml>",
	Short: "Evaluate every tile of a scenario on its buffer level.",
	Long: "`evaluate` runs the pre-evaluation check and the full evaluation " +
		"of every tile in the scenario and prints a report per level.",
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	addEvaluateFlags(evaluateCmd)
}

func addEvaluateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false,
		"Print the sparse and fine-grained counters")
	cmd.Flags().Bool("log", false,
		"Log every check and evaluation to stderr")
	cmd.Flags().String("record", "",
		"Record the results into this SQLite database (without extension)")
	cmd.Flags().Bool("monitor", false,
		"Serve the results over HTTP until interrupted")
	cmd.Flags().Int("port", 0,
		"Port of the monitoring server")
	cmd.Flags().Bool("open", false,
		"Open the monitoring page in a browser")
}

type evaluateOptions struct {
	verbose     bool
	log         bool
	recordPath  string
	monitor     bool
	monitorPort int
	open        bool
}

func parseEvaluateOptions(cmd *cobra.Command, env config.Env) evaluateOptions {
	o := evaluateOptions{
		recordPath:  env.RecordPath,
		monitorPort: env.MonitorPort,
		monitor:     env.MonitorPort != 0,
	}

	o.verbose, _ = cmd.Flags().GetBool("verbose")
	o.log, _ = cmd.Flags().GetBool("log")
	o.open, _ = cmd.Flags().GetBool("open")

	if cmd.Flags().Changed("record") {
		o.recordPath, _ = cmd.Flags().GetString("record")
	}

	if cmd.Flags().Changed("monitor") {
		o.monitor, _ = cmd.Flags().GetBool("monitor")
	}

	if cmd.Flags().Changed("port") {
		o.monitorPort, _ = cmd.Flags().GetInt("port")
		o.monitor = true
	}

	return o
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	opts := parseEvaluateOptions(cmd, loadEnv())

	arch, err := loadArchitecture(args[0])
	if err != nil {
		return err
	}

	if opts.log {
		attachHook(arch, buffer.NewEvalLogHook(
			log.New(cmd.ErrOrStderr(), "", log.LstdFlags)))
	}

	if opts.recordPath != "" {
		recorder, err := datarecording.New(opts.recordPath)
		if err != nil {
			return err
		}
		defer recorder.Close()

		run := datarecording.NewRunRecorder(recorder)
		run.Start()
		run.Set("Scenario", args[0])
		defer run.End()

		attachHook(arch, buffer.NewRecorderHook(recorder))
	}

	var monitor *monitoring.Monitor
	if opts.monitor {
		monitor = monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
		for _, l := range arch.Levels {
			monitor.RegisterLevel(l)
		}

		port := monitor.StartServer()
		defer monitor.StopServer()

		if opts.open && len(arch.Evaluations) > 0 {
			err := monitor.OpenInBrowser(port, arch.Evaluations[0].Level.Name())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
		}
	}

	summary := evaluateAll(cmd.OutOrStdout(), arch, opts.verbose, monitor)
	summary.print(cmd.OutOrStdout())

	if monitor != nil {
		waitForInterrupt(cmd)
	}

	return nil
}

func attachHook(arch *config.Architecture, hook hooking.Hook) {
	for _, l := range arch.Levels {
		l.AcceptHook(hook)
	}
}

type evaluationSummary struct {
	total       int
	passed      int
	preRejected int
	energy      float64
	maxCycles   uint64
}

func evaluateAll(
	w io.Writer,
	arch *config.Architecture,
	verbose bool,
	monitor *monitoring.Monitor,
) evaluationSummary {
	summary := evaluationSummary{total: len(arch.Evaluations)}

	var bar *monitoring.ProgressBar
	if monitor != nil {
		bar = monitor.CreateProgressBar("evaluate", uint64(summary.total))
		defer monitor.CompleteProgressBar(bar)
	}

	for _, e := range arch.Evaluations {
		status := e.Level.PreEvaluationCheck(
			e.WorkingSetSizes(), e.Mask, e.Workload)
		if !status.Success {
			summary.preRejected++
			fmt.Fprintf(w, "=== %s ===\n\n", e.Level.Name())
			printStatus(w, "Pre-evaluation check", status)
			recordProgress(bar, false)

			continue
		}

		stats, status := e.Level.Evaluate(e.Tile, e.Mask, e.ComputeCycles)
		buffer.Fprint(w, e.Level, stats, verbose)
		fmt.Fprintln(w)
		printStatus(w, "Evaluation", status)
		recordProgress(bar, status.Success)

		if status.Success {
			summary.passed++
			summary.energy += stats.TotalEnergy()
			summary.maxCycles = max(summary.maxCycles, stats.Cycles)
		}
	}

	return summary
}

func recordProgress(bar *monitoring.ProgressBar, success bool) {
	if bar == nil {
		return
	}

	if success {
		bar.RecordSuccess()
	} else {
		bar.RecordFailure()
	}
}

func printStatus(w io.Writer, what string, status buffer.EvalStatus) {
	if status.Success {
		fmt.Fprintf(w, "%s: %s\n\n", what, color.GreenString("PASS"))
		return
	}

	fmt.Fprintf(w, "%s: %s (%s)\n\n",
		what, color.RedString("FAIL"), status.FailReason)
}

func (s evaluationSummary) print(w io.Writer) {
	fmt.Fprintf(w, "%d/%d evaluations passed", s.passed, s.total)
	if s.preRejected > 0 {
		fmt.Fprintf(w, ", %d rejected by the pre-evaluation check",
			s.preRejected)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Energy of passed evaluations: %g pJ\n", s.energy)
	fmt.Fprintf(w, "Slowest level: %d cycles\n", s.maxCycles)
}

func waitForInterrupt(cmd *cobra.Command) {
	fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop monitoring.")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	<-ctx.Done()
}
