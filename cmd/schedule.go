package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/app"
	"github.com/kilianp07/crewplan/config"
	"github.com/kilianp07/crewplan/core/solver"
	"github.com/kilianp07/crewplan/pkg/dataset"
	"github.com/kilianp07/crewplan/pkg/export"
)

var scheduleOpts struct {
	jobs      string
	out       string
	format    string
	year      int
	month     int
	start     string
	end       string
	partition string
	dueCutoff string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Assign jobs to crews and workdays minimizing late jobs",
	RunE:  runSchedule,
}

func init() {
	f := scheduleCmd.Flags()
	f.StringVarP(&scheduleOpts.jobs, "jobs", "j", "", "jobs file (csv or yaml)")
	f.StringVarP(&scheduleOpts.out, "out", "o", "", "schedule output file, stdout when empty")
	f.StringVar(&scheduleOpts.format, "format", "csv", "output format: csv or json")
	f.IntVar(&scheduleOpts.year, "year", 0, "horizon year")
	f.IntVar(&scheduleOpts.month, "month", 0, "horizon month (1-12)")
	f.StringVar(&scheduleOpts.start, "start", "", "horizon start date when no month is given")
	f.StringVar(&scheduleOpts.end, "end", "", "horizon end date when no month is given")
	f.StringVar(&scheduleOpts.partition, "partition", "", "only schedule jobs of this partition")
	f.StringVar(&scheduleOpts.dueCutoff, "due-cutoff", "", "only schedule jobs due at or before this time")
	_ = scheduleCmd.MarkFlagRequired("jobs")
	rootCmd.AddCommand(scheduleCmd)
}

// applyRunFlags overrides the run section with the flags set on cmd.
func applyRunFlags(cmd *cobra.Command, run *config.RunConfig) error {
	f := cmd.Flags()
	if f.Changed("year") {
		run.Year = scheduleOpts.year
	}
	if f.Changed("month") {
		run.Month = scheduleOpts.month
	}
	if f.Changed("start") {
		run.Start = scheduleOpts.start
	}
	if f.Changed("end") {
		run.End = scheduleOpts.end
	}
	if f.Changed("partition") {
		run.Partition = scheduleOpts.partition
	}
	if f.Changed("due-cutoff") {
		run.DueCutoff = scheduleOpts.dueCutoff
	}
	return run.Validate()
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if scheduleOpts.format != "csv" && scheduleOpts.format != "json" {
		return fmt.Errorf("unknown format %s", scheduleOpts.format)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyRunFlags(cmd, &cfg.Run); err != nil {
		return err
	}
	jobs, err := dataset.LoadJobs(scheduleOpts.jobs)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "service close: %v\n", err)
		}
	}()

	res, err := svc.Plan(ctx, jobs)
	if err != nil {
		var ie *solver.InfeasibleError
		if errors.As(err, &ie) {
			return fmt.Errorf("no schedule for run %s: %w", res.RunID, err)
		}
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "run %s: status=%s late=%d scheduled=%d issues=%d\n",
		res.RunID, res.Status, res.Objective, len(res.Schedule), len(res.Issues))
	for _, iss := range res.Issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "  job %s: %s: %s\n", iss.JobID, iss.Kind, iss.Reason)
	}
	if !res.Status.HasSchedule() {
		return nil
	}

	w, err := openOutput(cmd, scheduleOpts.out)
	if err != nil {
		return err
	}
	if scheduleOpts.format == "json" {
		err = export.WriteJSON(w, res.Schedule)
	} else {
		err = export.WriteScheduleCSV(w, res.Schedule)
	}
	return errors.Join(err, w.Close())
}
