package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/core/reconcile"
	"github.com/kilianp07/crewplan/pkg/dataset"
	"github.com/kilianp07/crewplan/pkg/export"
)

var reconcileOpts struct {
	schedule string
	actuals  string
	out      string
	daily    string
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare a schedule with actual completions",
	RunE:  runReconcile,
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVarP(&reconcileOpts.schedule, "schedule", "s", "", "schedule csv produced by the schedule command")
	f.StringVarP(&reconcileOpts.actuals, "actuals", "a", "", "actual completions (csv or yaml)")
	f.StringVarP(&reconcileOpts.out, "out", "o", "", "reconciliation output file, stdout when empty")
	f.StringVar(&reconcileOpts.daily, "daily", "", "optional file receiving planned and actual counts per day")
	_ = reconcileCmd.MarkFlagRequired("schedule")
	_ = reconcileCmd.MarkFlagRequired("actuals")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	sched, err := dataset.LoadSchedule(reconcileOpts.schedule)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	actuals, err := dataset.LoadActuals(reconcileOpts.actuals)
	if err != nil {
		return fmt.Errorf("load actuals: %w", err)
	}
	rep := reconcile.Reconcile(sched, actuals)
	s := rep.Summary
	fmt.Fprintf(cmd.ErrOrStderr(), "planned=%d matched=%d unmatched=%d on_plan=%d early=%d slipped=%d mean_slip=%.2f std_slip=%.2f\n",
		s.Planned, s.Matched, s.Unmatched, s.OnPlan, s.Early, s.Slipped, s.MeanSlipDays, s.StdDevSlipDays)

	w, err := openOutput(cmd, reconcileOpts.out)
	if err != nil {
		return err
	}
	if err := errors.Join(export.WriteReconciliationCSV(w, rep.Rows), w.Close()); err != nil {
		return err
	}
	if reconcileOpts.daily == "" {
		return nil
	}
	dw, err := openOutput(cmd, reconcileOpts.daily)
	if err != nil {
		return err
	}
	return errors.Join(export.WriteDailyCSV(dw, rep.Daily), dw.Close())
}
