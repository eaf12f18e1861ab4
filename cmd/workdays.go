package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/core/planner"
)

var workdaysCmd = &cobra.Command{
	Use:   "workdays",
	Short: "List the workdays of the configured or requested horizon",
	RunE:  runWorkdays,
}

func init() {
	f := workdaysCmd.Flags()
	f.IntVar(&scheduleOpts.year, "year", 0, "horizon year")
	f.IntVar(&scheduleOpts.month, "month", 0, "horizon month (1-12)")
	f.StringVar(&scheduleOpts.start, "start", "", "horizon start date when no month is given")
	f.StringVar(&scheduleOpts.end, "end", "", "horizon end date when no month is given")
	rootCmd.AddCommand(workdaysCmd)
}

func runWorkdays(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyRunFlags(cmd, &cfg.Run); err != nil {
		return err
	}
	p, err := planner.New(cfg.Scheduler, nil, nil, nil, nil)
	if err != nil {
		return err
	}
	req, err := cfg.Run.Request(nil)
	if err != nil {
		return err
	}
	days, err := p.Horizon(req)
	if err != nil {
		return err
	}
	for _, d := range days {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", d.Index, d.Date.Format("2006-01-02"), d.Date.Weekday())
	}
	return nil
}
