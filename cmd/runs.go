package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/infra/store"
	"github.com/kilianp07/crewplan/pkg/export"
)

var runsOpts struct {
	limit     int
	partition string
	runID     string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show scheduling runs persisted in the configured store",
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.IntVar(&runsOpts.limit, "limit", 10, "number of most recent runs to show")
	f.StringVar(&runsOpts.partition, "partition", "", "only show runs of this partition")
	f.StringVar(&runsOpts.runID, "run-id", "", "only show the run with this id")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	s, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	recs, err := s.Query(cmd.Context(), store.RunQuery{Partition: runsOpts.partition, RunID: runsOpts.runID, Limit: runsOpts.limit})
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), recs)
}
