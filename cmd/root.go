package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/crewplan/config"
	coremon "github.com/kilianp07/crewplan/core/monitoring"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "crewplan",
	Short:        "Monthly crew scheduling for field service jobs",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error {
	defer coremon.Recover()
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for an empty path or "-".
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}
