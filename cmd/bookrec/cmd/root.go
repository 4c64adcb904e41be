package cmd

import (
	"github.com/spf13/cobra"

	"bookrec/internal/artifacts"
	"bookrec/internal/config"
	"bookrec/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "bookrec",
	Short:         "Book recommendations from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
	},
}

var verbose bool

// loadSet is replaced in tests.
var loadSet = func() (*artifacts.Set, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return artifacts.Load(cfg.Artifacts)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log artifact loading")
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(checkCmd)
}
