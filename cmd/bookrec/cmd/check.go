package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkMissing bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load every artifact and report how they line up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet()
		if err != nil {
			return fmt.Errorf("artifacts invalid: %w", err)
		}
		r := set.Check()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, r.String())
		if checkMissing {
			for _, t := range r.MissingPivots {
				fmt.Fprintf(out, "  missing: %s\n", t)
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkMissing, "missing", false, "List pivot titles without a catalog record")
}
