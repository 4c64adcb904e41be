package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bookrec/internal/popular"
)

var trendingLimit int

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List the most popular books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet()
		if err != nil {
			return err
		}
		printEntries(cmd.OutOrStdout(), set.Ranking.Top(trendingLimit))
		return nil
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "List books in a category",
	Long:  "List books in a category. Known categories: " + strings.Join(popular.Categories(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadSet()
		if err != nil {
			return err
		}
		printEntries(cmd.OutOrStdout(), set.Ranking.Category(args[0]))
		return nil
	},
}

func init() {
	trendingCmd.Flags().IntVarP(&trendingLimit, "limit", "n", 10, "Number of books to list")
}

func printEntries(w io.Writer, entries []popular.Entry) {
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %s by %s (%.2f, %d votes)\n", i+1, e.Title, e.Author, e.Rating, e.Votes)
	}
}
