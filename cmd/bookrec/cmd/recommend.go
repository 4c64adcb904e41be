package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookrec/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <title...>",
	Short: "Recommend books similar to a title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	set, err := loadSet()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	res, err := set.Engine().Recommend(query)
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		fmt.Fprintln(cmd.OutOrStdout(), "book not found")
		return exitError{code: 2, msg: "book not found"}
	case errors.Is(err, recommend.ErrEmptyQuery):
		return fmt.Errorf("query must not be blank")
	case err != nil:
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", res.Matched, res.Strategy)
	if len(res.Books) == 0 {
		fmt.Fprintln(out, "  no recommendations")
	}
	for i, b := range res.Books {
		fmt.Fprintf(out, "  %d. %s by %s\n", i+1, b.Title, b.Author)
	}
	return nil
}
