package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moviecat/moviecat/browse"
	"github.com/moviecat/moviecat/console"
	"github.com/moviecat/moviecat/movies"
)

// detailsConcurrency caps parallel detail requests
const detailsConcurrency = 4

var errDetailsFailed = errors.New("one or more movies could not be loaded")

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:   "details <tmdb-id>...",
	Short: "Show details for one or more movies",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetails,
}

func init() {
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	results := fetchDetails(cmd.Context(), repository, ids, detailsConcurrency)
	return printDetails(cmd.OutOrStdout(), results)
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid movie id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type detailsFetcher interface {
	Details(ctx context.Context, id int) (movies.Summary, error)
}

type detailResult struct {
	id      int
	summary movies.Summary
	err     error
}

// fetchDetails loads every id with at most limit requests in flight. Results
// keep the order of ids and one failure does not cancel the others.
func fetchDetails(ctx context.Context, fetcher detailsFetcher, ids []int, limit int) []detailResult {
	results := make([]detailResult, len(ids))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			summary, err := fetcher.Details(ctx, id)
			results[i] = detailResult{id: id, summary: summary, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func printDetails(out io.Writer, results []detailResult) error {
	formatter := console.NewFormatter()
	messages := browse.EnglishMessages{}

	failed := false
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(out, "%d: Error: %s\n", r.id, browse.MessageFor(messages, movies.Classify(r.err)))
			continue
		}
		fmt.Fprint(out, formatter.FormatDetails(r.summary))
	}

	if failed {
		return errDetailsFailed
	}
	return nil
}
