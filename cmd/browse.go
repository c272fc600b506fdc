package cmd

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moviecat/moviecat/browse"
	"github.com/moviecat/moviecat/console"
)

var errBrowseFailed = errors.New("catalog request failed")

var (
	sortFlag   string
	queryFlag  string
	pagesFlag  int
	filterFlag string
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List movies from the catalog",
	Long: `List movies by popularity, rating or release date, or search by title.

Examples:
  moviecat browse --sort rating --pages 3
  moviecat browse --query "blade runner"
  moviecat browse --filter 'Rating >= 7.5 and Year >= 2000'
  moviecat browse --filter 'hasText(Title, "star") and not hasPrefix(Title, "the")'
  moviecat browse --filter @classics`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "sort order: popularity, rating or release-date")
	browseCmd.Flags().StringVarP(&queryFlag, "query", "q", "", "search text")
	browseCmd.Flags().IntVarP(&pagesFlag, "pages", "n", 1, "number of pages to load")
	browseCmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "display filter expression or @name from config")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	sort, err := resolveSort(sortFlag)
	if err != nil {
		return err
	}
	displayFilter, err := resolveFilter(filterFlag)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := startServices(ctx, monitor, cfg.Metrics.Listen, logger)
	defer svc.Stop()

	opts := []console.Option{console.WithDeferred(), console.WithFilter(displayFilter)}
	if isTerminal(os.Stderr) {
		opts = append(opts, console.WithStatus(os.Stderr))
	}
	view := console.NewView(cmd.OutOrStdout(), opts...)

	controller := browse.New(repository, monitor, view, logger,
		browse.WithSort(sort),
		browse.WithDebounce(0),
		browse.WithGenres(cfg.Browse.Genres...),
	)
	defer controller.Close()

	loadPages(controller, queryFlag, pagesFlag)

	view.Render()
	if view.LastError() != "" {
		return errBrowseFailed
	}
	return nil
}

// pager is the part of the controller loadPages drives
type pager interface {
	OnLoad()
	Search(text string)
	LoadMoreIfNeeded(visibleIndex int)
	Items() []browse.Item
	HasMore() bool
	Wait()
}

// loadPages loads the first page for query and then up to pages-1 more,
// stopping early on the last page or when a load adds nothing
func loadPages(c pager, query string, pages int) {
	if strings.TrimSpace(query) != "" {
		c.Search(query)
	} else {
		c.OnLoad()
	}
	c.Wait()

	for loaded := 1; loaded < pages && c.HasMore(); loaded++ {
		before := len(c.Items())
		c.LoadMoreIfNeeded(before - 1)
		c.Wait()
		if len(c.Items()) == before {
			break
		}
	}
}
