package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moviecat/moviecat/browse"
	"github.com/moviecat/moviecat/console"
	"github.com/moviecat/moviecat/movies"
)

const shellHelp = `Type text to search, an empty line to go back to browsing.
Commands:
  :sort <popularity|rating|release-date>  change the sort order
  :more                                   load the next page
  :refresh                                reload from the first page
  :help                                   show this help
  :quit                                   exit`

// shellCmd represents the interactive shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Browse the catalog interactively",
	Long: `Start an interactive session. Every line you type is treated as search
input and sent once you stop typing for the configured debounce delay.

` + shellHelp,
	RunE: runShellCmd,
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "initial sort order")
	shellCmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "display filter expression or @name from config")
}

func runShellCmd(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	view := console.NewView(out, console.WithFilter(displayFilter), console.WithStatus(cmd.ErrOrStderr()))

	controller := browse.New(repository, monitor, view, logger,
		browse.WithSort(sort),
		browse.WithDebounce(cfg.Browse.Debounce),
		browse.WithGenres(cfg.Browse.Genres...),
	)
	defer controller.Close()

	fmt.Fprintln(out, shellHelp)
	controller.OnLoad()

	return runShell(ctx, cmd.InOrStdin(), out, controller)
}

// shellController is the part of the controller the shell drives
type shellController interface {
	Search(text string)
	SetSort(sort movies.Sort)
	Refresh()
	LoadMoreIfNeeded(visibleIndex int)
	Items() []browse.Item
	Wait()
}

// runShell executes commands read line by line from in until :quit, EOF
// or ctx is done
func runShell(ctx context.Context, in io.Reader, out io.Writer, c shellController) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				c.Wait()
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := handleLine(line, out, c); quit {
				return nil
			}
		}
	}
}

// handleLine runs one shell line and reports whether the shell should exit
func handleLine(line string, out io.Writer, c shellController) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		c.Search(trimmed)
		return false
	}

	command, arg, _ := strings.Cut(strings.TrimPrefix(trimmed, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "q", "quit", "exit":
		return true
	case "sort":
		sort, err := movies.ParseSort(arg)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		c.SetSort(sort)
	case "more":
		c.LoadMoreIfNeeded(len(c.Items()) - 1)
	case "refresh":
		c.Refresh()
	case "help":
		fmt.Fprintln(out, shellHelp)
	default:
		fmt.Fprintf(out, "Unknown command :%s (try :help)\n", command)
	}
	return false
}
