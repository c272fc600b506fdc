package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecat/moviecat/browse"
	"github.com/moviecat/moviecat/config"
	"github.com/moviecat/moviecat/movies"
	"github.com/moviecat/moviecat/tmdb"
)

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{" 2.0.0-rc.1 ", "v2.0.0-rc.1"},
		{"dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeVersion(tt.in))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.4.0", "2026-01-02")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "moviecat v1.4.0 (built 2026-01-02)\n", out.String())
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"603", "11"})
	require.NoError(t, err)
	assert.Equal(t, []int{603, 11}, ids)

	_, err = parseIDs([]string{"603", "matrix"})
	assert.ErrorContains(t, err, `"matrix"`)

	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

type fakeDetails struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeDetails) Details(ctx context.Context, id int) (movies.Summary, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	// later ids finish first so ordering depends on the result slots
	time.Sleep(time.Duration(20-id) * time.Millisecond)

	if id == 13 {
		return movies.Summary{}, movies.Classify(&tmdb.StatusError{StatusCode: 404})
	}
	return movies.Summary{ID: id, Title: "Movie"}, nil
}

func TestFetchDetails(t *testing.T) {
	fetcher := &fakeDetails{}
	ids := []int{1, 2, 3, 4, 5, 6, 7, 13, 9, 10}

	results := fetchDetails(context.Background(), fetcher, ids, 4)

	require.Len(t, results, len(ids))
	for i, r := range results {
		assert.Equal(t, ids[i], r.id)
		if r.id == 13 {
			assert.Error(t, r.err)
			continue
		}
		assert.NoError(t, r.err)
		assert.Equal(t, ids[i], r.summary.ID)
	}
	assert.LessOrEqual(t, fetcher.peak.Load(), int32(4))
}

func TestPrintDetails(t *testing.T) {
	var out bytes.Buffer

	err := printDetails(&out, []detailResult{
		{id: 11, summary: movies.Summary{ID: 11, Title: "Star Wars"}},
		{id: 13, err: movies.Classify(&tmdb.StatusError{StatusCode: 404})},
	})

	assert.ErrorIs(t, err, errDetailsFailed)
	text := out.String()
	assert.Contains(t, text, "╰── Star Wars\n")
	assert.Contains(t, text, "13: Error: "+browse.EnglishMessages{}.HTTP(404))
	assert.Less(t, strings.Index(text, "Star Wars"), strings.Index(text, "13: Error"))

	out.Reset()
	assert.NoError(t, printDetails(&out, []detailResult{{id: 1, summary: movies.Summary{ID: 1, Title: "One"}}}))
}

// fakeController records shell and pager calls
type fakeController struct {
	mu       sync.Mutex
	calls    []string
	items    []browse.Item
	pages    int
	maxPages int
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) OnLoad() {
	f.record("load")
	f.addPage()
}

func (f *fakeController) Search(text string) {
	f.record("search:" + text)
	f.addPage()
}

func (f *fakeController) SetSort(sort movies.Sort) { f.record("sort:" + sort.String()) }
func (f *fakeController) Refresh()                 { f.record("refresh") }
func (f *fakeController) Wait()                    {}

func (f *fakeController) LoadMoreIfNeeded(visibleIndex int) {
	f.record("more")
	if f.pages < f.maxPages {
		f.addPage()
	}
}

func (f *fakeController) Items() []browse.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]browse.Item(nil), f.items...)
}

func (f *fakeController) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages < f.maxPages
}

func (f *fakeController) addPage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages++
	f.items = append(f.items, browse.Item{ID: f.pages})
}

func TestLoadPages(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		pages     int
		maxPages  int
		wantCalls []string
	}{
		{"single page", "", 1, 5, []string{"load"}},
		{"three pages", "", 3, 5, []string{"load", "more", "more"}},
		{"stops at last page", "", 10, 2, []string{"load", "more"}},
		{"search", "dune", 2, 5, []string{"search:dune", "more"}},
		{"blank query browses", "   ", 1, 5, []string{"load"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeController{maxPages: tt.maxPages}
			loadPages(c, tt.query, tt.pages)
			assert.Equal(t, tt.wantCalls, c.Calls())
		})
	}
}

func TestRunShell(t *testing.T) {
	input := strings.Join([]string{
		"star wars",
		":sort rating",
		":sort alphabetical",
		":more",
		":refresh",
		"",
		":bogus",
		":quit",
		"never read",
	}, "\n")

	var out bytes.Buffer
	c := &fakeController{maxPages: 5}

	err := runShell(context.Background(), strings.NewReader(input), &out, c)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"search:star wars",
		"sort:rating",
		"more",
		"refresh",
		"search:",
	}, c.Calls())
	assert.Contains(t, out.String(), `unknown sort "alphabetical"`)
	assert.Contains(t, out.String(), "Unknown command :bogus")
}

func TestRunShellEOF(t *testing.T) {
	c := &fakeController{maxPages: 1}

	err := runShell(context.Background(), strings.NewReader("dune\n"), &bytes.Buffer{}, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"search:dune"}, c.Calls())
}

type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}

func TestRunShellContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- runShell(ctx, blockingReader{}, &bytes.Buffer{}, &fakeController{})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runShell did not return after cancel")
	}
}

var errScan = errors.New("read failed")

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errScan
}

func TestRunShellReadError(t *testing.T) {
	err := runShell(context.Background(), failingReader{}, &bytes.Buffer{}, &fakeController{})
	assert.ErrorIs(t, err, errScan)
}
