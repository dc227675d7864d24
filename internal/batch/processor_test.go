package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyTransform counts invocations per input file and fails the first failures[name]
// attempts of each file.
type spyTransform struct {
	calls    map[string]int
	failures map[string]int
	err      error
}

func newSpy() *spyTransform {
	return &spyTransform{
		calls:    make(map[string]int),
		failures: make(map[string]int),
		err:      errors.New("llm unavailable"),
	}
}

func (s *spyTransform) Apply(ctx context.Context, in, out string) error {
	name := filepath.Base(in)
	s.calls[name]++
	if s.calls[name] <= s.failures[name] {
		return s.err
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	return os.WriteFile(out, bytes.ToUpper(b), 0o644)
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.waits = append(s.waits, d)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func newTestProcessor(t *testing.T, maxRetries int, delay time.Duration) (*Processor, *sleepRecorder, *bytes.Buffer) {
	t.Helper()
	rec := &sleepRecorder{}
	out := &bytes.Buffer{}
	p, err := New(Options{MaxRetries: maxRetries, RetryDelay: delay, Sleep: rec.sleep, Out: out})
	require.NoError(t, err)
	return p, rec, out
}

func TestRun_skipsExistingAndProcessesRest(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "processed_data")
	dst := filepath.Join(root, "format_data")
	writeFiles(t, src, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	writeFiles(t, dst, map[string]string{"b.txt": "keep me"})

	p, rec, _ := newTestProcessor(t, 3, time.Second)
	spy := newSpy()
	summary, err := p.Run(context.Background(), src, dst, spy)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, summary.Processed)
	assert.Equal(t, []string{"b.txt"}, summary.Skipped)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, 0, spy.calls["b.txt"], "existing file must never reach the transform")
	assert.Empty(t, rec.waits)

	got, err := os.ReadFile(filepath.Join(dst, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))
	got, err = os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", string(got))
}

func TestRun_retries(t *testing.T) {
	tests := []struct {
		name         string
		maxRetries   int
		failures     int
		wantOutcome  Outcome
		wantCalls    int
		wantWaits    int
		wantAttempts int
	}{
		{name: "succeeds first time", maxRetries: 3, failures: 0, wantOutcome: Processed, wantCalls: 1, wantWaits: 0, wantAttempts: 1},
		{name: "fails once then succeeds", maxRetries: 3, failures: 1, wantOutcome: Processed, wantCalls: 2, wantWaits: 1, wantAttempts: 2},
		{name: "fails k=max-1 times then succeeds", maxRetries: 3, failures: 2, wantOutcome: Processed, wantCalls: 3, wantWaits: 2, wantAttempts: 3},
		{name: "always fails", maxRetries: 3, failures: 100, wantOutcome: Failed, wantCalls: 3, wantWaits: 2, wantAttempts: 3},
		{name: "single attempt always fails", maxRetries: 1, failures: 100, wantOutcome: Failed, wantCalls: 1, wantWaits: 0, wantAttempts: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			src := filepath.Join(root, "src")
			dst := filepath.Join(root, "dst")
			writeFiles(t, src, map[string]string{"doc.md": "text"})

			p, rec, _ := newTestProcessor(t, tc.maxRetries, 250*time.Millisecond)
			spy := newSpy()
			spy.failures["doc.md"] = tc.failures

			summary, err := p.Run(context.Background(), src, dst, spy)
			require.NoError(t, err)
			require.Len(t, summary.Results, 1)

			res := summary.Results[0]
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.Equal(t, tc.wantAttempts, res.Attempts)
			assert.Equal(t, tc.wantCalls, spy.calls["doc.md"])
			require.Len(t, rec.waits, tc.wantWaits)
			for _, w := range rec.waits {
				assert.Equal(t, 250*time.Millisecond, w)
			}
			if tc.wantOutcome == Failed {
				assert.Equal(t, []string{"doc.md"}, summary.Failed)
				assert.ErrorIs(t, res.Err, spy.err)
				assert.NoFileExists(t, filepath.Join(dst, "doc.md"))
			}
		})
	}
}

func TestRun_permanentErrorStopsRetrying(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFiles(t, src, map[string]string{"bad.txt": "x", "good.txt": "y"})

	p, rec, out := newTestProcessor(t, 3, time.Second)
	spy := newSpy()
	spy.err = Permanent(errors.New("input is not valid utf-8"))
	spy.failures["bad.txt"] = 100

	summary, err := p.Run(context.Background(), src, dst, spy)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad.txt"}, summary.Failed)
	assert.Equal(t, []string{"good.txt"}, summary.Processed)
	assert.Equal(t, 1, spy.calls["bad.txt"])
	assert.Empty(t, rec.waits)
	assert.Contains(t, out.String(), "error is not retryable")
}

func TestRun_countsAddUp(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	files := map[string]string{}
	for i := range 7 {
		files[fmt.Sprintf("f%d.txt", i)] = "content"
	}
	writeFiles(t, src, files)
	writeFiles(t, dst, map[string]string{"f1.txt": "", "f4.txt": ""})
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested"), 0o755))

	p, _, _ := newTestProcessor(t, 2, 0)
	spy := newSpy()
	spy.failures["f2.txt"] = 5
	spy.failures["f5.txt"] = 1

	summary, err := p.Run(context.Background(), src, dst, spy)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Total(), "directories must not be counted")
	assert.Len(t, summary.Skipped, 2)
	assert.Equal(t, []string{"f2.txt"}, summary.Failed)
	assert.Len(t, summary.Processed, 4)
}

func TestRun_processesInDirectoryOrder(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFiles(t, src, map[string]string{"c.md": "", "a.md": "", "b.md": ""})

	p, _, _ := newTestProcessor(t, 1, 0)
	summary, err := p.Run(context.Background(), src, dst, newSpy())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, summary.Processed)
}

func TestRun_missingSourceDirectory(t *testing.T) {
	root := t.TempDir()
	dst := filepath.Join(root, "dst")

	p, _, _ := newTestProcessor(t, 3, 0)
	spy := newSpy()
	summary, err := p.Run(context.Background(), filepath.Join(root, "nope"), dst, spy)
	require.ErrorIs(t, err, ErrDirectoryNotFound)
	assert.Equal(t, Summary{}, summary)
	assert.NoDirExists(t, dst, "nothing may be written when the source is missing")
	assert.Empty(t, spy.calls)
}

func TestRun_sourceIsAFile(t *testing.T) {
	root := t.TempDir()
	f := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	p, _, _ := newTestProcessor(t, 3, 0)
	_, err := p.Run(context.Background(), f, filepath.Join(root, "dst"), newSpy())
	require.ErrorIs(t, err, ErrDirectoryNotFound)
}

func TestRun_emptySourceDirectory(t *testing.T) {
	t.Run("it should report no files and not create an existing destination", func(t *testing.T) {
		root := t.TempDir()
		src := filepath.Join(root, "src")
		dst := filepath.Join(root, "dst")
		writeFiles(t, src, nil)
		writeFiles(t, dst, nil)

		p, _, out := newTestProcessor(t, 3, 0)
		summary, err := p.Run(context.Background(), src, dst, newSpy())
		require.NoError(t, err)
		assert.Empty(t, summary.Processed)
		assert.Empty(t, summary.Skipped)
		assert.Empty(t, summary.Failed)
		assert.Contains(t, out.String(), "no files found")
		assert.NotContains(t, out.String(), "created directory")
	})

	t.Run("it should create a missing destination", func(t *testing.T) {
		root := t.TempDir()
		src := filepath.Join(root, "src")
		dst := filepath.Join(root, "dst")
		writeFiles(t, src, nil)

		p, _, out := newTestProcessor(t, 3, 0)
		_, err := p.Run(context.Background(), src, dst, newSpy())
		require.NoError(t, err)
		assert.DirExists(t, dst)
		assert.Contains(t, out.String(), "created directory")
	})
}

func TestRun_destinationIsAFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	writeFiles(t, src, map[string]string{"a": "a"})
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.WriteFile(dst, nil, 0o644))

	p, _, _ := newTestProcessor(t, 3, 0)
	_, err := p.Run(context.Background(), src, dst, newSpy())
	var unknown *UnknownError
	require.ErrorAs(t, err, &unknown)
}

func TestRun_neverTouchesSource(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFiles(t, src, map[string]string{"a.txt": "alpha"})

	p, _, _ := newTestProcessor(t, 3, 0)
	_, err := p.Run(context.Background(), src, dst, newSpy())
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(src, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got))
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_contextCancelled(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFiles(t, src, map[string]string{"a": "a", "b": "b", "c": "c"})

	ctx, cancel := context.WithCancel(context.Background())
	p, _, _ := newTestProcessor(t, 3, 0)
	calls := 0
	summary, err := p.Run(ctx, src, dst, TransformFunc(func(ctx context.Context, in, out string) error {
		calls++
		cancel()
		return os.WriteFile(out, nil, 0o644)
	}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"a"}, summary.Processed)
	assert.FileExists(t, filepath.Join(dst, "a"), "written outputs are kept on interrupt")
}

func TestRun_reportsAttempts(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFiles(t, src, map[string]string{"x.md": "x"})

	p, _, out := newTestProcessor(t, 2, time.Second)
	spy := newSpy()
	spy.failures["x.md"] = 10
	_, err := p.Run(context.Background(), src, dst, spy)
	require.NoError(t, err)

	got := out.String()
	for _, want := range []string{
		"processing: " + filepath.Join(src, "x.md"),
		"failed to process 'x.md' (attempt 1/2): llm unavailable",
		"retrying in 1s",
		"failed to process 'x.md' (attempt 2/2): llm unavailable",
		"processed: 0",
		"failed: 1",
		"  - x.md",
	} {
		assert.Contains(t, got, want)
	}
	assert.Equal(t, 1, strings.Count(got, "retrying in"))
}

func TestNew_validatesOptions(t *testing.T) {
	_, err := New(Options{MaxRetries: 0})
	require.ErrorIs(t, err, ErrInvalidOptions)
	_, err = New(Options{MaxRetries: 1, RetryDelay: -time.Second})
	require.ErrorIs(t, err, ErrInvalidOptions)
	_, err = New(DefaultOptions)
	require.NoError(t, err)
}

func TestPermanent(t *testing.T) {
	base := errors.New("boom")
	assert.Nil(t, Permanent(nil))
	assert.False(t, IsPermanent(base))
	wrapped := fmt.Errorf("context: %w", Permanent(base))
	assert.True(t, IsPermanent(wrapped))
	assert.ErrorIs(t, wrapped, base)
}
