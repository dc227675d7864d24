package markdown

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toolagent/toolagent/internal/batch"
	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/vendors/echo"
)

// fixedCompleter replies with reply and records the chat it received
type fixedCompleter struct {
	reply    string
	received models.Chat
}

func (f *fixedCompleter) Setup() error { return nil }

func (f *fixedCompleter) StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error) {
	f.received = chat
	ch := make(chan models.CompletionEvent, 2)
	ch <- f.reply
	ch <- models.StopEvent{}
	close(ch)
	return ch, nil
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestFormat_SendsPrompt(t *testing.T) {
	c := &fixedCompleter{reply: "# Title\n"}
	f := &Formatter{Completer: c}
	got, err := f.Format(context.Background(), "  #Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", got)
	require.Len(t, c.received.Messages, 2)
	assert.Equal(t, "system", c.received.Messages[0].Role)
	assert.Equal(t, DefaultSystemPrompt, c.received.Messages[0].Content)
	assert.Equal(t, "  #Title", c.received.Messages[1].Content)

	f.SystemPrompt = "custom"
	_, err = f.Format(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "custom", c.received.Messages[0].Content)
}

func TestFormat_EmptyResponse(t *testing.T) {
	f := &Formatter{Completer: &fixedCompleter{reply: "  \n"}}
	_, err := f.Format(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	writeFile(t, in, []byte("hello"))

	t.Run("it should write to a nested output path", func(t *testing.T) {
		out := filepath.Join(dir, "nested", "deeper", "out.md")
		f := &Formatter{Completer: &echo.Completer{}}
		require.NoError(t, f.Apply(context.Background(), in, out))
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b))
	})

	t.Run("it should overwrite the input without output path", func(t *testing.T) {
		f := &Formatter{Completer: &fixedCompleter{reply: "# hello"}}
		require.NoError(t, f.Apply(context.Background(), in, ""))
		b, err := os.ReadFile(in)
		require.NoError(t, err)
		assert.Equal(t, "# hello", string(b))
	})
}

func TestApply_PermanentErrors(t *testing.T) {
	dir := t.TempDir()
	f := &Formatter{Completer: &echo.Completer{}}

	err := f.Apply(context.Background(), filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.md"))
	require.Error(t, err)
	assert.True(t, batch.IsPermanent(err), "missing input should be permanent")

	bad := filepath.Join(dir, "bad.txt")
	writeFile(t, bad, []byte{0xff, 0xfe, 0xfd})
	err = f.Apply(context.Background(), bad, filepath.Join(dir, "out.md"))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.True(t, batch.IsPermanent(err), "invalid utf-8 should be permanent")

	f.InputEncoding = "not-an-encoding"
	err = f.Apply(context.Background(), bad, filepath.Join(dir, "out.md"))
	assert.True(t, batch.IsPermanent(err), "unknown encoding should be permanent")
}

func TestApply_GBK(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "gbk.txt")
	// "周报" in gbk
	writeFile(t, in, []byte{0xd6, 0xdc, 0xb1, 0xa8})
	out := filepath.Join(dir, "out.md")
	f := &Formatter{Completer: &echo.Completer{}, InputEncoding: "gbk"}
	require.NoError(t, f.Apply(context.Background(), in, out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "周报", string(b))
}

func TestUnwrapFence(t *testing.T) {
	for _, tc := range []struct {
		desc string
		in   string
		want string
	}{
		{"no fence", "# a\n", "# a\n"},
		{"markdown fence", "```markdown\n# a\n\ntext\n```", "# a\n\ntext\n"},
		{"md fence with whitespace", "\n```md\n# a\n```\n\n", "# a\n"},
		{"code fence is kept", "```go\nfmt.Println()\n```", "```go\nfmt.Println()\n```"},
		{"unterminated", "```markdown\n# a", "```markdown\n# a"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, unwrapFence(tc.in))
		})
	}
}

func TestFormatter_AsBatchTransformer(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "format_data")
	writeFile(t, filepath.Join(src, "a.txt"), []byte("alpha"))
	writeFile(t, filepath.Join(src, "b.txt"), []byte{0xff})

	var out bytes.Buffer
	waits := 0
	p, err := batch.New(batch.Options{
		MaxRetries: 3,
		RetryDelay: time.Second,
		Sleep:      func(time.Duration) { waits++ },
		Out:        &out,
	})
	require.NoError(t, err)

	var tr batch.Transformer = &Formatter{Completer: &echo.Completer{}}
	summary, err := p.Run(context.Background(), src, dst, tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, summary.Processed)
	assert.Equal(t, []string{"b.txt"}, summary.Failed)
	assert.Equal(t, 0, waits, "permanent errors should not be retried")

	b, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(b))
	_, err = os.Stat(filepath.Join(dst, "b.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPickRandom(t *testing.T) {
	dir := t.TempDir()
	_, err := PickRandom(dir)
	assert.ErrorIs(t, err, ErrNoFilesToPick)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "only.txt"), []byte("x"))
	got, err := PickRandom(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "only.txt"), got)

	_, err = PickRandom(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
