// Package markdown reformats text files into clean Markdown with a chat model.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/toolagent/toolagent/internal/batch"
	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/text"
	"golang.org/x/text/encoding/htmlindex"
)

const DefaultSystemPrompt = "You are a text formatting expert. Convert the following text into clean, well-structured Markdown. " +
	"Fix every formatting error and remove any stray characters or markup. " +
	"Most importantly, never change the original meaning of the text. " +
	"Your output must consist only of the formatted Markdown."

var (
	ErrInvalidUTF8   = errors.New("input is not valid utf-8, set an input encoding")
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrNoFilesToPick = errors.New("no files to pick from")
)

// Formatter implements batch.Transformer by sending each file to the completer.
type Formatter struct {
	Completer    models.StreamCompleter
	SystemPrompt string
	// InputEncoding is a WHATWG encoding label, such as 'gbk'. Empty means utf-8.
	InputEncoding string
}

// Format content into Markdown.
func (f *Formatter) Format(ctx context.Context, content string) (string, error) {
	prompt := f.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	chat := models.Chat{
		Created: time.Now(),
		ID:      uuid.NewString(),
		Messages: []models.Message{
			{Role: "system", Content: prompt},
			{Role: "user", Content: content},
		},
	}
	res, err := text.Complete(ctx, f.Completer, chat)
	if err != nil {
		return "", err
	}
	res = unwrapFence(res)
	if strings.TrimSpace(res) == "" {
		return "", ErrEmptyResponse
	}
	return res, nil
}

// Apply formats the file at in and writes the result to out. An empty out overwrites in.
func (f *Formatter) Apply(ctx context.Context, in, out string) error {
	if out == "" {
		out = in
	}
	content, err := f.readInput(in)
	if err != nil {
		return err
	}
	formatted, err := f.Format(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to format '%v': %w", in, err)
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(formatted), 0o644); err != nil {
		return fmt.Errorf("failed to write '%v': %w", out, err)
	}
	return nil
}

func (f *Formatter) readInput(in string) (string, error) {
	b, err := os.ReadFile(in)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", batch.Permanent(fmt.Errorf("input file not found: %w", err))
		}
		return "", fmt.Errorf("failed to read '%v': %w", in, err)
	}
	if f.InputEncoding == "" {
		if !utf8.Valid(b) {
			return "", batch.Permanent(fmt.Errorf("'%v': %w", in, ErrInvalidUTF8))
		}
		return string(b), nil
	}
	enc, err := htmlindex.Get(f.InputEncoding)
	if err != nil {
		return "", batch.Permanent(fmt.Errorf("unknown encoding '%v': %w", f.InputEncoding, err))
	}
	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", batch.Permanent(fmt.Errorf("failed to decode '%v' as %v: %w", in, f.InputEncoding, err))
	}
	return string(decoded), nil
}

// unwrapFence removes a ```markdown fence wrapping the whole response.
func unwrapFence(s string) string {
	trimmed := strings.TrimSpace(s)
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if (first != "```markdown" && first != "```md") || last != "```" {
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n") + "\n"
}
