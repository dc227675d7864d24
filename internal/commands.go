package internal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/toolagent/toolagent/internal/batch"
	"github.com/toolagent/toolagent/internal/markdown"
)

// batchCommand formats every file of src into dst.
type batchCommand struct {
	processor *batch.Processor
	src       string
	dst       string
	transform batch.Transformer
}

func (b *batchCommand) Query(ctx context.Context) error {
	summary, err := b.processor.Run(ctx, b.src, b.dst, b.transform)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}
	if len(summary.Failed) > 0 {
		ancli.PrintWarn(fmt.Sprintf("%v file(s) could not be formatted, they'll be retried on the next run\n", len(summary.Failed)))
	}
	return nil
}

// formatCommand formats a single file. An empty in picks a random file of src.
type formatCommand struct {
	formatter *markdown.Formatter
	in        string
	out       string
	src       string
	stdout    io.Writer
}

func (f *formatCommand) Query(ctx context.Context) error {
	in := f.in
	if in == "" {
		picked, err := markdown.PickRandom(f.src)
		if err != nil {
			return fmt.Errorf("failed to pick file: %w", err)
		}
		in = picked
	}
	out := f.out
	if out == "" {
		out = in
	}
	if err := f.formatter.Apply(ctx, in, out); err != nil {
		return fmt.Errorf("failed to format '%v': %w", in, err)
	}
	w := f.stdout
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "formatted '%v' and saved it to '%v'\n", in, out)
	return nil
}
