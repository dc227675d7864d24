package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/toolagent/toolagent/internal/utils"
)

type reporter struct {
	out   io.Writer
	debug bool
}

func newReporter(out io.Writer) reporter {
	if out == nil {
		out = os.Stdout
	}
	return reporter{
		out:   out,
		debug: misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_BATCH")),
	}
}

func (r reporter) createdDir(dir string) {
	fmt.Fprintf(r.out, "%v: created directory '%v'\n", ancli.ColoredMessage(ancli.GREEN, "ok"), dir)
}

func (r reporter) noFiles(dir string) {
	fmt.Fprintf(r.out, "no files found in '%v'\n", dir)
}

func (r reporter) start(runID string, amFiles int) {
	fmt.Fprintf(r.out, "starting batch run %v, %d files to go\n", runID, amFiles)
}

func (r reporter) skipped(name string) {
	if r.debug {
		fmt.Fprintf(r.out, "skipping '%v', already exists in destination\n", name)
	}
}

func (r reporter) processing(inputPath string) {
	fmt.Fprintf(r.out, "processing: %v\n", inputPath)
}

func (r reporter) attemptFailed(err *TransformError) {
	fmt.Fprintf(r.out, "  %v: %v\n", ancli.ColoredMessage(ancli.YELLOW, "warning"), err)
}

func (r reporter) retrying(delay time.Duration) {
	fmt.Fprintf(r.out, "  retrying in %v...\n", delay)
}

func (r reporter) gaveUp(name string, permanent bool) {
	reason := "out of attempts"
	if permanent {
		reason = "error is not retryable"
	}
	fmt.Fprintf(r.out, "  %v: giving up on '%v', %v\n", ancli.ColoredMessage(ancli.RED, "error"), name, reason)
}

func (r reporter) summary(s Summary) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, utils.Separator('-', 50))
	fmt.Fprintln(r.out, "batch run complete")
	fmt.Fprintf(r.out, "processed: %d\n", len(s.Processed))
	fmt.Fprintf(r.out, "skipped (already exists): %d\n", len(s.Skipped))
	if len(s.Failed) == 0 {
		return
	}
	fmt.Fprintf(r.out, "failed: %d\n", len(s.Failed))
	for _, f := range s.Failed {
		fmt.Fprintf(r.out, "  - %v\n", f)
	}
}
