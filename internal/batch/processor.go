package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Transformer reads inputPath and writes the transformed result to outputPath.
type Transformer interface {
	Apply(ctx context.Context, inputPath, outputPath string) error
}

// TransformFunc adapts a plain function to a Transformer.
type TransformFunc func(ctx context.Context, inputPath, outputPath string) error

func (f TransformFunc) Apply(ctx context.Context, inputPath, outputPath string) error {
	return f(ctx, inputPath, outputPath)
}

type Options struct {
	// MaxRetries is the total amount of attempts per file, at least 1.
	MaxRetries int
	// RetryDelay is waited between two attempts of the same file.
	RetryDelay time.Duration
	// Sleep blocks for the given duration. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Out receives the progress report. Defaults to stdout.
	Out io.Writer
}

var DefaultOptions = Options{
	MaxRetries: 3,
	RetryDelay: time.Second,
}

type Processor struct {
	maxRetries int
	retryDelay time.Duration
	sleep      func(time.Duration)
	report     reporter
}

func New(opts Options) (*Processor, error) {
	if opts.MaxRetries < 1 {
		return nil, fmt.Errorf("%w: max retries must be at least 1, got: %d", ErrInvalidOptions, opts.MaxRetries)
	}
	if opts.RetryDelay < 0 {
		return nil, fmt.Errorf("%w: retry delay must not be negative, got: %v", ErrInvalidOptions, opts.RetryDelay)
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Processor{
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		sleep:      sleep,
		report:     newReporter(opts.Out),
	}, nil
}

// Run transforms every file of src into dst using t, with maxRetries attempts per file and
// retryDelay between attempts. Progress is reported on stdout.
func Run(ctx context.Context, src, dst string, t Transformer, maxRetries int, retryDelay time.Duration) (Summary, error) {
	p, err := New(Options{MaxRetries: maxRetries, RetryDelay: retryDelay})
	if err != nil {
		return Summary{}, err
	}
	return p.Run(ctx, src, dst, t)
}

// Run the batch. Errors returned are either ErrDirectoryNotFound, an *UnknownError or the
// context error if ctx is cancelled mid-run, in which case the partial summary is returned
// alongside it. Failing files are reported in the Summary, not as an error.
func (p *Processor) Run(ctx context.Context, src, dst string, t Transformer) (Summary, error) {
	if err := checkSourceDir(src); err != nil {
		return Summary{}, err
	}
	if err := p.ensureDestDir(dst); err != nil {
		return Summary{}, err
	}
	existing, err := fileNames(dst)
	if err != nil {
		return Summary{}, &UnknownError{Op: "list destination directory", Err: err}
	}
	files, err := regularFiles(src)
	if err != nil {
		return Summary{}, &UnknownError{Op: "list source directory", Err: err}
	}

	summary := Summary{RunID: ulid.Make().String()}
	if len(files) == 0 {
		p.report.noFiles(src)
		return summary, nil
	}

	p.report.start(summary.RunID, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("batch run interrupted: %w", err)
		}
		if _, exists := existing[name]; exists {
			p.report.skipped(name)
			summary.record(FileResult{Name: name, Outcome: Skipped})
			continue
		}
		res, err := p.processFile(ctx, t, name, filepath.Join(src, name), filepath.Join(dst, name))
		if err != nil {
			return summary, fmt.Errorf("batch run interrupted: %w", err)
		}
		summary.record(res)
	}
	p.report.summary(summary)
	return summary, nil
}

// processFile attempts t until it succeeds or the attempts run out. The only error returned is
// the context error, everything else is recorded in the FileResult.
func (p *Processor) processFile(ctx context.Context, t Transformer, name, inputPath, outputPath string) (FileResult, error) {
	p.report.processing(inputPath)
	var lastErr error
	attempt := 1
	for ; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return FileResult{}, err
		}
		err := t.Apply(ctx, inputPath, outputPath)
		if err == nil {
			return FileResult{Name: name, Outcome: Processed, Attempts: attempt}, nil
		}
		lastErr = err
		p.report.attemptFailed(&TransformError{
			File:        name,
			Attempt:     attempt,
			MaxAttempts: p.maxRetries,
			Err:         err,
		})
		if IsPermanent(err) {
			break
		}
		if attempt < p.maxRetries {
			p.report.retrying(p.retryDelay)
			p.sleep(p.retryDelay)
		}
	}
	if attempt > p.maxRetries {
		attempt = p.maxRetries
	}
	p.report.gaveUp(name, IsPermanent(lastErr))
	return FileResult{Name: name, Outcome: Failed, Attempts: attempt, Err: lastErr}, nil
}

func checkSourceDir(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: '%v'", ErrDirectoryNotFound, src)
		}
		return &UnknownError{Op: "stat source directory", Err: err}
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: '%v' is not a directory", ErrDirectoryNotFound, src)
	}
	return nil
}

func (p *Processor) ensureDestDir(dst string) error {
	info, err := os.Stat(dst)
	if err == nil {
		if !info.IsDir() {
			return &UnknownError{Op: "use destination directory", Err: fmt.Errorf("'%v' is not a directory", dst)}
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return &UnknownError{Op: "stat destination directory", Err: err}
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return &UnknownError{Op: "create destination directory", Err: err}
	}
	p.report.createdDir(dst)
	return nil
}

func fileNames(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		ret[e.Name()] = struct{}{}
	}
	return ret, nil
}

// regularFiles in dir, non-recursive. Symlinks count if they point to a regular file.
func regularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			ret = append(ret, e.Name())
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err == nil && info.Mode().IsRegular() {
				ret = append(ret, e.Name())
			}
		}
	}
	return ret, nil
}
