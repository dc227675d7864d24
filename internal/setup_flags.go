package internal

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/toolagent/toolagent/internal/utils"
)

type Configurations struct {
	ChatModel string
	SourceDir string
	DestDir   string
	// MaxRetries is the amount of attempts per file in batch mode.
	MaxRetries int
	RetryDelay time.Duration
	// Encoding of the input files, empty means utf-8.
	Encoding string
	PrintRaw bool
	// MaxToolCalls bounds the tool invocations of the agent commands. Negative means unbounded.
	MaxToolCalls int
	EnvFile      string
}

var errMutuallyExclusive = errors.New("values are mutually exclusive")

// parseFlags parses args into Configurations, returning the positional arguments
// which remain after the flags.
func parseFlags(defaults Configurations, args []string) (Configurations, []string, error) {
	fs := flag.NewFlagSet("toolagent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cmShort := fs.String("cm", defaults.ChatModel, "Set the chat model to use. Mutually exclusive with chat-model flag.")
	cmLong := fs.String("chat-model", defaults.ChatModel, "Set the chat model to use. Mutually exclusive with cm flag.")

	src := fs.String("src", defaults.SourceDir, "Directory of the files to format in batch mode.")
	dst := fs.String("dst", defaults.DestDir, "Directory to write the formatted files to in batch mode.")
	retries := fs.Int("retries", defaults.MaxRetries, "Amount of attempts per file before giving up.")
	delay := fs.Duration("delay", defaults.RetryDelay, "Delay between two attempts of the same file.")
	encoding := fs.String("encoding", defaults.Encoding, "Encoding of the input files, such as 'gbk'. Defaults to utf-8.")

	printRawShort := fs.Bool("r", defaults.PrintRaw, "Set to true to print raw output.")
	printRawLong := fs.Bool("raw", defaults.PrintRaw, "Set to true to print raw output.")

	maxToolCalls := fs.Int("max-tool-calls", defaults.MaxToolCalls, "Maximum amount of tool calls per query. Negative means unbounded.")
	envFile := fs.String("env-file", defaults.EnvFile, "Path of the .env file to load.")

	err := fs.Parse(args)
	if err != nil {
		return Configurations{}, []string{}, fmt.Errorf("failed to parse args: %w", err)
	}

	chatModel, err := utils.ReturnNonDefault(*cmShort, *cmLong, defaults.ChatModel)
	if err != nil {
		return Configurations{}, []string{}, flagError(err, "cm", "chat-model")
	}
	if *retries < 1 {
		return Configurations{}, []string{}, fmt.Errorf("retries must be at least 1, got: %v", *retries)
	}
	if *delay < 0 {
		return Configurations{}, []string{}, fmt.Errorf("delay must not be negative, got: %v", *delay)
	}

	return Configurations{
		ChatModel:    chatModel,
		SourceDir:    *src,
		DestDir:      *dst,
		MaxRetries:   *retries,
		RetryDelay:   *delay,
		Encoding:     *encoding,
		PrintRaw:     *printRawShort || *printRawLong,
		MaxToolCalls: *maxToolCalls,
		EnvFile:      *envFile,
	}, fs.Args(), nil
}

func flagError(err error, shortFlag, longFlag string) error {
	if err.Error() == errMutuallyExclusive.Error() {
		return fmt.Errorf("flags: '%v' and '%v' are %w", shortFlag, longFlag, errMutuallyExclusive)
	}
	return fmt.Errorf("unexpected error: %w", err)
}
