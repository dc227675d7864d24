package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/google/uuid"
	"github.com/toolagent/toolagent/internal/batch"
	"github.com/toolagent/toolagent/internal/config"
	"github.com/toolagent/toolagent/internal/markdown"
	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/text"
	"github.com/toolagent/toolagent/internal/tools"
	"github.com/toolagent/toolagent/internal/utils"
	"github.com/toolagent/toolagent/internal/vendors/zhipu"
)

type Mode int

const (
	HELP Mode = iota
	VERSION
	TOOLS
	BATCH
	FORMAT
	MAIL
	SEARCH
	ASK
)

// toolOutputRuneLimit keeps a single tool reply, such as a scraped website, from filling the context.
const toolOutputRuneLimit = 20000

var defaultFlags = Configurations{
	ChatModel:    zhipu.Default.Model,
	SourceDir:    "processed_data",
	DestDir:      "format_data",
	MaxRetries:   batch.DefaultOptions.MaxRetries,
	RetryDelay:   batch.DefaultOptions.RetryDelay,
	Encoding:     "",
	PrintRaw:     false,
	MaxToolCalls: 20,
	EnvFile:      config.DefaultEnvFile,
}

// agentTools are the tool name patterns available to each agent command.
var agentTools = map[Mode][]string{
	MAIL:   {"universal_email_*"},
	SEARCH: {"baidu_search_tool", "website_text"},
	ASK:    {"*"},
}

func getModeFromArgs(cmd string) (Mode, error) {
	switch cmd {
	case "batch", "b":
		return BATCH, nil
	case "format", "f":
		return FORMAT, nil
	case "mail", "m":
		return MAIL, nil
	case "search", "s":
		return SEARCH, nil
	case "ask", "a":
		return ASK, nil
	case "tools", "t":
		return TOOLS, nil
	case "help", "h":
		return HELP, nil
	case "version", "v":
		return VERSION, nil
	default:
		return HELP, fmt.Errorf("unknown command: '%s'", cmd)
	}
}

func printUsage(usage string) {
	fmt.Printf(usage,
		defaultFlags.ChatModel,
		defaultFlags.SourceDir,
		defaultFlags.DestDir,
		defaultFlags.MaxRetries,
		defaultFlags.RetryDelay,
		defaultFlags.MaxToolCalls,
		defaultFlags.EnvFile,
	)
}

// Setup parses args and returns the Querier of the command they name. Commands which
// finish during setup, such as help, return utils.ErrUserInitiatedExit.
func Setup(ctx context.Context, usage string, args []string) (models.Querier, error) {
	flagSet, posArgs, err := parseFlags(defaultFlags, args)
	if err != nil {
		return nil, err
	}
	if len(posArgs) == 0 {
		printUsage(usage)
		return nil, utils.ErrUserInitiatedExit
	}
	mode, err := getModeFromArgs(posArgs[0])
	if err != nil {
		return nil, err
	}
	switch mode {
	case HELP:
		printUsage(usage)
		return nil, utils.ErrUserInitiatedExit
	case VERSION:
		return printVersion()
	}

	confDir, err := utils.GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find config dir: %w", err)
	}
	conf, err := config.Load(flagSet.EnvFile, flagSet.EnvFile != defaultFlags.EnvFile, confDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("mode: %v, flags: %+v\n", mode, flagSet))
	}

	switch mode {
	case TOOLS:
		// Only the specifications are used, so no completer is needed
		return nil, tools.SubCmd(tools.Init(conf, nil), posArgs, os.Stdout)
	case BATCH:
		return setupBatch(flagSet, conf)
	case FORMAT:
		return setupFormat(flagSet, conf, posArgs[1:])
	case MAIL, SEARCH, ASK:
		return setupAgent(mode, flagSet, conf, strings.Join(posArgs[1:], " "))
	default:
		return nil, fmt.Errorf("unknown mode: %v", mode)
	}
}

func newFormatter(flagSet Configurations, conf config.Config) (*markdown.Formatter, error) {
	completer, err := CreateCompleter(flagSet.ChatModel, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create completer: %w", err)
	}
	return &markdown.Formatter{
		Completer:     completer,
		SystemPrompt:  conf.Prompts.Format,
		InputEncoding: flagSet.Encoding,
	}, nil
}

func setupBatch(flagSet Configurations, conf config.Config) (models.Querier, error) {
	formatter, err := newFormatter(flagSet, conf)
	if err != nil {
		return nil, err
	}
	p, err := batch.New(batch.Options{
		MaxRetries: flagSet.MaxRetries,
		RetryDelay: flagSet.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch processor: %w", err)
	}
	return &batchCommand{
		processor: p,
		src:       flagSet.SourceDir,
		dst:       flagSet.DestDir,
		transform: formatter,
	}, nil
}

func setupFormat(flagSet Configurations, conf config.Config, args []string) (models.Querier, error) {
	if len(args) > 2 {
		return nil, fmt.Errorf("format expects at most an input and an output path, got: %v", args)
	}
	formatter, err := newFormatter(flagSet, conf)
	if err != nil {
		return nil, err
	}
	cmd := &formatCommand{
		formatter: formatter,
		src:       flagSet.SourceDir,
	}
	if len(args) > 0 {
		cmd.in = args[0]
	}
	if len(args) > 1 {
		cmd.out = args[1]
	}
	return cmd, nil
}

func agentPrompt(mode Mode, p config.Prompts) string {
	switch mode {
	case MAIL:
		return p.Mail
	case SEARCH:
		return p.Search
	default:
		return p.Ask
	}
}

func setupAgent(mode Mode, flagSet Configurations, conf config.Config, request string) (models.Querier, error) {
	if strings.TrimSpace(request) == "" {
		return nil, fmt.Errorf("expected a request, such as: toolagent %v <request>", mode)
	}
	// The formatting tool gets a completer of its own, so that its completions
	// never carry the agent's tools.
	formatter, err := newFormatter(flagSet, conf)
	if err != nil {
		return nil, err
	}
	registry := tools.Init(conf, formatter.Completer)

	model, err := CreateCompleter(flagSet.ChatModel, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create completer: %w", err)
	}
	selected := tools.NewRegistry()
	for _, t := range registry.Select(agentTools[mode]...) {
		name := t.Specification().Name
		selected.Set(name, t)
		model.RegisterTool(t)
	}

	chat := models.Chat{
		Created: time.Now(),
		ID:      uuid.NewString(),
		Messages: []models.Message{
			{Role: "system", Content: agentPrompt(mode, conf.Prompts)},
			{Role: "user", Content: request},
		},
	}
	q := text.NewQuerier(model, selected, chat)
	q.Raw = flagSet.PrintRaw
	q.ToolOutputRuneLimit = toolOutputRuneLimit
	if flagSet.MaxToolCalls >= 0 {
		maxCalls := flagSet.MaxToolCalls
		q.MaxToolCalls = &maxCalls
	}
	return q, nil
}

func (m Mode) String() string {
	switch m {
	case HELP:
		return "help"
	case VERSION:
		return "version"
	case TOOLS:
		return "tools"
	case BATCH:
		return "batch"
	case FORMAT:
		return "format"
	case MAIL:
		return "mail"
	case SEARCH:
		return "search"
	case ASK:
		return "ask"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
