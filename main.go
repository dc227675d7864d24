package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/toolagent/toolagent/internal"
	"github.com/toolagent/toolagent/internal/utils"
)

const usage = `toolagent - an llm agent for formatting markdown, email and web search

Prerequisites:
  - Set ZHIPUAI_API_KEY, DEEPSEEK_API_KEY or OPENAI_API_KEY, depending on the chat model
  - (Optional) Set SEARCH_API_KEY to your Baidu Qianfan api key, for the search tool
  - (Optional) Set EMAIL_CONFIGS to a json map of service -> account, and EMAIL_USE to the service
  - (Optional) Put the variables above in a .env file instead
  - (Optional) Set the NO_COLOR environment variable to disable ansi color output

Usage: toolagent [flags] <command>

Flags:
  -cm, -chat-model string   Set the chat model to use. (default %v)
  -src string               Directory of the files to format. (default %v)
  -dst string               Directory to write formatted files to. (default %v)
  -retries int              Attempts per file before giving up. (default %v)
  -delay duration           Delay between attempts of the same file. (default %v)
  -encoding string          Encoding of the input files, such as gbk. (default utf-8)
  -r, -raw bool             Print raw output, no pretty printing.
  -max-tool-calls int       Maximum amount of tool calls per request, negative is unbounded. (default %v)
  -env-file string          Path of the .env file to load. (default %v)

Commands:
  h|help                      Display this help message
  v|version                   Print version and exit
  t|tools [tool-name]         List the tools, or show the specification of one
  b|batch                     Format every file in -src into -dst. Files already in -dst are skipped
  f|format [input] [output]   Format one file, output defaults to input. No input picks a random file of -src
  m|mail <request>            Ask the email agent to send or read emails
  s|search <request>          Ask the search agent, which may search the web and read websites
  a|ask <request>             Ask the agent with every tool available

Examples:
  - toolagent batch
  - toolagent -src notes -dst notes_md -retries 5 -delay 3s batch
  - toolagent -encoding gbk format report.txt report.md
  - toolagent mail "summarize my 5 latest emails"
  - toolagent -cm deepseek-chat search "what's new in go 1.24?"
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ancli.SetupSlog()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	querier, err := internal.Setup(ctx, usage, args)
	if err != nil {
		if errors.Is(err, utils.ErrUserInitiatedExit) {
			return 0
		}
		ancli.PrintErr(fmt.Sprintf("failed to setup: %v\n", err))
		return 1
	}
	go func() { shutdown.Monitor(cancel) }()
	err = querier.Query(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrUserInitiatedExit) {
			ancli.Okf("Seems like you wanted out. Byebye!\n")
			return 0
		}
		ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		return 1
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye! 🚀\n")
	}
	return 0
}
