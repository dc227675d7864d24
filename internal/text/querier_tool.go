package text

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/utils"
)

// MaxShortenedNewlines is the amount of tool output lines shown to the user.
const MaxShortenedNewlines = 5

// maxRefusedToolCalls is how many calls past the budget are answered before the query is aborted.
const maxRefusedToolCalls = 3

// ErrToolCallBudgetExceeded is returned when the model keeps calling tools after being told to stop.
var ErrToolCallBudgetExceeded = errors.New("model kept calling tools after the budget ran out")

// AttemptPrint is utils.AttemptPrettyPrint, replaceable in tests.
var AttemptPrint = func(out io.Writer, msg models.Message, username string, raw bool) error {
	return utils.AttemptPrettyPrint(out, msg, username, raw)
}

func limitToolOutput(out string, limit int) string {
	if limit <= 0 {
		return out
	}
	amRunes := utf8.RuneCountInString(out)
	if amRunes <= limit {
		return out
	}
	return fmt.Sprintf(
		"%v... and %v more characters. The tool's output has been restricted as it's too long. Please concentrate your tool calls to reduce the amount of tokens used!",
		string([]rune(out)[:limit]), amRunes-limit)
}

func (q *Querier) prefixToolCallsRemaining(out string) string {
	return fmt.Sprintf("[ Tool calls remaining: %v ] %v", *q.MaxToolCalls-q.amToolCalls, out)
}

// doToolCallLogic appends the call and its output to the chat, printing both.
func (q *Querier) doToolCallLogic(call models.Call) error {
	if q.debug || misc.Truthy(os.Getenv("DEBUG_CALL")) {
		ancli.PrintOK(fmt.Sprintf("received tool call: %v\n", debug.IndentedJsonFmt(call)))
	}
	// Patch the call to clean up any potential vendor-specific issues
	call.Patch()

	assistantToolsCall := models.Message{
		Role:      "assistant",
		Content:   call.PrettyPrint(),
		ToolCalls: []models.Call{call},
	}
	err := AttemptPrint(q.out, assistantToolsCall, q.username, q.Raw)
	if err != nil {
		return fmt.Errorf("failed to pretty print, stopping before tool invocation: %w", err)
	}
	q.chat.Messages = append(q.chat.Messages, assistantToolsCall)

	var out string
	if q.MaxToolCalls != nil && q.amToolCalls >= *q.MaxToolCalls {
		q.amRefused++
		if q.amRefused > maxRefusedToolCalls {
			return ErrToolCallBudgetExceeded
		}
		out = "ERROR: No more tool calls allowed"
	} else {
		out = q.Invoker.Invoke(call)
		if q.MaxToolCalls != nil {
			q.amToolCalls++
			out = q.prefixToolCallsRemaining(out)
		}
	}
	out = limitToolOutput(out, q.ToolOutputRuneLimit)
	// Some vendors reject tool messages without content
	if out == "" {
		out = "<EMPTY-RESPONSE>"
	}
	toolsOutput := models.Message{
		Role:       "tool",
		Content:    out,
		ToolCallID: call.ID,
	}
	q.chat.Messages = append(q.chat.Messages, toolsOutput)

	printed := toolsOutput
	if !q.Raw {
		printed = models.Message{
			Role:    "tool",
			Content: utils.ShortenedOutput(out, MaxShortenedNewlines),
		}
	}
	err = AttemptPrint(q.out, printed, "tool", q.Raw)
	if err != nil {
		return fmt.Errorf("failed to pretty print, stopping before tool call return: %w", err)
	}
	return nil
}
