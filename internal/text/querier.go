package text

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/toolagent/toolagent/internal/models"
)

// ToolInvoker runs a call and returns its output as text. Failures are
// returned as text as well so that the model may react to them.
type ToolInvoker interface {
	Invoke(models.Call) string
}

// Querier runs a chat against a model, invoking tools for as long as the model asks for them.
type Querier struct {
	Model   models.StreamCompleter
	Invoker ToolInvoker
	Raw     bool
	// MaxToolCalls bounds the amount of tool invocations. Nil means unbounded.
	MaxToolCalls        *int
	ToolOutputRuneLimit int

	chat        models.Chat
	out         io.Writer
	username    string
	amToolCalls int
	// amRefused counts tool calls made after the budget ran out
	amRefused int
	debug     bool
}

// NewQuerier which will start from the initial chat once queried.
func NewQuerier(model models.StreamCompleter, invoker ToolInvoker, initial models.Chat) *Querier {
	q := &Querier{
		Model:   model,
		Invoker: invoker,
		chat:    initial,
		out:     os.Stdout,
	}
	currentUser, err := user.Current()
	if err == nil {
		q.username = currentUser.Username
	} else {
		q.username = "user"
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		q.debug = true
	}
	return q
}

// SetOutput replaces stdout as the destination of printed messages.
func (q *Querier) SetOutput(w io.Writer) {
	q.out = w
}

// Query the model with the initial chat and print the final reply. Blocking operation.
func (q *Querier) Query(ctx context.Context) error {
	chat, err := q.TextQuery(ctx, q.chat)
	if err != nil {
		return err
	}
	if q.Raw {
		// Tokens have already been streamed
		fmt.Fprintln(q.out)
		return nil
	}
	final, _, err := chat.LastOfRole("assistant")
	if err != nil {
		return fmt.Errorf("failed to find reply: %w", err)
	}
	return AttemptPrint(q.out, final, q.username, q.Raw)
}

// TextQuery runs the tool loop on chat and returns it with every new message appended.
func (q *Querier) TextQuery(ctx context.Context, chat models.Chat) (models.Chat, error) {
	q.chat = chat
	for {
		msg, call, err := q.streamOnce(ctx)
		if err != nil {
			return q.chat, err
		}
		if call == nil {
			q.chat.Messages = append(q.chat.Messages, models.Message{
				Role:    "assistant",
				Content: msg,
			})
			if q.debug {
				ancli.PrintOK(fmt.Sprintf("chat: %v\n", debug.IndentedJsonFmt(q.chat)))
			}
			return q.chat, nil
		}
		if msg != "" && !q.Raw {
			err = AttemptPrint(q.out, models.Message{Role: "assistant", Content: msg}, q.username, q.Raw)
			if err != nil {
				return q.chat, fmt.Errorf("failed to print: %w", err)
			}
		}
		if err := q.doToolCallLogic(*call); err != nil {
			return q.chat, err
		}
	}
}

// streamOnce sends the current chat and consumes the stream until it ends or a tool call arrives.
func (q *Querier) streamOnce(ctx context.Context) (string, *models.Call, error) {
	subCtx, cancel := context.WithCancel(ctx)
	// Stops the producer once a tool call has been received
	defer cancel()
	completionsChan, err := q.Model.StreamCompletions(subCtx, q.chat)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stream completions: %w", err)
	}
	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case ev, ok := <-completionsChan:
			if !ok {
				return sb.String(), nil, nil
			}
			switch cast := ev.(type) {
			case string:
				sb.WriteString(cast)
				if q.Raw {
					fmt.Fprint(q.out, cast)
				}
			case models.Call:
				return sb.String(), &cast, nil
			case error:
				if errors.Is(cast, context.Canceled) {
					return "", nil, cast
				}
				return "", nil, fmt.Errorf("completion stream error: %w", cast)
			case models.StopEvent:
				return sb.String(), nil, nil
			case models.NoopEvent:
			default:
				return "", nil, fmt.Errorf("unknown completion type: %T", ev)
			}
		}
	}
}
