// Package echo contains a completer which replies with the last user message.
// It lets the whole pipeline run without network access.
package echo

import (
	"context"

	"github.com/toolagent/toolagent/internal/models"
)

type Completer struct{}

func (m *Completer) Setup() error {
	return nil
}

func (m *Completer) RegisterTool(models.LLMTool) {}

func (m *Completer) StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error) {
	ch := make(chan models.CompletionEvent)
	go func() {
		defer close(ch)
		uMsg, _, _ := chat.LastOfRole("user")
		for _, ev := range []models.CompletionEvent{uMsg.Content, models.StopEvent{}} {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
