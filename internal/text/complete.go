package text

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toolagent/toolagent/internal/models"
)

// ErrUnexpectedToolCall is returned by Complete when the model attempts to call a tool.
var ErrUnexpectedToolCall = errors.New("model attempted a tool call")

// Complete sends chat to the completer and collects the streamed tokens into one message.
func Complete(ctx context.Context, sc models.StreamCompleter, chat models.Chat) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	completionsChan, err := sc.StreamCompletions(ctx, chat)
	if err != nil {
		return "", fmt.Errorf("failed to stream completions: %w", err)
	}
	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-completionsChan:
			if !ok {
				return sb.String(), nil
			}
			switch cast := ev.(type) {
			case string:
				sb.WriteString(cast)
			case error:
				return "", fmt.Errorf("completion stream error: %w", cast)
			case models.Call:
				return "", fmt.Errorf("%w: '%v'", ErrUnexpectedToolCall, cast.Name)
			case models.StopEvent:
				return sb.String(), nil
			}
		}
	}
}
