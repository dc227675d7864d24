package generic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/toolagent/toolagent/internal/models"
)

var dataPrefix = []byte("data: ")

// StreamCompletions taking the messages as prompt conversation. Returns the messages from the chat model.
func (s *StreamCompleter) StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error) {
	if s.client == nil {
		return nil, errors.New("stream completer has not been setup")
	}
	msgs := chat.Messages
	if s.Clean != nil {
		cpy := make([]models.Message, len(chat.Messages))
		copy(cpy, chat.Messages)
		msgs = s.Clean(cpy)
	}
	s.limiter.WaitIfNeeded(ctx)
	req, err := s.createRequest(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %v, body: %v", res.Status, string(body))
	}
	if err := s.limiter.UpdateFromHeaders(res.Header); err != nil && s.debug {
		ancli.PrintWarn(fmt.Sprintf("failed to update rate limits: %v\n", err))
	}
	s.toolsCallName = ""
	s.toolsCallArgsString = ""
	s.toolsCallID = ""
	return s.handleStreamResponse(ctx, res), nil
}

func toWireMessages(msgs []models.Message) []message {
	ret := make([]message, 0, len(msgs))
	for _, m := range msgs {
		wm := message{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, c := range m.ToolCalls {
			c.Patch()
			wm.ToolCalls = append(wm.ToolCalls, ToolsCall{
				ID:   c.ID,
				Type: c.Type,
				Function: Func{
					Name:      c.Function.Name,
					Arguments: c.Function.Arguments,
				},
			})
		}
		ret = append(ret, wm)
	}
	return ret
}

func (s *StreamCompleter) createRequest(ctx context.Context, msgs []models.Message) (*http.Request, error) {
	reqData := req{
		Model:       s.Model,
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
		TopP:        s.TopP,
		Messages:    toWireMessages(msgs),
		Stream:      true,
	}
	if len(s.tools) > 0 {
		reqData.Tools = s.tools
		reqData.ToolChoice = s.ToolChoice
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("generic streamcompleter request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", s.apiKey))
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Connection", "keep-alive")
	return req, nil
}

func (s *StreamCompleter) handleStreamResponse(ctx context.Context, res *http.Response) chan models.CompletionEvent {
	outChan := make(chan models.CompletionEvent)
	go func() {
		br := bufio.NewReader(res.Body)
		defer func() {
			res.Body.Close()
			close(outChan)
		}()
		send := func(ev models.CompletionEvent) bool {
			select {
			case outChan <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for {
			token, err := br.ReadBytes('\n')
			if len(bytes.TrimSpace(token)) > 0 {
				ev := s.handleStreamChunk(token)
				if !send(ev) {
					return
				}
				if _, isStop := ev.(models.StopEvent); isStop {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					send(fmt.Errorf("failed to read line: %w", err))
				}
				return
			}
		}
	}()

	return outChan
}

func (s *StreamCompleter) handleStreamChunk(token []byte) models.CompletionEvent {
	token = bytes.TrimSpace(token)
	if !bytes.HasPrefix(token, dataPrefix) {
		// Comments, event names and keep-alives
		return models.NoopEvent{}
	}
	token = bytes.TrimSpace(bytes.TrimPrefix(token, dataPrefix))
	if string(token) == "[DONE]" {
		return models.StopEvent{}
	}

	if s.debug {
		ancli.PrintOK(fmt.Sprintf("token: %+v\n", string(token)))
	}
	var chunk chatCompletionChunk
	err := json.Unmarshal(token, &chunk)
	if err != nil {
		return fmt.Errorf("failed to unmarshal chunk: %w, chunk: %v", err, string(token))
	}
	if len(chunk.Choices) == 0 {
		return models.NoopEvent{}
	}

	var chosen models.CompletionEvent
	for _, choice := range chunk.Choices {
		compEvent := s.handleChoice(choice)
		switch compEvent.(type) {
		case error, string, models.NoopEvent:
			_, isNoopEvent := chosen.(models.NoopEvent)
			if chosen == nil || isNoopEvent {
				chosen = compEvent
			}
		case models.Call:
			// Always prefer tools call, if possible
			chosen = compEvent
		}
	}

	if s.debug {
		ancli.PrintOK(fmt.Sprintf("chosen: %T -  %+v\n", chosen, chosen))
	}
	return chosen
}

func (s *StreamCompleter) handleChoice(choice Choice) models.CompletionEvent {
	if len(choice.Delta.ToolCalls) == 0 && choice.FinishReason != "tool_calls" {
		content, _ := choice.Delta.Content.(string)
		if content == "" {
			return models.NoopEvent{}
		}
		return content
	}

	// Only the first tool call of a choice is handled; parallel tool calls are disabled
	if len(choice.Delta.ToolCalls) > 0 {
		first := choice.Delta.ToolCalls[0]
		// Function name is only shown in first chunk of a functions call
		if first.Function.Name != "" {
			s.toolsCallName = first.Function.Name
		}
		if first.ID != "" {
			s.toolsCallID = first.ID
		}
		s.toolsCallArgsString += first.Function.Arguments
		if s.debug {
			ancli.PrintOK(fmt.Sprintf("toolsCallArgsString: %v\n", s.toolsCallArgsString))
		}
		if s.toolsCallName != "" && json.Valid([]byte(s.toolsCallArgsString)) {
			return s.doToolsCall()
		}
	}
	// Tools without arguments may finish without ever streaming a json object
	if choice.FinishReason == "tool_calls" && s.toolsCallName != "" {
		if s.toolsCallArgsString == "" {
			s.toolsCallArgsString = "{}"
		}
		return s.doToolsCall()
	}
	return models.NoopEvent{}
}

// doToolsCall by parsing the arguments
func (s *StreamCompleter) doToolsCall() models.CompletionEvent {
	defer func() {
		// Reset tools call construction strings to prepare for consecutive calls
		s.toolsCallName = ""
		s.toolsCallArgsString = ""
		s.toolsCallID = ""
	}()
	var input models.Input
	err := json.Unmarshal([]byte(s.toolsCallArgsString), &input)
	if err != nil {
		return fmt.Errorf("failed to unmarshal argument string: %w, argsString: %v", err, s.toolsCallArgsString)
	}

	return models.Call{
		ID:     s.toolsCallID,
		Name:   s.toolsCallName,
		Inputs: &input,
		Type:   "function",
		Function: models.Specification{
			Name:      s.toolsCallName,
			Arguments: s.toolsCallArgsString,
		},
	}
}
