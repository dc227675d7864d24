package models

import (
	"context"
)

type Querier interface {
	Query(ctx context.Context) error
}

type ChatQuerier interface {
	Querier
	TextQuery(context.Context, Chat) (Chat, error)
}

// CompletionEvent is one of: string (a token), Call, error, NoopEvent or StopEvent
type CompletionEvent any

// NoopEvent is emitted for stream chunks which carry nothing of interest, such as keep-alives
type NoopEvent struct{}

// StopEvent is emitted once the vendor has signaled the end of the stream
type StopEvent struct{}

type StreamCompleter interface {
	// Setup the stream completer, do things like init http.Client/websocket etc.
	// Will be called synchronously. Should return error if setup fails.
	Setup() error

	// StreamCompletions and return a channel which sends CompletionsEvents.
	// The channel is closed when the stream ends or ctx is cancelled.
	StreamCompletions(context.Context, Chat) (chan CompletionEvent, error)
}

// ToolBox is a StreamCompleter which accepts tools.
type ToolBox interface {
	StreamCompleter

	// RegisterTool registers a tool to the ToolBox
	RegisterTool(LLMTool)
}

// LLMTool is a tool the model may call.
type LLMTool interface {
	// Call the tool with the given Input. Returns output from the tool or an error
	// if the call returned an error-like. An error-like is either exit code non-zero or
	// restful response non 2xx.
	Call(Input) (string, error)

	// Specification is sent to the model so that it knows how to call the tool.
	Specification() Specification
}
