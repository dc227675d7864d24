package generic

import (
	"net/http"

	"github.com/toolagent/toolagent/internal/models"
)

// StreamCompleter is a struct which follows the OpenAI chat completions wire format,
// which Zhipu, Deepseek and OpenAI all speak
type StreamCompleter struct {
	Model       string
	MaxTokens   *int
	Temperature *float64
	TopP        *float64
	ToolChoice  *string
	// Clean may rewrite the messages before they are sent. It receives a copy.
	Clean func([]models.Message) []models.Message
	URL   string

	tools         []ToolSuper
	toolsCallName string
	// Argument string exists since the arguments for function calls is streamed token by token
	toolsCallArgsString string
	toolsCallID         string
	client              *http.Client
	limiter             RateLimiter
	apiKey              string
	debug               bool
}

type ToolSuper struct {
	Type     string `json:"type"`
	Function Tool   `json:"function"`
}

type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Inputs      models.InputSchema `json:"parameters"`
}

type chatCompletionChunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int      `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

type Delta struct {
	Content   any         `json:"content"`
	Role      string      `json:"role"`
	ToolCalls []ToolsCall `json:"tool_calls"`
}

type ToolsCall struct {
	Function Func   `json:"function"`
	ID       string `json:"id"`
	Index    int    `json:"index"`
	Type     string `json:"type"`
}

type Func struct {
	Arguments string `json:"arguments"`
	Name      string `json:"name"`
}

// message is the wire format of models.Message
type message struct {
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	ToolCalls  []ToolsCall `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
}

type req struct {
	Model       string      `json:"model,omitempty"`
	Messages    []message   `json:"messages,omitempty"`
	Stream      bool        `json:"stream,omitempty"`
	MaxTokens   *int        `json:"max_tokens,omitempty"`
	Temperature *float64    `json:"temperature,omitempty"`
	TopP        *float64    `json:"top_p,omitempty"`
	ToolChoice  *string     `json:"tool_choice,omitempty"`
	Tools       []ToolSuper `json:"tools,omitempty"`
}
