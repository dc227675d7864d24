package openai

import (
	"fmt"

	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/text/generic"
)

func (g *ChatGPT) Setup() error {
	g.StreamCompleter.URL = g.URL
	err := g.StreamCompleter.Setup(g.APIKey, "OPENAI_API_KEY", ChatURL, "DEBUG_OPENAI")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	g.StreamCompleter.Model = g.Model
	g.StreamCompleter.MaxTokens = g.MaxTokens
	g.StreamCompleter.Temperature = &g.Temperature
	g.StreamCompleter.TopP = &g.TopP
	toolChoice := "auto"
	g.StreamCompleter.ToolChoice = &toolChoice
	g.StreamCompleter.SetRateLimiter(generic.NewRateLimiter(remainingTokensHeader, resetTokensHeader))
	return nil
}

func (g *ChatGPT) RegisterTool(tool models.LLMTool) {
	g.StreamCompleter.InternalRegisterTool(tool)
}
