package deepseek

import (
	"fmt"

	"github.com/toolagent/toolagent/internal/models"
)

func (g *Deepseek) Setup() error {
	g.StreamCompleter.URL = g.URL
	err := g.StreamCompleter.Setup(g.APIKey, "DEEPSEEK_API_KEY", ChatURL, "DEBUG_DEEPSEEK")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	g.StreamCompleter.Model = g.Model
	g.StreamCompleter.MaxTokens = g.MaxTokens
	g.StreamCompleter.Temperature = &g.Temperature
	g.StreamCompleter.TopP = &g.TopP
	toolChoice := "auto"
	g.ToolChoice = &toolChoice
	// Deepseek rejects assistant messages which carry both content and tool calls
	g.Clean = clean
	return nil
}

func clean(msgs []models.Message) []models.Message {
	for i, m := range msgs {
		if len(m.ToolCalls) > 0 {
			msgs[i].Content = ""
		}
	}
	return msgs
}

func (g *Deepseek) RegisterTool(tool models.LLMTool) {
	g.InternalRegisterTool(tool)
}
