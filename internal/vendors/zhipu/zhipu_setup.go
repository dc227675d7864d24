package zhipu

import (
	"fmt"

	"github.com/toolagent/toolagent/internal/models"
)

func (z *Zhipu) Setup() error {
	z.StreamCompleter.URL = z.URL
	err := z.StreamCompleter.Setup(z.APIKey, "ZHIPUAI_API_KEY", ChatURL, "DEBUG_ZHIPU")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	z.StreamCompleter.Model = z.Model
	z.StreamCompleter.MaxTokens = z.MaxTokens
	z.StreamCompleter.Temperature = &z.Temperature
	z.StreamCompleter.TopP = &z.TopP
	toolChoice := "auto"
	z.StreamCompleter.ToolChoice = &toolChoice
	return nil
}

func (z *Zhipu) RegisterTool(tool models.LLMTool) {
	z.StreamCompleter.InternalRegisterTool(tool)
}
