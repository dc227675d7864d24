package openai

import (
	"github.com/toolagent/toolagent/internal/text/generic"
)

var Default = ChatGPT{
	Model:       "gpt-4.1-mini",
	Temperature: 1.0,
	TopP:        1.0,
	URL:         ChatURL,
}

type ChatGPT struct {
	generic.StreamCompleter `yaml:"-"`
	APIKey                  string  `yaml:"-"`
	Model                   string  `yaml:"model"`
	MaxTokens               *int    `yaml:"max_tokens"`
	Temperature             float64 `yaml:"temperature"`
	TopP                    float64 `yaml:"top_p"`
	URL                     string  `yaml:"url"`
}
