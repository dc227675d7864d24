package deepseek

import (
	"github.com/toolagent/toolagent/internal/text/generic"
)

const ChatURL = "https://api.deepseek.com/chat/completions"

var Default = Deepseek{
	Model:       "deepseek-chat",
	Temperature: 1.0,
	TopP:        1.0,
	URL:         ChatURL,
}

type Deepseek struct {
	generic.StreamCompleter `yaml:"-"`
	APIKey                  string  `yaml:"-"`
	Model                   string  `yaml:"model"`
	MaxTokens               *int    `yaml:"max_tokens"`
	Temperature             float64 `yaml:"temperature"`
	TopP                    float64 `yaml:"top_p"`
	URL                     string  `yaml:"url"`
}
