package zhipu

import (
	"github.com/toolagent/toolagent/internal/text/generic"
)

const ChatURL = "https://open.bigmodel.cn/api/paas/v4/chat/completions"

var Default = Zhipu{
	Model:       "glm-4.5",
	Temperature: 0.5,
	TopP:        1.0,
	URL:         ChatURL,
}

// Zhipu is the GLM family of models, served through an OpenAI compatible endpoint.
type Zhipu struct {
	generic.StreamCompleter `yaml:"-"`
	APIKey                  string  `yaml:"-"`
	Model                   string  `yaml:"model"`
	MaxTokens               *int    `yaml:"max_tokens"`
	Temperature             float64 `yaml:"temperature"`
	TopP                    float64 `yaml:"top_p"`
	URL                     string  `yaml:"url"`
}
