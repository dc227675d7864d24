package generic

import (
	"fmt"
	"net/http"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/toolagent/toolagent/internal/models"
)

// Setup the completer. apiKeyEnv is only used to tell the user where the key is expected to come from.
func (s *StreamCompleter) Setup(apiKey, apiKeyEnv, url, debugEnv string) error {
	if apiKey == "" {
		return fmt.Errorf("api key not set, expected it in environment variable '%v'", apiKeyEnv)
	}
	if s.client == nil {
		s.client = &http.Client{}
	}
	s.apiKey = apiKey
	if s.URL == "" {
		s.URL = url
	}

	if misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv(debugEnv)) {
		s.debug = true
	}

	return nil
}

func (s *StreamCompleter) InternalRegisterTool(tool models.LLMTool) {
	s.tools = append(s.tools, ToolSuper{
		Type:     "function",
		Function: convertToGenericTool(tool.Specification()),
	})
}

func (s *StreamCompleter) SetRateLimiter(rl RateLimiter) {
	s.limiter = rl
}

func convertToGenericTool(spec models.Specification) Tool {
	t := Tool{
		Name:        spec.Name,
		Description: spec.Description,
	}
	if spec.Inputs != nil {
		t.Inputs = *spec.Inputs
	}
	t.Inputs.Patch()
	return t
}
