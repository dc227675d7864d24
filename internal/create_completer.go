package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/toolagent/toolagent/internal/config"
	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/utils"
	"github.com/toolagent/toolagent/internal/vendors/deepseek"
	"github.com/toolagent/toolagent/internal/vendors/echo"
	"github.com/toolagent/toolagent/internal/vendors/openai"
	"github.com/toolagent/toolagent/internal/vendors/zhipu"
)

// vendorConfigFile is the name of the per-model settings file of a vendor.
func vendorConfigFile(vendor, model string) string {
	model = strings.NewReplacer("/", "_", ":", "_").Replace(model)
	return fmt.Sprintf("%v_%v.yaml", vendor, model)
}

// CreateCompleter by checking the model for which vendor to use. The vendor settings are
// loaded from the config dir, the api key from conf. The returned completer has been setup.
func CreateCompleter(model string, conf config.Config) (models.ToolBox, error) {
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("creating completer for model: '%v'\n", model))
	}
	var tb models.ToolBox
	switch {
	case model == "test":
		tb = &echo.Completer{}
	case strings.HasPrefix(model, "glm"):
		z, err := utils.LoadConfigFromFile(conf.ConfigDir, vendorConfigFile("zhipu", model), &zhipu.Default)
		if err != nil {
			return nil, fmt.Errorf("failed to load zhipu config: %w", err)
		}
		z.Model = model
		z.APIKey = conf.ZhipuAPIKey
		tb = &z
	case strings.HasPrefix(model, "deepseek"):
		d, err := utils.LoadConfigFromFile(conf.ConfigDir, vendorConfigFile("deepseek", model), &deepseek.Default)
		if err != nil {
			return nil, fmt.Errorf("failed to load deepseek config: %w", err)
		}
		d.Model = model
		d.APIKey = conf.DeepseekAPIKey
		tb = &d
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o"):
		g, err := utils.LoadConfigFromFile(conf.ConfigDir, vendorConfigFile("openai", model), &openai.Default)
		if err != nil {
			return nil, fmt.Errorf("failed to load openai config: %w", err)
		}
		g.Model = model
		g.APIKey = conf.OpenAIAPIKey
		tb = &g
	default:
		return nil, fmt.Errorf("failed to find vendor for model: '%v'", model)
	}

	if err := tb.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup model '%v': %w", model, err)
	}
	return tb, nil
}
