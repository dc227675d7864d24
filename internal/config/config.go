// Package config loads every setting toolagent needs once, at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/joho/godotenv"
	"github.com/toolagent/toolagent/internal/mail"
	"github.com/toolagent/toolagent/internal/markdown"
	"github.com/toolagent/toolagent/internal/utils"
)

const (
	DefaultEnvFile  = ".env"
	PromptsFileName = "prompts.yaml"
)

// Prompts are the system prompts of each command, overridable in prompts.yaml.
type Prompts struct {
	Format string `yaml:"format"`
	Mail   string `yaml:"mail"`
	Search string `yaml:"search"`
	Ask    string `yaml:"ask"`
}

var DefaultPrompts = Prompts{
	Format: markdown.DefaultSystemPrompt,
	Mail:   "You are a professional email assistant who can send and read emails for the user. Act on the user's request with the tools available.",
	Search: "You are a research assistant. Use the search tool to find up to date information, and the website tool to read pages in detail. Answer concisely and name your sources.",
	Ask:    "You are a helpful assistant with tools for formatting markdown files, sending and reading email and searching the web. Use them when the request calls for it.",
}

// Config is built once and passed by value. It is not modified after Load.
type Config struct {
	ZhipuAPIKey    string
	DeepseekAPIKey string
	OpenAIAPIKey   string
	SearchAPIKey   string
	// EmailService is the upper-cased key of the selected account in EmailAccounts.
	EmailService  string
	EmailAccounts map[string]mail.Account
	Prompts       Prompts
	ConfigDir     string
}

// Load the .env file at envFile into the environment, without overriding variables which
// are already set, then read the config from the environment and configDir.
// A missing envFile is only an error if explicit is set.
func Load(envFile string, explicit bool, configDir string) (Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	envFile, err := utils.ExpandUserPath(envFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand env file path: %w", err)
	}
	err = godotenv.Load(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return Config{}, fmt.Errorf("failed to load env file '%v': %w", envFile, err)
		}
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.PrintWarn(fmt.Sprintf("no env file found at: '%v'\n", envFile))
		}
	}

	accounts, err := mail.ParseAccounts(os.Getenv("EMAIL_CONFIGS"))
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse EMAIL_CONFIGS: %w", err)
	}
	service := strings.ToUpper(strings.TrimSpace(os.Getenv("EMAIL_USE")))
	if service == "" {
		service = mail.DefaultService
	}

	prompts, err := utils.LoadConfigFromFile(configDir, PromptsFileName, &DefaultPrompts)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load prompts: %w", err)
	}

	return Config{
		ZhipuAPIKey:    os.Getenv("ZHIPUAI_API_KEY"),
		DeepseekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
		EmailService:   service,
		EmailAccounts:  accounts,
		Prompts:        prompts,
		ConfigDir:      configDir,
	}, nil
}

// EmailAccount returns the selected service and its account.
func (c Config) EmailAccount() (string, mail.Account, error) {
	return mail.Select(c.EmailAccounts, c.EmailService)
}
