package tools

import (
	"github.com/toolagent/toolagent/internal/config"
	"github.com/toolagent/toolagent/internal/markdown"
	"github.com/toolagent/toolagent/internal/models"
)

// Init returns a registry holding every tool, wired to conf. The markdown
// tool formats with completer.
func Init(conf config.Config, completer models.StreamCompleter) *Registry {
	r := NewRegistry()
	mdTool := NewMarkdownFormattingTool(&markdown.Formatter{
		Completer:    completer,
		SystemPrompt: conf.Prompts.Format,
	})
	r.Set(mdTool.Specification().Name, mdTool)
	sender := NewEmailSenderTool(conf.EmailAccount)
	r.Set(sender.Specification().Name, sender)
	reader := NewEmailReaderTool(conf.EmailAccount)
	r.Set(reader.Specification().Name, reader)
	searchTool := NewBaiduSearchTool(conf.SearchAPIKey)
	r.Set(searchTool.Specification().Name, searchTool)
	r.Set(WebsiteText.Specification().Name, WebsiteText)
	return r
}
