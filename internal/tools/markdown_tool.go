package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/toolagent/toolagent/internal/markdown"
	"github.com/toolagent/toolagent/internal/models"
)

const markdownTimeout = 5 * time.Minute

var markdownSpec = models.Specification{
	Name:        "markdown_formatting_tool",
	Description: "Format a Markdown file by fixing its structure and removing stray characters, then save it. The original meaning of the text is never changed.",
	Inputs: &models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterObject{
			"input_path": {
				Type:        "string",
				Description: "Path of the Markdown file to format.",
			},
			"output_path": {
				Type:        "string",
				Description: "Optional path to save the formatted file to. The input file is overwritten if omitted.",
			},
		},
		Required: []string{"input_path"},
	},
}

type transformer interface {
	Apply(ctx context.Context, in, out string) error
}

type MarkdownFormattingTool struct {
	formatter transformer
}

func NewMarkdownFormattingTool(f *markdown.Formatter) MarkdownFormattingTool {
	return MarkdownFormattingTool{formatter: f}
}

func (m MarkdownFormattingTool) Call(input models.Input) (string, error) {
	in, err := stringInput(input, "input_path")
	if err != nil {
		return "", err
	}
	out, err := optionalString(input, "output_path")
	if err != nil {
		return "", err
	}
	if out == "" {
		out = in
	}
	ctx, cancel := context.WithTimeout(context.Background(), markdownTimeout)
	defer cancel()
	if err := m.formatter.Apply(ctx, in, out); err != nil {
		return "", err
	}
	return fmt.Sprintf("formatted '%v' and saved it to '%v'", in, out), nil
}

func (m MarkdownFormattingTool) Specification() models.Specification {
	return markdownSpec
}
