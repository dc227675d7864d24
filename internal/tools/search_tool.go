package tools

import (
	"context"
	"time"

	"github.com/toolagent/toolagent/internal/models"
	"github.com/toolagent/toolagent/internal/search"
)

const searchTimeout = 2 * time.Minute

var baiduSearchSpec = models.Specification{
	Name:        "baidu_search_tool",
	Description: "Search the web with the Baidu search api. Returns the search results as a string.",
	Inputs: &models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterObject{
			"query": {
				Type:        "string",
				Description: "The search keywords.",
			},
		},
		Required: []string{"query"},
	},
}

type searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type BaiduSearchTool struct {
	newSearcher func() (searcher, error)
}

func NewBaiduSearchTool(apiKey string) BaiduSearchTool {
	return BaiduSearchTool{newSearcher: func() (searcher, error) {
		c, err := search.New(apiKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	}}
}

func (t BaiduSearchTool) Call(input models.Input) (string, error) {
	query, err := stringInput(input, "query")
	if err != nil {
		return "", err
	}
	s, err := t.newSearcher()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()
	return s.Search(ctx, query)
}

func (t BaiduSearchTool) Specification() models.Specification {
	return baiduSearchSpec
}
