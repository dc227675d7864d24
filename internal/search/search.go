// Package search queries the Baidu Qianfan AI search api.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const (
	URL          = "https://qianfan.baidubce.com/v2/ai_search/chat/completions"
	SearchSource = "baidu_search_v2"
	Model        = "deepseek-r1"
)

var ErrNoAPIKey = errors.New("search api key not set, expected it in environment variable 'SEARCH_API_KEY'")

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Messages     []message `json:"messages"`
	SearchSource string    `json:"search_source"`
	Model        string    `json:"model"`
}

// Client for the search api. The zero value is not usable, see New.
type Client struct {
	URL    string
	apiKey string
	client *http.Client
	debug  bool
}

func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Client{
		URL:    URL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 2 * time.Minute},
		debug:  misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_SEARCH")),
	}, nil
}

// Search for query and return the response body as compact json.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(request{
		Messages:     []message{{Role: "user", Content: query}},
		SearchSource: SearchSource,
		Model:        Model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search request failed, status: %v, body: %v", res.StatusCode, string(resBody))
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("search response: %v\n", string(resBody)))
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, resBody); err != nil {
		return "", fmt.Errorf("search response is not json: %w", err)
	}
	return compact.String(), nil
}
