// Package websearch queries Google Programmable Search. It backs the
// retrieval fallback used when the vector store returns nothing relevant.
package websearch

import (
	"context"
	"errors"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

const (
	// DefaultNumResults is how many search hits a query requests
	DefaultNumResults = 5
)

var (
	// ErrEmptyQuery is returned when the search query is empty
	ErrEmptyQuery = errors.New("search query cannot be empty")
	// ErrNotConfigured is returned when the search credentials are missing
	ErrNotConfigured = errors.New("web search API key or engine ID not set")
)

// Result is a single web search hit
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// SearchAPI defines the interface for running a web search
type SearchAPI interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
}

// Client wraps the Google Custom Search API
type Client struct {
	api SearchAPI
	num int
}

type customSearchAdapter struct {
	service  *customsearch.Service
	engineID string
}

func (a *customSearchAdapter) Search(ctx context.Context, query string, num int) ([]Result, error) {
	resp, err := a.service.Cse.List().
		Q(query).
		Cx(a.engineID).
		Num(int64(num)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

type Config struct {
	APIKey   string
	EngineID string
	// NumResults caps how many hits each query returns. Defaults to DefaultNumResults.
	NumResults int
}

// NewClient creates a Google Programmable Search client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return nil, ErrNotConfigured
	}
	if cfg.NumResults <= 0 {
		cfg.NumResults = DefaultNumResults
	}

	service, err := customsearch.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &Client{
		api: &customSearchAdapter{service: service, engineID: cfg.EngineID},
		num: cfg.NumResults,
	}, nil
}

// Search runs the query and returns up to the configured number of hits.
// An empty result list is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	results, err := c.api.Search(ctx, query, c.num)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}
	return results, nil
}
