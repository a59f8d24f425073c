package swapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public SWAPI endpoint.
const DefaultBaseURL = "https://swapi.info/api"

// Categories lists the SWAPI collections the pipeline works with, in
// fetch order.
var Categories = []string{"films", "people", "planets", "species", "vehicles", "starships"}

// Entity is one raw SWAPI record.
type Entity map[string]interface{}

// Dataset maps a category name to its records.
type Dataset map[string][]Entity

// Client fetches SWAPI collections.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at an alternative API host.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithClientLogger attaches a logger to the client.
func WithClientLogger(logger *zap.SugaredLogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a SWAPI client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCategory downloads every record in one category.
func (c *Client) FetchCategory(ctx context.Context, category string) ([]Entity, error) {
	url := fmt.Sprintf("%s/%s/", c.baseURL, category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", category, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", category, err)
	}

	var entities []Entity
	if err := json.Unmarshal(body, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", category, err)
	}

	return entities, nil
}

// FetchAll downloads every category and writes one JSON file per
// category into dir, creating it if needed.
func (c *Client) FetchAll(ctx context.Context, dir string) (Dataset, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	dataset := make(Dataset, len(Categories))
	for _, category := range Categories {
		if c.logger != nil {
			c.logger.Infow("fetching", "category", category)
		}

		entities, err := c.FetchCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		dataset[category] = entities

		if err := saveCategory(dir, category, entities); err != nil {
			return nil, err
		}
		if c.logger != nil {
			c.logger.Infow("saved", "category", category, "records", len(entities))
		}
	}

	return dataset, nil
}

func saveCategory(dir, category string, entities []Entity) error {
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", category, err)
	}
	path := filepath.Join(dir, category+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// LoadDataset reads previously fetched category files from dir.
// Missing files yield empty categories rather than an error.
func LoadDataset(dir string) (Dataset, error) {
	dataset := make(Dataset, len(Categories))
	for _, category := range Categories {
		path := filepath.Join(dir, category+".json")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			dataset[category] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var entities []Entity
		if err := json.Unmarshal(data, &entities); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		dataset[category] = entities
	}
	return dataset, nil
}

// SaveDataset writes every category in the dataset back to dir.
func SaveDataset(dir string, dataset Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, category := range Categories {
		if len(dataset[category]) == 0 {
			continue
		}
		if err := saveCategory(dir, category, dataset[category]); err != nil {
			return err
		}
	}
	return nil
}
