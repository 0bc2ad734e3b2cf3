package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ikkim/tubemark-backend/pkg/logger"
)

// Client represents a YouTube Data API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new YouTube client with the given configuration
func NewClient(config Config) (*Client, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Search returns the videos matching query, in the order the API ranks them
func (c *Client) Search(ctx context.Context, query string) ([]Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(c.config.MaxResults))
	params.Set("q", query)
	params.Set("key", c.config.APIKey)

	body, err := c.doRequest(ctx, "search", params)
	if err != nil {
		return nil, fmt.Errorf("failed to make search request: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for i := range resp.Items {
		if resp.Items[i].ID.VideoID == "" {
			continue
		}
		videos = append(videos, resp.Items[i].toVideo())
	}

	logger.Debug("YouTube search completed", map[string]interface{}{
		"query":   query,
		"results": len(videos),
	})

	return videos, nil
}

// doRequest performs a GET against the Data API
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	endpointURL := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.config.BaseURL, "/"), endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("%w: unexpected status code %d", ErrUpstream, resp.StatusCode)
		}

		errorMsg := fmt.Sprintf("status %d, reason %q: %s", resp.StatusCode, errResp.reason(), errResp.Error.Message)

		switch {
		case resp.StatusCode == http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case resp.StatusCode == http.StatusForbidden && errResp.reason() == "quotaExceeded":
			return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, errorMsg)
		case resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUpstream, errorMsg)
		}
	}

	return body, nil
}
