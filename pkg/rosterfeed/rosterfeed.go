// Package rosterfeed fetches participant rosters published at a URL.
//
// A feed is either plain text (names separated by newlines or commas, as in a
// pasted list or a one-column CSV) or JSON: an array of names, or an object
// with a "participants" or "names" array.
package rosterfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/roster"
)

// MaxFeedSize caps how much of a response body is read
const MaxFeedSize = 1 << 20

// Client defines the interface for roster feed operations
type Client interface {
	// FetchRoster downloads and parses the roster at feedURL
	FetchRoster(ctx context.Context, feedURL string) ([]string, error)
}

// HTTPClient fetches feeds over HTTP
type HTTPClient struct {
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a feed client with a 30s timeout
func NewHTTPClient(log logger.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// NewHTTPClientWithHTTPClient creates a feed client with a custom http.Client
func NewHTTPClientWithHTTPClient(httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: httpClient,
		log:        log,
	}
}

// ValidateURL checks that feedURL is an absolute http(s) URL
func ValidateURL(feedURL string) error {
	u, err := url.Parse(strings.TrimSpace(feedURL))
	if err != nil {
		return fmt.Errorf("invalid roster URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid roster URL %q: must be http or https", feedURL)
	}
	return nil
}

// FetchRoster downloads feedURL and returns the cleaned names in feed order.
// Duplicates are kept; callers merge into an existing roster.
func (c *HTTPClient) FetchRoster(ctx context.Context, feedURL string) ([]string, error) {
	if err := ValidateURL(feedURL); err != nil {
		return nil, err
	}
	feedURL = strings.TrimSpace(feedURL)

	c.log.Debug("Roster feed request", "url", feedURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, text/csv;q=0.9, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to roster feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxFeedSize {
		return nil, fmt.Errorf("roster feed exceeds %d bytes", MaxFeedSize)
	}

	c.log.Debug("Roster feed response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster feed returned status %d", resp.StatusCode)
	}

	if isJSON(resp.Header.Get("Content-Type"), body) {
		return parseJSON(body)
	}
	return roster.Parse(string(body)), nil
}

func isJSON(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			return true
		}
	}
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
}

// parseJSON accepts ["a","b"], {"participants":[...]} or {"names":[...]}
func parseJSON(body []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(body, &names); err == nil {
		return roster.Clean(names), nil
	}

	var doc struct {
		Participants []string `json:"participants"`
		Names        []string `json:"names"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse roster feed: %w", err)
	}
	if doc.Participants == nil {
		doc.Participants = doc.Names
	}
	return roster.Clean(doc.Participants), nil
}
