package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lysyi3m/thinkers-table/app/episode"
)

const DefaultProxyEndpoint = "https://api.rss2json.com/v1/api.json"

// ProxySource loads the podcast feed through the rss2json conversion service.
type ProxySource struct {
	httpClient *http.Client
	endpoint   string
	feedURL    string
	apiKey     string
	userAgent  string
}

func NewProxySource(httpClient *http.Client, endpoint, feedURL, apiKey, userAgent string) *ProxySource {
	if endpoint == "" {
		endpoint = DefaultProxyEndpoint
	}

	return &ProxySource{
		httpClient: httpClient,
		endpoint:   endpoint,
		feedURL:    feedURL,
		apiKey:     apiKey,
		userAgent:  userAgent,
	}
}

func (s *ProxySource) Name() string {
	return "proxy"
}

// RequestURL builds the conversion request with the feed URL as rss_url.
func (s *ProxySource) RequestURL() (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid proxy endpoint: %w", err)
	}

	query := u.Query()
	query.Set("rss_url", s.feedURL)
	if s.apiKey != "" {
		query.Set("api_key", s.apiKey)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

func (s *ProxySource) Fetch(ctx context.Context) ([]episode.RawItem, error) {
	requestURL, err := s.RequestURL()
	if err != nil {
		return nil, err
	}

	data, err := fetchBody(ctx, s.httpClient, requestURL, s.userAgent)
	if err != nil {
		return nil, err
	}

	var resp proxyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode proxy response: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("proxy returned status %q: %s", resp.Status, resp.Message)
	}

	if len(resp.Items) == 0 {
		return nil, ErrNoItems
	}

	return resp.Items, nil
}
