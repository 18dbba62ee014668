package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/lysyi3m/thinkers-table/app/episode"
	"github.com/mmcdole/gofeed"
)

// DirectSource downloads the RSS feed itself and maps its items onto the
// conversion service's item shape.
type DirectSource struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	feedURL      string
	userAgent    string
}

func NewDirectSource(httpClient *http.Client, feedURL, userAgent string) *DirectSource {
	return &DirectSource{
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		feedURL:      feedURL,
		userAgent:    userAgent,
	}
}

func (s *DirectSource) Name() string {
	return "direct"
}

func (s *DirectSource) Fetch(ctx context.Context) ([]episode.RawItem, error) {
	data, err := fetchBody(ctx, s.httpClient, s.feedURL, s.userAgent)
	if err != nil {
		return nil, err
	}

	return s.parse(data)
}

func (s *DirectSource) parse(data []byte) ([]episode.RawItem, error) {
	parsed, err := s.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]episode.RawItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		items = append(items, toRawItem(item))
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	return items, nil
}

func toRawItem(item *gofeed.Item) episode.RawItem {
	raw := episode.RawItem{
		Title:        item.Title,
		PubDate:      item.Published,
		Link:         item.Link,
		GUID:         item.GUID,
		Description:  item.Description,
		Content:      item.Content,
		MediaContent: episode.Media{URL: mediaContentURL(item)},
	}

	if item.ITunesExt != nil {
		raw.Thumbnail = item.ITunesExt.Image
		raw.Duration = item.ITunesExt.Duration
	}

	// RSS 2.0 allows a single enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		raw.Enclosure = episode.Media{
			URL:  item.Enclosures[0].URL,
			Type: item.Enclosures[0].Type,
		}
	}

	if item.Image != nil {
		raw.Image = episode.Media{URL: item.Image.URL}
	}

	return raw
}

func mediaContentURL(item *gofeed.Item) string {
	for _, ext := range item.Extensions["media"]["content"] {
		if u := ext.Attrs["url"]; u != "" {
			return u
		}
	}
	return ""
}
