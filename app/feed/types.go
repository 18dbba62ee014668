package feed

import (
	"context"
	"errors"

	"github.com/lysyi3m/thinkers-table/app/episode"
)

var ErrNoItems = errors.New("feed returned no items")

// Source produces raw feed items with exactly one upstream request.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]episode.RawItem, error)
}

type ResultSource string

const (
	SourceLive     ResultSource = "live"
	SourceFallback ResultSource = "fallback"
)

// Result tells which branch produced the episodes. Err is set only for
// fallback results.
type Result struct {
	Source   ResultSource
	Episodes []episode.Episode
	Err      error
}

func (r Result) IsFallback() bool {
	return r.Source == SourceFallback
}

// proxyResponse is the envelope of the RSS-to-JSON conversion service.
type proxyResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Feed    proxyFeed         `json:"feed"`
	Items   []episode.RawItem `json:"items"`
}

type proxyFeed struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Link  string `json:"link"`
}
