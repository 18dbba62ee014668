package homepage

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lysyi3m/thinkers-table/app/database"
	"github.com/lysyi3m/thinkers-table/app/feed"
	"github.com/lysyi3m/thinkers-table/app/render"
	"github.com/lysyi3m/thinkers-table/app/signup"
)

//go:embed templates/index.html
var indexHTML []byte

const signupIframeSelector = "#beehiiv-iframe"

// EpisodeLoader is satisfied by *feed.Fetcher.
type EpisodeLoader interface {
	Run(ctx context.Context) feed.Result
}

type Homepage struct {
	loader      EpisodeLoader
	renderer    *render.Renderer
	signupState *signup.State
	signupURL   string
	loadRepo    database.LoadRepository
}

// NewHomepage wires the page pipeline. An untyped nil loadRepo disables
// recording; a typed nil pointer counts as configured.
func NewHomepage(loader EpisodeLoader, renderer *render.Renderer, signupState *signup.State,
	signupURL string, loadRepo database.LoadRepository) *Homepage {
	return &Homepage{
		loader:      loader,
		renderer:    renderer,
		signupState: signupState,
		signupURL:   signupURL,
		loadRepo:    loadRepo,
	}
}

// Render builds the homepage for one request and writes it to w. Feed
// failures never surface here; they show up as a fallback Result.
func (h *Homepage) Render(ctx context.Context, w io.Writer) (feed.Result, error) {
	start := time.Now()

	page, err := render.NewDocument(bytes.NewReader(indexHTML))
	if err != nil {
		return feed.Result{}, fmt.Errorf("failed to load homepage template: %w", err)
	}

	h.applySignup(page)

	result := h.Load(ctx)

	if len(result.Episodes) > 0 {
		h.renderer.UpdateLatestEpisode(page, result.Episodes[0])
	}
	h.renderer.UpdateFeaturedEpisodes(page, result.Episodes)

	h.recordLoad(ctx, result, time.Since(start))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return result, fmt.Errorf("failed to render homepage: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return result, fmt.Errorf("failed to write homepage: %w", err)
	}

	return result, nil
}

// Load fetches the episode list once and logs how many were loaded.
func (h *Homepage) Load(ctx context.Context) feed.Result {
	result := h.loader.Run(ctx)
	slog.Info("Episodes loaded", "count", len(result.Episodes), "source", string(result.Source))
	return result
}

func (h *Homepage) applySignup(page *render.Document) {
	status := h.signupState.Status()
	if h.signupURL == "" {
		status = signup.StatusUnavailable
	} else {
		page.SetAttr(signupIframeSelector, "src", h.signupURL)
	}

	render.ApplySignup(page, status)
}

func (h *Homepage) recordLoad(ctx context.Context, result feed.Result, elapsed time.Duration) {
	if h.loadRepo == nil {
		return
	}

	load := database.PageLoad{
		Source:       string(result.Source),
		EpisodeCount: len(result.Episodes),
		DurationMs:   elapsed.Milliseconds(),
	}
	if len(result.Episodes) > 0 {
		load.LatestTitle = result.Episodes[0].Title
	}
	if result.Err != nil {
		load.Error = result.Err.Error()
	}

	if _, err := h.loadRepo.RecordLoad(context.WithoutCancel(ctx), load); err != nil {
		slog.Warn("Failed to record page load", "error", err)
	}
}
