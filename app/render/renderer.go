package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lysyi3m/thinkers-table/app/episode"
)

const (
	LatestDescriptionLimit   = 300
	FeaturedTitleLimit       = 60
	FeaturedDescriptionLimit = 120
)

const (
	latestTitleSelector       = "#latest-episode-title"
	latestDescriptionSelector = "#latest-episode-description"
	latestDurationSelector    = "#latest-episode-duration"
	latestDateSelector        = "#latest-episode-date"
	episodePitchSelector      = ".episode-pitch"
	episodeVisualSelector     = ".episode-visual"
	featuredGridSelector      = "#featured-episodes-grid"
)

const (
	openScript     = "if (this.dataset.href) window.open(this.dataset.href, '_blank')"
	hoverInScript  = "this.style.transform='translateY(-%dpx)'; this.style.transition='transform 0.3s ease'"
	hoverOutScript = "this.style.transform='translateY(0)'"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

type card struct {
	Href        string
	Title       string
	Description string
	CoverImage  string
	Duration    string
	Date        string
}

// UpdateLatestEpisode fills the latest-episode slots. Slots missing from the
// page are skipped.
func (r *Renderer) UpdateLatestEpisode(page Page, ep episode.Episode) {
	page.SetText(latestTitleSelector, ep.Title)
	page.SetText(latestDescriptionSelector, episode.Truncate(ep.Description, LatestDescriptionLimit))
	page.SetText(latestDurationSelector, ep.Duration)
	page.SetText(latestDateSelector, ep.Date)

	if page.Exists(episodePitchSelector) {
		page.SetAttr(episodePitchSelector, "data-href", SafeURL(ep.ListenURL()))
		style, _ := page.Attr(episodePitchSelector, "style")
		page.SetAttr(episodePitchSelector, "style", appendStyle(style, "cursor: pointer;"))
		page.SetAttr(episodePitchSelector, "onclick", openScript)
		page.SetAttr(episodePitchSelector, "onmouseenter", fmt.Sprintf(hoverInScript, 2))
		page.SetAttr(episodePitchSelector, "onmouseleave", hoverOutScript)
	}

	r.updateLatestCover(page, ep.CoverImage)
}

func (r *Renderer) updateLatestCover(page Page, coverImage string) {
	if !page.Exists(episodeVisualSelector) {
		return
	}

	var markup string
	var err error
	if coverImage != "" {
		markup, err = r.execute("cover", coverImage)
	} else {
		markup, err = r.execute("collage", false)
	}
	if err != nil {
		slog.Error("Cover rendering failed", "error", err)
		return
	}

	page.SetHTML(episodeVisualSelector, markup)
}

// UpdateFeaturedEpisodes replaces the featured grid with cards for the two
// episodes after the latest one. Shorter lists yield fewer cards.
func (r *Renderer) UpdateFeaturedEpisodes(page Page, episodes []episode.Episode) {
	if !page.Exists(featuredGridSelector) {
		return
	}

	page.SetHTML(featuredGridSelector, "")

	for _, ep := range Featured(episodes) {
		markup, err := r.execute("card", card{
			Href:        SafeURL(ep.ListenURL()),
			Title:       episode.Truncate(ep.Title, FeaturedTitleLimit),
			Description: episode.Truncate(ep.Description, FeaturedDescriptionLimit),
			CoverImage:  ep.CoverImage,
			Duration:    ep.Duration,
			Date:        ep.Date,
		})
		if err != nil {
			slog.Error("Episode card rendering failed", "title", ep.Title, "error", err)
			continue
		}

		page.AppendHTML(featuredGridSelector, markup)
	}
}

// Featured returns the episodes at indices 1 and 2, if present.
func Featured(episodes []episode.Episode) []episode.Episode {
	if len(episodes) < 2 {
		return nil
	}
	return episodes[1:min(len(episodes), 3)]
}

// SafeURL returns raw when it is an absolute http or https URL, otherwise "".
func SafeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}

// appendStyle adds decl to an inline style, keeping existing declarations.
func appendStyle(style, decl string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return decl
	}
	if strings.Contains(style, decl) {
		return style
	}
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	return style + " " + decl
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}
