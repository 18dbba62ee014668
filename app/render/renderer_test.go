package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lysyi3m/thinkers-table/app/episode"
)

const fixturePage = `<!DOCTYPE html>
<html>
<body>
  <section class="episode-pitch">
    <h2 id="latest-episode-title">Loading...</h2>
    <p id="latest-episode-description"></p>
    <span id="latest-episode-duration"></span>
    <span id="latest-episode-date"></span>
    <div class="episode-visual"><div class="episode-collage"></div></div>
  </section>
  <div id="featured-episodes-grid"><div class="video-item">placeholder</div></div>
</body>
</html>`

func newFixture(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := NewDocument(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return doc
}

func sampleEpisodes(n int) []episode.Episode {
	episodes := make([]episode.Episode, 0, n)
	for i := 0; i < n; i++ {
		episodes = append(episodes, episode.Episode{
			Title:       "Episode " + string(rune('A'+i)),
			Description: "Description " + string(rune('A'+i)),
			Date:        "Mar 12, 2024",
			Duration:    "39 min",
			SpotifyURL:  "https://open.spotify.com/episode/" + string(rune('a'+i)),
		})
	}
	return episodes
}

func TestUpdateLatestEpisode(t *testing.T) {
	doc := newFixture(t, fixturePage)
	ep := episode.Episode{
		Title:       "SEASON FINALE - season 1",
		Description: strings.Repeat("x", 310),
		Date:        "Aug 4, 2024",
		Duration:    "12 min",
		AudioURL:    "https://example.com/audio.mp3",
	}

	NewRenderer().UpdateLatestEpisode(doc, ep)

	if got := doc.Find("#latest-episode-title").Text(); got != ep.Title {
		t.Errorf("Expected title %q, got %q", ep.Title, got)
	}
	description := doc.Find("#latest-episode-description").Text()
	if len(description) != 303 || !strings.HasSuffix(description, "...") {
		t.Errorf("Expected 303 character truncated description, got %d characters", len(description))
	}
	if got := doc.Find("#latest-episode-duration").Text(); got != "12 min" {
		t.Errorf("Expected duration '12 min', got %q", got)
	}
	if got := doc.Find("#latest-episode-date").Text(); got != "Aug 4, 2024" {
		t.Errorf("Expected date 'Aug 4, 2024', got %q", got)
	}

	pitch := doc.Find(".episode-pitch")
	if href, _ := pitch.Attr("data-href"); href != "https://example.com/audio.mp3" {
		t.Errorf("Expected audio URL as click target when Spotify URL is empty, got %q", href)
	}
	if onclick, _ := pitch.Attr("onclick"); !strings.Contains(onclick, "'_blank'") {
		t.Errorf("Expected click handler opening a new browsing context, got %q", onclick)
	}
	if hover, _ := pitch.Attr("onmouseenter"); !strings.Contains(hover, "translateY(-2px)") {
		t.Errorf("Expected hover lift, got %q", hover)
	}
	if _, ok := pitch.Attr("onmouseleave"); !ok {
		t.Error("Expected hover-out handler")
	}

	if n := doc.Find(".episode-visual .collage-item").Length(); n != 3 {
		t.Errorf("Expected 3-item placeholder collage, got %d items", n)
	}
	if doc.Find(".episode-visual img").Length() != 0 {
		t.Error("Expected no cover image without a cover URL")
	}
}

func TestUpdateLatestEpisodeWithCover(t *testing.T) {
	doc := newFixture(t, fixturePage)
	ep := sampleEpisodes(1)[0]
	ep.CoverImage = "https://example.com/cover.jpg"

	NewRenderer().UpdateLatestEpisode(doc, ep)

	img := doc.Find(".episode-visual .episode-cover img.cover-image")
	if img.Length() != 1 {
		t.Fatalf("Expected one cover image, got %d", img.Length())
	}
	if src, _ := img.Attr("src"); src != ep.CoverImage {
		t.Errorf("Expected cover src %q, got %q", ep.CoverImage, src)
	}
	if onerror, _ := img.Attr("onerror"); !strings.Contains(onerror, "display='grid'") {
		t.Errorf("Expected error fallback to the collage, got %q", onerror)
	}

	fallback := doc.Find(".episode-visual .episode-collage.fallback")
	if fallback.Length() != 1 || fallback.Find(".collage-item").Length() != 3 {
		t.Error("Expected hidden fallback collage next to the cover image")
	}
}

func TestUpdateLatestEpisodeShortDescriptionUnchanged(t *testing.T) {
	doc := newFixture(t, fixturePage)
	ep := sampleEpisodes(1)[0]

	NewRenderer().UpdateLatestEpisode(doc, ep)

	if got := doc.Find("#latest-episode-description").Text(); got != ep.Description {
		t.Errorf("Expected description %q, got %q", ep.Description, got)
	}
}

func TestUpdateLatestEpisodeEscapesMarkup(t *testing.T) {
	doc := newFixture(t, fixturePage)
	ep := sampleEpisodes(1)[0]
	ep.Title = `<script>alert("x")</script>`

	NewRenderer().UpdateLatestEpisode(doc, ep)

	if doc.Find("#latest-episode-title script").Length() != 0 {
		t.Error("Expected title to be written as text, not markup")
	}
	if got := doc.Find("#latest-episode-title").Text(); got != ep.Title {
		t.Errorf("Expected literal title text, got %q", got)
	}
}

func TestUpdateFeaturedEpisodes(t *testing.T) {
	doc := newFixture(t, fixturePage)
	episodes := sampleEpisodes(4)
	episodes[1].Title = strings.Repeat("T", 70)
	episodes[1].Description = strings.Repeat("D", 130)
	episodes[2].CoverImage = "https://example.com/c.jpg"

	NewRenderer().UpdateFeaturedEpisodes(doc, episodes)

	cards := doc.Find("#featured-episodes-grid .video-item")
	if cards.Length() != 2 {
		t.Fatalf("Expected 2 featured cards, got %d", cards.Length())
	}
	if strings.Contains(doc.Find("#featured-episodes-grid").Text(), "placeholder") {
		t.Error("Expected existing grid content to be cleared")
	}

	first := cards.Eq(0)
	if got := first.Find("h4").Text(); got != strings.Repeat("T", 60)+"..." {
		t.Errorf("Expected title truncated to 60 characters, got %q", got)
	}
	if got := first.Find("p").Text(); got != strings.Repeat("D", 120)+"..." {
		t.Errorf("Expected description truncated to 120 characters, got %q", got)
	}
	if first.Find("img").Length() != 0 {
		t.Error("Expected no cover image on the first card")
	}
	if first.Find(".video-placeholder .fa-play-circle").Length() != 1 {
		t.Error("Expected play icon placeholder")
	}
	if href, _ := first.Attr("data-href"); href != episodes[1].SpotifyURL {
		t.Errorf("Expected click target %q, got %q", episodes[1].SpotifyURL, href)
	}
	if hover, _ := first.Attr("onmouseenter"); !strings.Contains(hover, "translateY(-4px)") {
		t.Errorf("Expected card hover lift, got %q", hover)
	}
	if got := first.Find(".episode-duration").Text(); got != "39 min" {
		t.Errorf("Expected duration caption, got %q", got)
	}

	second := cards.Eq(1)
	if src, _ := second.Find("img.episode-cover-img").Attr("src"); src != "https://example.com/c.jpg" {
		t.Errorf("Expected cover image on the second card, got %q", src)
	}
	if got := second.Find("h4").Text(); got != episodes[2].Title {
		t.Errorf("Expected second card to show episode 2, got %q", got)
	}
}

func TestUpdateFeaturedEpisodesFewerEpisodes(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
	}

	for _, tt := range tests {
		doc := newFixture(t, fixturePage)
		NewRenderer().UpdateFeaturedEpisodes(doc, sampleEpisodes(tt.count))

		if got := doc.Find("#featured-episodes-grid .video-item").Length(); got != tt.expected {
			t.Errorf("With %d episodes expected %d cards, got %d", tt.count, tt.expected, got)
		}
	}
}

func TestRendererMissingRegionsAreNoOps(t *testing.T) {
	doc := newFixture(t, `<html><body><p id="other">untouched</p></body></html>`)
	renderer := NewRenderer()

	renderer.UpdateLatestEpisode(doc, sampleEpisodes(1)[0])
	renderer.UpdateFeaturedEpisodes(doc, sampleEpisodes(3))

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(buf.String(), "Episode") {
		t.Errorf("Expected no episode markup on a page without slots, got %s", buf.String())
	}
	if doc.Find("#other").Text() != "untouched" {
		t.Error("Expected unrelated content to be untouched")
	}
}

func TestFeatured(t *testing.T) {
	episodes := sampleEpisodes(5)
	featured := Featured(episodes)

	if len(featured) != 2 {
		t.Fatalf("Expected 2 featured episodes, got %d", len(featured))
	}
	if featured[0].Title != episodes[1].Title || featured[1].Title != episodes[2].Title {
		t.Error("Expected featured episodes to be indices 1 and 2")
	}
}

func TestUpdateEpisodesRejectUnsafeListenURL(t *testing.T) {
	unsafe := []string{
		"javascript:alert(document.cookie)",
		"JavaScript:alert(1)",
		" javascript:alert(1)",
		"data:text/html,<script>alert(1)</script>",
		"//example.com/no-scheme",
		"not a url",
	}

	for _, raw := range unsafe {
		doc := newFixture(t, fixturePage)
		episodes := sampleEpisodes(2)
		episodes[0].SpotifyURL = raw
		episodes[1].SpotifyURL = raw

		renderer := NewRenderer()
		renderer.UpdateLatestEpisode(doc, episodes[0])
		renderer.UpdateFeaturedEpisodes(doc, episodes)

		if href, _ := doc.Find(".episode-pitch").Attr("data-href"); href != "" {
			t.Errorf("%q: expected empty latest click target, got %q", raw, href)
		}
		if href, _ := doc.Find("#featured-episodes-grid .video-item").Attr("data-href"); href != "" {
			t.Errorf("%q: expected empty card click target, got %q", raw, href)
		}
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://open.spotify.com/episode/6wmdTsmmGb1jBLb1NUYbaV?si=_Gxud3j8SliX5fUXOvYkPg", "https://open.spotify.com/episode/6wmdTsmmGb1jBLb1NUYbaV?si=_Gxud3j8SliX5fUXOvYkPg"},
		{"http://example.com/audio.mp3", "http://example.com/audio.mp3"},
		{"javascript:alert(1)", ""},
		{"mailto:host@example.com", ""},
		{"/relative/path", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestUpdateLatestEpisodeKeepsAuthoredStyle(t *testing.T) {
	doc := newFixture(t, strings.Replace(fixturePage,
		`<section class="episode-pitch">`,
		`<section class="episode-pitch" style="padding: 1rem">`, 1))

	renderer := NewRenderer()
	renderer.UpdateLatestEpisode(doc, sampleEpisodes(1)[0])
	renderer.UpdateLatestEpisode(doc, sampleEpisodes(1)[0])

	style, _ := doc.Find(".episode-pitch").Attr("style")
	if style != "padding: 1rem; cursor: pointer;" {
		t.Errorf("Expected authored style plus pointer cursor once, got %q", style)
	}
}
