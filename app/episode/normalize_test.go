package episode

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.UTC
	defer func() { time.Local = oldLocal }()

	item := RawItem{
		Title:       "ASTI - ep9, building a business",
		PubDate:     "2024-03-12 12:00:00",
		Link:        "https://open.spotify.com/episode/abc",
		GUID:        "guid-9",
		Description: `<p>Asti is an <b>entrepreneur</b>.</p><p>Runtime 00:39:12</p><img src="https://example.com/cover.jpg">`,
		Thumbnail:   "",
	}

	ep := Normalize(item)

	if ep.Title != item.Title {
		t.Errorf("Expected title %q, got %q", item.Title, ep.Title)
	}
	if ep.Description != "Asti is an entrepreneur.Runtime 00:39:12" {
		t.Errorf("Expected stripped description, got %q", ep.Description)
	}
	if ep.Date != "Mar 12, 2024" {
		t.Errorf("Expected date 'Mar 12, 2024', got %q", ep.Date)
	}
	if ep.Duration != "39 min" {
		t.Errorf("Expected duration '39 min', got %q", ep.Duration)
	}
	if ep.AudioURL != item.Link || ep.SpotifyURL != item.Link {
		t.Errorf("Expected audio and Spotify URL %q, got %q / %q", item.Link, ep.AudioURL, ep.SpotifyURL)
	}
	if ep.EpisodeNumber != "9" {
		t.Errorf("Expected episode number '9', got %q", ep.EpisodeNumber)
	}
	if ep.GUID != "guid-9" {
		t.Errorf("Expected GUID 'guid-9', got %q", ep.GUID)
	}
	if ep.CoverImage != "https://example.com/cover.jpg" {
		t.Errorf("Expected cover image from body, got %q", ep.CoverImage)
	}
}

func TestNormalizePlaceholders(t *testing.T) {
	ep := Normalize(RawItem{})

	if ep.Title != UntitledTitle {
		t.Errorf("Expected title placeholder, got %q", ep.Title)
	}
	if ep.Date != UnknownDate {
		t.Errorf("Expected date placeholder, got %q", ep.Date)
	}
	if ep.Duration != UnknownDuration {
		t.Errorf("Expected duration placeholder, got %q", ep.Duration)
	}
	if ep.Description != "" || ep.CoverImage != "" || ep.EpisodeNumber != "" {
		t.Errorf("Expected empty optional fields, got %+v", ep)
	}
	if ep.ListenURL() != "" {
		t.Errorf("Expected empty listen URL, got %q", ep.ListenURL())
	}
}

func TestNormalizeUsesITunesDuration(t *testing.T) {
	ep := Normalize(RawItem{Title: "x", Description: "no timing", Duration: "2880"})
	if ep.Duration != "48 min" {
		t.Errorf("Expected '48 min' from itunes duration, got %q", ep.Duration)
	}

	ep = Normalize(RawItem{Title: "x", Description: "runs 20 min", Duration: "2880"})
	if ep.Duration != "20 min" {
		t.Errorf("Expected description duration to win, got %q", ep.Duration)
	}
}

func TestNormalizeAllKeepsOrder(t *testing.T) {
	episodes := NormalizeAll([]RawItem{{Title: "first"}, {Title: "second"}, {Title: "third"}})
	if len(episodes) != 3 {
		t.Fatalf("Expected 3 episodes, got %d", len(episodes))
	}
	for i, title := range []string{"first", "second", "third"} {
		if episodes[i].Title != title {
			t.Errorf("Expected episode %d to be %q, got %q", i, title, episodes[i].Title)
		}
	}
}

func TestListenURLPrefersSpotify(t *testing.T) {
	ep := Episode{SpotifyURL: "https://open.spotify.com/x", AudioURL: "https://example.com/a.mp3"}
	if ep.ListenURL() != "https://open.spotify.com/x" {
		t.Errorf("Expected Spotify URL, got %q", ep.ListenURL())
	}

	ep.SpotifyURL = ""
	if ep.ListenURL() != "https://example.com/a.mp3" {
		t.Errorf("Expected audio URL, got %q", ep.ListenURL())
	}
}
