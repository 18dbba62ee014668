package episode

import (
	"bytes"
	"cmp"
	"encoding/json"
)

// Episode is the normalized record rendered on the homepage.
type Episode struct {
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
	Date          string `json:"date" yaml:"date"`
	Duration      string `json:"duration" yaml:"duration"`
	AudioURL      string `json:"audio_url" yaml:"audio_url"`
	SpotifyURL    string `json:"spotify_url" yaml:"spotify_url"`
	EpisodeNumber string `json:"episode_number,omitempty" yaml:"episode_number"`
	GUID          string `json:"guid,omitempty" yaml:"guid"`
	CoverImage    string `json:"cover_image,omitempty" yaml:"cover_image"`
}

// ListenURL is the click target: Spotify first, then the audio link.
func (e Episode) ListenURL() string {
	return cmp.Or(e.SpotifyURL, e.AudioURL)
}

// RawItem is one feed item as returned by the RSS-to-JSON conversion service.
type RawItem struct {
	Title        string `json:"title"`
	PubDate      string `json:"pubDate"`
	Link         string `json:"link"`
	GUID         string `json:"guid"`
	Description  string `json:"description"`
	Content      string `json:"content"`
	Thumbnail    string `json:"thumbnail"`
	Enclosure    Media  `json:"enclosure"`
	Image        Media  `json:"image"`
	MediaContent Media  `json:"media:content"`

	// Duration carries itunes:duration when the feed is parsed directly.
	Duration string `json:"-"`
}

// Body returns the description, or the content when the description is empty.
func (i RawItem) Body() string {
	return cmp.Or(i.Description, i.Content)
}

// Media is a URL-bearing object of a feed item (enclosure, image, media:content).
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// UnmarshalJSON accepts an object, a bare URL string, or the empty array the
// conversion service emits for absent objects.
func (m *Media) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*m = Media{}

	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		type plain Media
		var p plain
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return err
		}
		*m = Media(p)
	case '"':
		return json.Unmarshal(trimmed, &m.URL)
	}

	return nil
}
