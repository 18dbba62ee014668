package episode

import (
	"cmp"
)

// Normalize maps a raw feed item to an Episode. It never fails; missing
// details degrade to placeholders.
func Normalize(item RawItem) Episode {
	body := item.Body()

	duration := ExtractDuration(body)
	if duration == UnknownDuration {
		if d := parseITunesDuration(item.Duration); d != "" {
			duration = d
		}
	}

	return Episode{
		Title:         cmp.Or(item.Title, UntitledTitle),
		Description:   StripHTML(body),
		Date:          FormatDate(item.PubDate),
		Duration:      duration,
		AudioURL:      item.Link,
		SpotifyURL:    item.Link,
		EpisodeNumber: ExtractEpisodeNumber(item.Title),
		GUID:          item.GUID,
		CoverImage:    ExtractCoverImage(item),
	}
}

// NormalizeAll maps items in source order.
func NormalizeAll(items []RawItem) []Episode {
	episodes := make([]Episode, 0, len(items))
	for _, item := range items {
		episodes = append(episodes, Normalize(item))
	}
	return episodes
}
