package episode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

const (
	UntitledTitle   = "Untitled Episode"
	UnknownDate     = "Unknown date"
	UnknownDuration = "Unknown duration"

	dateLayout = "Jan 2, 2006"

	// maxITunesSeconds bounds itunes:duration values; anything longer is bogus.
	maxITunesSeconds = 100 * 3600
	ellipsis   = "..."
)

var (
	clockPattern   = regexp.MustCompile(`(\d{1,2}):(\d{2}):(\d{2})`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
	episodePattern = regexp.MustCompile(`(?i)ep(\d+)`)
	imgSrcPattern  = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"`)
)

// StripHTML returns the text content of markup. The markup is parsed, never
// executed; script and style bodies are dropped.
func StripHTML(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	doc.Find("script, style").Remove()

	return strings.TrimSpace(norm.NFC.String(doc.Text()))
}

// FormatDate renders raw as "Jan 2, 2006" in the local timezone.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownDate
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil || t.Year() == 0 {
		return UnknownDate
	}

	return t.In(time.Local).Format(dateLayout)
}

// ExtractDuration looks for an H:MM:SS clock first, then for "<n> min".
func ExtractDuration(content string) string {
	if m := clockPattern.FindStringSubmatch(content); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return formatClock(hours, minutes)
	}

	if m := minutesPattern.FindStringSubmatch(content); m != nil {
		return m[1] + " min"
	}

	return UnknownDuration
}

// ExtractEpisodeNumber returns the digits of an "epN" marker in title, or "".
func ExtractEpisodeNumber(title string) string {
	if m := episodePattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// ExtractCoverImage resolves the cover image in priority order: thumbnail,
// enclosure, image, first <img> in the body, media:content.
func ExtractCoverImage(item RawItem) string {
	candidates := []string{
		item.Thumbnail,
		item.Enclosure.URL,
		item.Image.URL,
	}

	for _, candidate := range candidates {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate
		}
	}

	if m := imgSrcPattern.FindStringSubmatch(item.Body()); m != nil {
		return m[1]
	}

	return strings.TrimSpace(item.MediaContent.URL)
}

// Truncate cuts s to max characters and appends "..." when it is longer.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + ellipsis
}

func formatClock(hours, minutes int) string {
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// parseITunesDuration accepts H:MM:SS, MM:SS or a plain number of seconds.
func parseITunesDuration(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	total := 0
	for _, part := range strings.Split(raw, ":") {
		if len(part) > 6 {
			return ""
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return ""
		}
		total = total*60 + n
		if total > maxITunesSeconds {
			return ""
		}
	}

	return formatClock(total/3600, (total%3600)/60)
}
