package episode

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yml
var fallbackYAML []byte

// Fallback returns a fresh copy of the pre-authored episodes used when the
// feed cannot be loaded.
func Fallback() []Episode {
	episodes, err := ParseEpisodes(fallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded fallback episodes are invalid: %v", err))
	}
	return episodes
}

// ParseEpisodes decodes a YAML list of episodes. Cover images are never
// taken from fallback data.
func ParseEpisodes(data []byte) ([]Episode, error) {
	var episodes []Episode
	if err := yaml.Unmarshal(data, &episodes); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(episodes) == 0 {
		return nil, fmt.Errorf("no episodes defined")
	}

	for i := range episodes {
		if episodes[i].Title == "" {
			return nil, fmt.Errorf("episode at index %d has no title", i)
		}
		episodes[i].CoverImage = ""
	}

	return episodes, nil
}
