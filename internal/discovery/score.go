package discovery

import "strings"

// Score computes the relevance of a posting's text against the profile
// keywords: distinct case-insensitive substring matches divided by the
// keyword count, capped at 1.0. Matched keywords come back in profile order,
// not order of appearance. Zero configured keywords scores 0 and matches
// nothing. Pure function, no I/O.
func Score(jobText string, profileKeywords []string) (float64, []string) {
	if len(profileKeywords) == 0 {
		return 0, nil
	}

	textLower := strings.ToLower(jobText)
	seen := make(map[string]struct{}, len(profileKeywords))
	var matched []string
	for _, keyword := range profileKeywords {
		lower := strings.ToLower(strings.TrimSpace(keyword))
		if lower == "" {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		if strings.Contains(textLower, lower) {
			seen[lower] = struct{}{}
			matched = append(matched, keyword)
		}
	}

	score := float64(len(matched)) / float64(len(profileKeywords))
	if score > 1 {
		score = 1
	}
	return score, matched
}
