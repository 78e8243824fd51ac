package ai

import (
	"github.com/jobdeck/jobdeck/internal/taxonomy"
)

// MatchScore compares a parsed resume against a posting's required skills and
// returns a score in [0,1] plus the required skills the resume covers, in
// requirement order. Skills are compared by normalized code, so "TypeScript"
// matches "typescript".
func MatchScore(profile *ResumeProfile, requiredSkills []string) (float64, []string) {
	if profile == nil || len(requiredSkills) == 0 {
		return 0, nil
	}

	have := make(map[string]bool, len(profile.Skills))
	for _, s := range profile.Skills {
		if code := taxonomy.Slugify(s); code != "" {
			have[code] = true
		}
	}

	var highlights []string
	seen := make(map[string]bool, len(requiredSkills))
	total := 0
	matched := 0
	for _, s := range requiredSkills {
		code := taxonomy.Slugify(s)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		total++
		if have[code] {
			matched++
			highlights = append(highlights, s)
		}
	}

	if total == 0 {
		return 0, nil
	}

	return float64(matched) / float64(total), highlights
}
