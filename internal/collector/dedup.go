package collector

import "github.com/devpouya/swiss-media-bias-tracker/internal/domain"

// Dedupe collapses candidates sharing a content fingerprint. The first
// occurrence wins and insertion order is preserved among survivors, so running
// it twice changes nothing.
func Dedupe(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]domain.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if _, dup := seen[c.ContentHash]; dup {
			continue
		}
		seen[c.ContentHash] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}
