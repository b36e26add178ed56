package services

import "github.com/ersonp/placefolk/internal/domain/entities"

// Dedupe drops every record whose person id was already seen, keeping the
// first occurrence and the relative order of first occurrences.
func Dedupe(records []entities.PersonRecord) []entities.PersonRecord {
	seen := make(map[entities.EntityID]struct{}, len(records))
	out := make([]entities.PersonRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
