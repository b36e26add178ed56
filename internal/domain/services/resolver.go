package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
)

// placeKeywords mark a candidate description as a populated place or
// administrative region.
var placeKeywords = []string{
	"city", "town", "capital", "municipality", "metropolitan",
	"metropolitan area", "urban agglomeration", "region",
	"territory", "union territory", "national capital",
}

// ResolverService turns free text into a validated in-scope place.
type ResolverService struct {
	kb      ports.KnowledgeBase
	queries QueryBuilder
	cache   ports.Cache[entities.EntityID]
}

// NewResolverService creates a new resolver backed by the given name cache.
func NewResolverService(kb ports.KnowledgeBase, queries QueryBuilder, cache ports.Cache[entities.EntityID]) *ResolverService {
	return &ResolverService{
		kb:      kb,
		queries: queries,
		cache:   cache,
	}
}

// Resolve returns the place the text denotes. Successful resolutions are
// cached under the normalized text for the process lifetime. Every failure
// wraps ErrNoEntityFound; failures caused by the remote service also wrap
// ports.ErrQuery and are not cached.
func (s *ResolverService) Resolve(ctx context.Context, text string) (entities.EntityID, error) {
	key := entities.NormalizeName(text)
	if key == "" {
		return "", fmt.Errorf("%w: empty query", ErrNoEntityFound)
	}

	return s.cache.GetOrCompute(ctx, key, func(ctx context.Context) (entities.EntityID, error) {
		return s.resolve(ctx, strings.TrimSpace(text))
	})
}

func (s *ResolverService) resolve(ctx context.Context, text string) (entities.EntityID, error) {
	candidates, err := s.kb.SearchEntities(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: searching entities for %q: %w", ErrNoEntityFound, text, err)
	}

	chosen, ok := SelectCandidate(candidates)
	if !ok {
		return "", fmt.Errorf("%w: no candidates for %q", ErrNoEntityFound, text)
	}
	if !chosen.ID.Valid() {
		return "", fmt.Errorf("%w: malformed candidate id %q", ErrNoEntityFound, chosen.ID)
	}

	inScope, err := s.kb.Ask(ctx, s.queries.Containment(chosen.ID))
	if err != nil {
		return "", fmt.Errorf("%w: checking containment of %s: %w", ErrNoEntityFound, chosen.ID, err)
	}
	if !inScope {
		return "", fmt.Errorf("%w: %s is outside %s", ErrNoEntityFound, chosen.ID, s.queries.Country)
	}

	return chosen.ID, nil
}

// SelectCandidate picks the first candidate whose description names a
// place-like concept, falling back to the first candidate overall.
func SelectCandidate(candidates []entities.Candidate) (entities.Candidate, bool) {
	if len(candidates) == 0 {
		return entities.Candidate{}, false
	}
	for _, c := range candidates {
		if isPlaceDescription(c.Description) {
			return c, true
		}
	}
	return candidates[0], true
}

func isPlaceDescription(description string) bool {
	desc := strings.ToLower(description)
	for _, k := range placeKeywords {
		if strings.Contains(desc, k) {
			return true
		}
	}
	return false
}
