package services

import (
	"context"
	"fmt"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
)

// RegionService discovers the immediate administrative sub-regions of a place.
type RegionService struct {
	kb      ports.KnowledgeBase
	queries QueryBuilder
	cache   ports.Cache[[]entities.EntityID]
	limit   int
}

// NewRegionService creates a new region service. A positive limit caps the
// number of sub-regions considered per place.
func NewRegionService(kb ports.KnowledgeBase, queries QueryBuilder, cache ports.Cache[[]entities.EntityID], limit int) *RegionService {
	return &RegionService{
		kb:      kb,
		queries: queries,
		cache:   cache,
		limit:   limit,
	}
}

// SubRegions returns the sub-regions of id in discovery order. A place
// without sub-regions yields (nil, nil); a failed lookup yields (nil, err)
// and is not cached, leaving the caller to decide whether to degrade.
func (s *RegionService) SubRegions(ctx context.Context, id entities.EntityID) ([]entities.EntityID, error) {
	return s.cache.GetOrCompute(ctx, string(id), func(ctx context.Context) ([]entities.EntityID, error) {
		rows, err := s.kb.Select(ctx, s.queries.SubRegions(id, s.limit))
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", id, err)
		}

		seen := map[entities.EntityID]bool{id: true}
		var regions []entities.EntityID
		for _, row := range rows {
			b, ok := row["region"]
			if !ok {
				continue
			}
			region := b.EntityID()
			if !region.Valid() || seen[region] {
				continue
			}
			seen[region] = true
			regions = append(regions, region)
		}
		return regions, nil
	})
}
