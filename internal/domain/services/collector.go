package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
)

// DefaultPageSize is the number of people requested per page. The view
// engine renders pages of the same size.
const DefaultPageSize = 12

// Collection is the aggregated people list of a place and its sub-regions.
type Collection struct {
	Root entities.EntityID
	// Entities lists the places visited, parent first.
	Entities []entities.EntityID
	// People is deduplicated, in traversal order.
	People []entities.PersonRecord
	// ExpandErr is set when sub-region discovery failed and the place
	// was collected on its own.
	ExpandErr error
}

// CollectorService pages through the people query for a place and each of
// its sub-regions.
type CollectorService struct {
	kb       ports.KnowledgeBase
	queries  QueryBuilder
	regions  *RegionService
	cache    ports.Cache[[]entities.PersonRecord]
	pageSize int
}

// NewCollectorService creates a new collector. pageSize <= 0 selects DefaultPageSize.
func NewCollectorService(kb ports.KnowledgeBase, queries QueryBuilder, regions *RegionService, cache ports.Cache[[]entities.PersonRecord], pageSize int) *CollectorService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CollectorService{
		kb:       kb,
		queries:  queries,
		regions:  regions,
		cache:    cache,
		pageSize: pageSize,
	}
}

// PageSize returns the page size used for fetching.
func (s *CollectorService) PageSize() int {
	return s.pageSize
}

// CollectAll gathers every person associated with root or one of its
// sub-regions. Places are fetched one after another, parent first.
//
// A failed page stops the collection at once. The records gathered so far
// are still returned, together with an error wrapping ports.ErrQuery.
func (s *CollectorService) CollectAll(ctx context.Context, root entities.EntityID) (*Collection, error) {
	c := &Collection{
		Root:     root,
		Entities: []entities.EntityID{root},
	}

	subs, err := s.regions.SubRegions(ctx, root)
	if err != nil {
		c.ExpandErr = err
	}
	c.Entities = append(c.Entities, subs...)

	var all []entities.PersonRecord
	for _, id := range c.Entities {
		people, err := s.collectEntity(ctx, id)
		all = append(all, people...)
		if err != nil {
			c.People = Dedupe(all)
			return c, fmt.Errorf("collecting people for %s: %w", id, err)
		}
	}

	c.People = Dedupe(all)
	return c, nil
}

// collectEntity returns the cached list for id or fetches it page by page.
// Only exhausted lists are cached; on failure the partial list is returned.
func (s *CollectorService) collectEntity(ctx context.Context, id entities.EntityID) ([]entities.PersonRecord, error) {
	var partial []entities.PersonRecord
	people, err := s.cache.GetOrCompute(ctx, string(id), func(ctx context.Context) ([]entities.PersonRecord, error) {
		var err error
		partial, err = s.fetchAll(ctx, id)
		return partial, err
	})
	if err != nil {
		return partial, err
	}
	return people, nil
}

func (s *CollectorService) fetchAll(ctx context.Context, id entities.EntityID) ([]entities.PersonRecord, error) {
	var people []entities.PersonRecord
	//placefolk:sequential
	for offset := 0; ; offset += s.pageSize {
		rows, err := s.kb.Select(ctx, s.queries.People(id, s.pageSize, offset))
		if err != nil {
			return people, fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}

		for _, row := range rows {
			if p, ok := personFromRow(row); ok {
				people = append(people, p)
			}
		}

		// A short page, including an empty one, means there is nothing left.
		if len(rows) < s.pageSize {
			return people, nil
		}
	}
}

func personFromRow(row ports.Row) (entities.PersonRecord, bool) {
	b, ok := row["person"]
	if !ok {
		return entities.PersonRecord{}, false
	}
	id := b.EntityID()
	if id.IsZero() {
		return entities.PersonRecord{}, false
	}

	label := row.Value("personLabel")
	if label == "" {
		label = string(id)
	}

	return entities.PersonRecord{
		ID:         id,
		Label:      label,
		BirthYear:  parseYear(row.Value("birthYear")),
		DeathYear:  parseYear(row.Value("deathYear")),
		Occupation: strings.TrimSpace(row.Value("occupationLabel")),
	}, true
}

// parseYear returns nil for empty or unparseable values.
func parseYear(v string) *int {
	y, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &y
}
