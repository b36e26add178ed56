package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
)

// Suggestion defaults.
const (
	DefaultSuggestLimit     = 10
	DefaultMinSuggestLength = 3
)

// SuggestionService looks up places whose label contains the typed text.
type SuggestionService struct {
	kb        ports.KnowledgeBase
	queries   QueryBuilder
	limit     int
	minLength int
}

// NewSuggestionService creates a new suggestion service. Non-positive
// limit or minLength select the defaults.
func NewSuggestionService(kb ports.KnowledgeBase, queries QueryBuilder, limit, minLength int) *SuggestionService {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	if minLength <= 0 {
		minLength = DefaultMinSuggestLength
	}
	return &SuggestionService{
		kb:        kb,
		queries:   queries,
		limit:     limit,
		minLength: minLength,
	}
}

// Eligible reports whether text is long enough to query for. Length is
// counted on the text as typed, surrounding spaces included.
func (s *SuggestionService) Eligible(text string) bool {
	return utf8.RuneCountInString(text) >= s.minLength
}

// Suggest returns up to the configured number of places matching text.
// Text that is too short yields no suggestions and no remote call.
func (s *SuggestionService) Suggest(ctx context.Context, text string) ([]entities.Suggestion, error) {
	if !s.Eligible(text) {
		return nil, nil
	}

	rows, err := s.kb.Select(ctx, s.queries.Suggestions(text, s.limit))
	if err != nil {
		return nil, fmt.Errorf("suggesting places for %q: %w", text, err)
	}

	seen := make(map[entities.EntityID]bool, len(rows))
	suggestions := make([]entities.Suggestion, 0, len(rows))
	for _, row := range rows {
		b, ok := row["city"]
		if !ok {
			continue
		}
		id := b.EntityID()
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		suggestions = append(suggestions, entities.Suggestion{
			Label: row.Value("cityLabel"),
			ID:    id,
		})
	}
	return suggestions, nil
}
