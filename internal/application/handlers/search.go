// Package handlers orchestrates the domain services for the CLI and the
// HTTP server.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
	"github.com/ersonp/placefolk/internal/domain/services"
)

var (
	// ErrBusy is returned when a session is already running a search.
	ErrBusy = errors.New("a search is already in progress")
	// ErrEmptyQuery is returned for blank search text.
	ErrEmptyQuery = errors.New("search text is empty")
	// ErrNoSearch is returned by view operations when there is nothing to view.
	ErrNoSearch = errors.New("no search results to view")
)

// Outcome classifies how a search ended.
type Outcome string

// Search outcomes.
const (
	OutcomeFound     Outcome = "found"
	OutcomeNoEntity  Outcome = "no_entity"
	OutcomeNoResults Outcome = "no_results"
	OutcomeFailed    Outcome = "failed"
)

// Level is the severity of a user-visible status message.
type Level string

// Status levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// User-visible messages.
const (
	msgFetchFailed     = "Failed to fetch data. Please try again later."
	msgNoProfessionHit = "No people found for the selected profession."
	msgNoResults       = "No results to display."
)

// SearchResult is what a user sees after a search.
type SearchResult struct {
	Query       string            `json:"query"`
	Entity      entities.EntityID `json:"entity,omitempty"`
	Outcome     Outcome           `json:"outcome"`
	Level       Level             `json:"level"`
	Message     string            `json:"message"`
	Total       int               `json:"total"`
	Occupations []string          `json:"occupations,omitempty"`
	View        *ViewResult       `json:"view,omitempty"`
	// Err is the typed cause of a non-found outcome.
	Err error `json:"-"`
}

// ShowControls reports whether sort and profession controls apply.
func (r *SearchResult) ShowControls() bool {
	return r.Total > 0
}

// ViewResult is a projected page plus the message to show when it is empty.
type ViewResult struct {
	services.View
	Message string `json:"message,omitempty"`
}

// SearchHandler runs the full search flow for a session: resolve, expand,
// collect, deduplicate and project.
type SearchHandler struct {
	resolver  *services.ResolverService
	collector *services.CollectorService
	views     *services.ViewService
	country   string
	logger    *slog.Logger
}

// NewSearchHandler creates a new search handler. country is the display
// name of the target country used in messages.
func NewSearchHandler(
	resolver *services.ResolverService,
	collector *services.CollectorService,
	views *services.ViewService,
	country string,
	logger *slog.Logger,
) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		resolver:  resolver,
		collector: collector,
		views:     views,
		country:   country,
		logger:    logger,
	}
}

// BusyMessage is the status shown while a search for text runs.
func BusyMessage(text string) string {
	return fmt.Sprintf(`Searching for "%s"...`, text)
}

// Search runs a new search in sess, replacing its previous results.
// Domain outcomes (no entity, no results, failed pages) are reported in the
// result rather than as errors; the error return is reserved for ErrBusy
// and ErrEmptyQuery. The session is idle again when Search returns.
func (h *SearchHandler) Search(ctx context.Context, sess *Session, text string) (*SearchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if !sess.begin(text) {
		return nil, ErrBusy
	}
	defer sess.end()

	h.logger.Info("searching", "session", sess.ID, "query", text)

	id, err := h.resolver.Resolve(ctx, text)
	if err != nil {
		if errors.Is(err, ports.ErrQuery) {
			h.logger.Warn("resolution degraded", "query", text, "error", err)
		} else {
			h.logger.Debug("no entity", "query", text, "reason", err)
		}
		return &SearchResult{
			Query:   text,
			Outcome: OutcomeNoEntity,
			Level:   LevelError,
			Message: fmt.Sprintf(`No data found for "%s" in %s.`, text, h.country),
			Err:     err,
		}, nil
	}

	coll, err := h.collector.CollectAll(ctx, id)
	if coll != nil && coll.ExpandErr != nil {
		h.logger.Warn("sub-region expansion failed, collecting place alone", "entity", id, "error", coll.ExpandErr)
	}

	var people []entities.PersonRecord
	if coll != nil {
		people = coll.People
	}
	occupations := h.views.Occupations(people)
	sess.setResults(id, people, occupations)

	result := &SearchResult{
		Query:       text,
		Entity:      id,
		Total:       len(people),
		Occupations: occupations,
	}
	if len(people) > 0 {
		result.View = h.viewResult(people, sess.View())
	}

	switch {
	case err != nil:
		h.logger.Error("collection truncated", "entity", id, "kept", len(people), "error", err)
		result.Outcome = OutcomeFailed
		result.Level = LevelError
		result.Message = msgFetchFailed
		result.Err = err
	case len(people) == 0:
		result.Outcome = OutcomeNoResults
		result.Level = LevelWarning
		result.Message = fmt.Sprintf(`No notable people found for "%s".`, text)
		result.Err = services.ErrNoResultsFound
	default:
		result.Outcome = OutcomeFound
		result.Level = LevelSuccess
		result.Message = fmt.Sprintf("Found %d notable people from %s", len(people), text)
	}

	h.logger.Info("search finished", "session", sess.ID, "query", text, "entity", id, "outcome", result.Outcome, "people", len(people))
	return result, nil
}

// CurrentView projects the session's results with its current view state.
func (h *SearchHandler) CurrentView(sess *Session) (*ViewResult, error) {
	people, view, ok := sess.snapshot()
	if !ok {
		return nil, ErrNoSearch
	}
	return h.viewResult(people, view), nil
}

// Sort changes the sort key and returns the first page.
func (h *SearchHandler) Sort(sess *Session, key entities.SortKey) (*ViewResult, error) {
	return h.update(sess, func(_ []entities.PersonRecord, v entities.ViewState) entities.ViewState {
		return v.WithSort(key)
	})
}

// FilterProfession changes the profession filter and returns the first page.
// An empty profession clears the filter.
func (h *SearchHandler) FilterProfession(sess *Session, profession string) (*ViewResult, error) {
	return h.update(sess, func(_ []entities.PersonRecord, v entities.ViewState) entities.ViewState {
		return v.WithProfession(profession)
	})
}

// LoadMore advances to the next page. On the last page the view stays put.
func (h *SearchHandler) LoadMore(sess *Session) (*ViewResult, error) {
	return h.update(sess, func(people []entities.PersonRecord, v entities.ViewState) entities.ViewState {
		if !h.views.Project(people, v).HasMore {
			return v
		}
		return v.NextPage()
	})
}

func (h *SearchHandler) update(sess *Session, fn func([]entities.PersonRecord, entities.ViewState) entities.ViewState) (*ViewResult, error) {
	people, view, ok := sess.updateView(fn)
	if !ok {
		return nil, ErrNoSearch
	}
	return h.viewResult(people, view), nil
}

func (h *SearchHandler) viewResult(people []entities.PersonRecord, state entities.ViewState) *ViewResult {
	v := h.views.Project(people, state)
	r := &ViewResult{View: v}
	if len(v.People) == 0 && v.State.Page == 1 {
		if v.State.Profession != "" {
			r.Message = msgNoProfessionHit
		} else {
			r.Message = msgNoResults
		}
	}
	return r
}
