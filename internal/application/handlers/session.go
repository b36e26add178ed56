package handlers

import (
	"sync"
	"time"

	"github.com/ersonp/placefolk/internal/application/debounce"
	"github.com/ersonp/placefolk/internal/domain/entities"
)

// Session holds the state of one user's searches: the current term, the
// result set it produced, how that result set is viewed, and the pending
// suggestion task. A new search resets everything but the suggestion state.
type Session struct {
	ID string

	mu          sync.Mutex
	busy        bool
	term        string
	entity      entities.EntityID
	people      []entities.PersonRecord
	occupations []string
	view        entities.ViewState
	hasResults  bool

	suggester   *debounce.Debouncer
	suggestions []entities.Suggestion
	cursor      Cursor
}

// NewSession creates an idle session whose suggestion task waits suggestDelay.
func NewSession(id string, suggestDelay time.Duration) *Session {
	return &Session{
		ID:        id,
		view:      entities.NewViewState(),
		suggester: debounce.New(suggestDelay),
		cursor:    NewCursor(0),
	}
}

// begin marks the session busy and resets the previous search. It returns
// false if a search is already running.
func (s *Session) begin(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	s.term = term
	s.entity = ""
	s.people = nil
	s.occupations = nil
	s.view = entities.NewViewState()
	s.hasResults = false
	return true
}

// end returns the session to idle.
func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) setResults(entity entities.EntityID, people []entities.PersonRecord, occupations []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entity = entity
	s.people = people
	s.occupations = occupations
	s.hasResults = len(people) > 0
}

// snapshot returns the result set and view under the lock.
func (s *Session) snapshot() ([]entities.PersonRecord, entities.ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.people, s.view, s.hasResults
}

func (s *Session) updateView(fn func([]entities.PersonRecord, entities.ViewState) entities.ViewState) ([]entities.PersonRecord, entities.ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasResults {
		return nil, s.view, false
	}
	s.view = fn(s.people, s.view)
	return s.people, s.view, true
}

// Busy reports whether a search is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Term returns the text of the current search.
func (s *Session) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Entity returns the place the current search resolved to.
func (s *Session) Entity() entities.EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entity
}

// People returns the current result set.
func (s *Session) People() []entities.PersonRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.people
}

// Occupations returns the profession filter options of the current result set.
func (s *Session) Occupations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupations
}

// View returns the current view state.
func (s *Session) View() entities.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) setSuggestions(list []entities.Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = list
	s.cursor = NewCursor(len(list))
}

// Suggestions returns the suggestions currently shown.
func (s *Session) Suggestions() []entities.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions
}

// MoveCursor applies a navigation key to the suggestion list and returns
// the active index, -1 when nothing is highlighted.
func (s *Session) MoveCursor(key NavKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case KeyDown:
		s.cursor.Down()
	case KeyUp:
		s.cursor.Up()
	}
	return s.cursor.Active()
}

// ActiveSuggestion returns the highlighted suggestion, if any.
func (s *Session) ActiveSuggestion() (entities.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cursor.Active()
	if i < 0 || i >= len(s.suggestions) {
		return entities.Suggestion{}, false
	}
	return s.suggestions[i], true
}

// SuggestionAt returns the suggestion at index i, if any.
func (s *Session) SuggestionAt(i int) (entities.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.suggestions) {
		return entities.Suggestion{}, false
	}
	return s.suggestions[i], true
}

// Close cancels any pending suggestion task.
func (s *Session) Close() {
	s.suggester.Cancel()
}
