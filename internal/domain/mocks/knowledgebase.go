// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
)

// KnowledgeBase is a scripted implementation of ports.KnowledgeBase.
// Responses are keyed by the exact search text or query string. Unscripted
// Ask queries answer false and unscripted Select queries return no rows.
type KnowledgeBase struct {
	mu sync.Mutex

	Candidates  map[string][]entities.Candidate
	AskAnswers  map[string]bool
	SelectRows  map[string][]ports.Row
	Errors      map[string]error
	SearchCalls []string
	AskCalls    []string
	SelectCalls []string
}

// NewKnowledgeBase returns an empty scripted knowledge base.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		Candidates: make(map[string][]entities.Candidate),
		AskAnswers: make(map[string]bool),
		SelectRows: make(map[string][]ports.Row),
		Errors:     make(map[string]error),
	}
}

// SearchEntities returns the scripted candidates for text.
func (m *KnowledgeBase) SearchEntities(ctx context.Context, text string) ([]entities.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls = append(m.SearchCalls, text)
	if err := m.Errors[text]; err != nil {
		return nil, err
	}
	return m.Candidates[text], nil
}

// Ask returns the scripted answer for query.
func (m *KnowledgeBase) Ask(ctx context.Context, query string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AskCalls = append(m.AskCalls, query)
	if err := m.Errors[query]; err != nil {
		return false, err
	}
	return m.AskAnswers[query], nil
}

// Select returns the scripted rows for query.
func (m *KnowledgeBase) Select(ctx context.Context, query string) ([]ports.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SelectCalls = append(m.SelectCalls, query)
	if err := m.Errors[query]; err != nil {
		return nil, err
	}
	return m.SelectRows[query], nil
}

// TotalCalls returns the number of remote calls made so far.
func (m *KnowledgeBase) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SearchCalls) + len(m.AskCalls) + len(m.SelectCalls)
}

// Fail makes the given search text or query fail with a wrapped ports.ErrQuery.
func (m *KnowledgeBase) Fail(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[key] = fmt.Errorf("%w: scripted failure", ports.ErrQuery)
}
