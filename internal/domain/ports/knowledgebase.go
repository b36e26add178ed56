// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"errors"

	"github.com/ersonp/placefolk/internal/domain/entities"
)

// ErrQuery is wrapped by every knowledge-base failure: transport errors,
// non-success status codes and malformed payloads alike. Callers are not
// expected to tell them apart.
var ErrQuery = errors.New("knowledge base query failed")

// KnowledgeBase is the gateway to the remote structured knowledge base.
// No retries are performed; a failed call returns an error wrapping ErrQuery.
type KnowledgeBase interface {
	// SearchEntities runs a free-text entity search and returns ranked candidates.
	SearchEntities(ctx context.Context, text string) ([]entities.Candidate, error)

	// Ask evaluates a boolean pattern query.
	Ask(ctx context.Context, query string) (bool, error)

	// Select evaluates a tabular pattern query and returns its rows.
	Select(ctx context.Context, query string) ([]Row, error)
}

// Row is one result row of a tabular query, keyed by variable name.
// Unbound variables are absent.
type Row map[string]Binding

// Binding is a single bound column value.
type Binding struct {
	Type  string `json:"type"` // "uri", "literal" or "bnode"
	Value string `json:"value"`
	Lang  string `json:"xml:lang,omitempty"`
}

// IsEntity reports whether the binding is an entity reference.
func (b Binding) IsEntity() bool {
	return b.Type == "uri"
}

// EntityID recovers the identifier from the trailing path segment of the reference.
func (b Binding) EntityID() entities.EntityID {
	return entities.EntityIDFromURI(b.Value)
}

// Value returns the value of a column, or "" when it is unbound.
func (r Row) Value(name string) string {
	return r[name].Value
}
