// Package entities contains core domain data structures.
package entities

import (
	"regexp"
	"strings"
)

// reEntityID matches item, property and lexeme identifiers.
var reEntityID = regexp.MustCompile(`^[QPL][1-9][0-9]*$`)

// EntityID is the stable identifier of a knowledge-base entity (e.g. "Q1156").
type EntityID string

// String returns the identifier as a plain string.
func (id EntityID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id EntityID) IsZero() bool {
	return id == ""
}

// EntityIDFromURI extracts the trailing path segment of an entity reference,
// e.g. "http://www.wikidata.org/entity/Q1156" becomes "Q1156".
func EntityIDFromURI(uri string) EntityID {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return EntityID(uri[i+1:])
	}
	return EntityID(uri)
}

// Candidate is a ranked hit from a free-text entity search.
type Candidate struct {
	ID          EntityID `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
}

// Suggestion is a place offered while the user is still typing.
type Suggestion struct {
	Label string   `json:"label"`
	ID    EntityID `json:"id"`
}

// NormalizeName converts a place query to its cache key: trimmed and lowercase.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Valid reports whether the identifier has the shape of a knowledge-base
// item, property or lexeme id. Only valid ids are ever interpolated into queries.
func (id EntityID) Valid() bool {
	return reEntityID.MatchString(string(id))
}
