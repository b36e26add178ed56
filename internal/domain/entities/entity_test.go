package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityIDFromURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected EntityID
	}{
		{name: "entity uri", input: "http://www.wikidata.org/entity/Q1156", expected: "Q1156"},
		{name: "trailing slash", input: "http://www.wikidata.org/entity/Q1156/", expected: "Q1156"},
		{name: "bare id", input: "Q668", expected: "Q668"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EntityIDFromURI(tt.input))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "new delhi", NormalizeName("  New Delhi "))
	assert.Equal(t, "mumbai", NormalizeName("MUMBAI"))
}

func TestPersonRecord_SortKeys(t *testing.T) {
	p := PersonRecord{ID: "Q1001", Label: "Mahatma Gandhi", BirthYear: Year(1869), DeathYear: Year(1948)}
	assert.Equal(t, 1869, p.BirthSortKey())
	assert.Equal(t, 1948, p.DeathSortKey())
	assert.Equal(t, "https://www.wikidata.org/wiki/Q1001", p.URL())

	unknown := PersonRecord{ID: "Q2"}
	assert.Equal(t, 0, unknown.BirthSortKey())
	assert.Equal(t, 0, unknown.DeathSortKey())
}

func TestEntityID_Valid(t *testing.T) {
	tests := []struct {
		id    EntityID
		valid bool
	}{
		{"Q1156", true},
		{"P131", true},
		{"L7", true},
		{"", false},
		{"Q", false},
		{"Q0", false},
		{"q1156", false},
		{"Q1156 } ; DROP", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.id.Valid())
		})
	}
}
