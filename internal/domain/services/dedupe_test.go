package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/placefolk/internal/domain/entities"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []entities.PersonRecord
		expected []entities.EntityID
		labels   []string
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []entities.EntityID{},
			labels:   []string{},
		},
		{
			name: "no duplicates keeps order",
			input: []entities.PersonRecord{
				{ID: "Q3", Label: "c"}, {ID: "Q1", Label: "a"}, {ID: "Q2", Label: "b"},
			},
			expected: []entities.EntityID{"Q3", "Q1", "Q2"},
			labels:   []string{"c", "a", "b"},
		},
		{
			name: "first occurrence wins",
			input: []entities.PersonRecord{
				{ID: "Q1", Label: "first"},
				{ID: "Q2", Label: "b"},
				{ID: "Q1", Label: "second"},
				{ID: "Q3", Label: "c"},
				{ID: "Q2", Label: "b again"},
			},
			expected: []entities.EntityID{"Q1", "Q2", "Q3"},
			labels:   []string{"first", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Dedupe(tt.input)
			assert.Equal(t, tt.expected, ids(out))

			labels := make([]string, len(out))
			for i, p := range out {
				labels[i] = p.Label
			}
			assert.Equal(t, tt.labels, labels)
		})
	}
}
