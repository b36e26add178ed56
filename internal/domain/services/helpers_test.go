package services

import (
	"fmt"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/mocks"
	"github.com/ersonp/placefolk/internal/domain/ports"
)

var testQueries = QueryBuilder{Country: "Q668", Language: "en", PlaceClass: "Q515"}

func uri(id string) ports.Binding {
	return ports.Binding{Type: "uri", Value: "http://www.wikidata.org/entity/" + id}
}

func literal(v string) ports.Binding {
	return ports.Binding{Type: "literal", Value: v}
}

func personRow(id, label, birth, death, occupation string) ports.Row {
	row := ports.Row{
		"person":      uri(id),
		"personLabel": literal(label),
		"birthYear":   literal(birth),
		"deathYear":   literal(death),
	}
	if occupation != "" {
		row["occupationLabel"] = literal(occupation)
	}
	return row
}

// peopleRows returns n rows with ids prefix1..prefixN.
func peopleRows(prefix string, start, n int) []ports.Row {
	rows := make([]ports.Row, 0, n)
	for i := start; i < start+n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		rows = append(rows, personRow(id, "Person "+id, "", "", ""))
	}
	return rows
}

// scriptPages scripts consecutive people pages for id.
func scriptPages(kb *mocks.KnowledgeBase, id entities.EntityID, pageSize int, pages ...[]ports.Row) {
	for i, rows := range pages {
		kb.SelectRows[testQueries.People(id, pageSize, i*pageSize)] = rows
	}
}

func newTestCollector(kb *mocks.KnowledgeBase, pageSize int) (*CollectorService, *mocks.Cache[[]entities.PersonRecord]) {
	people := mocks.NewCache[[]entities.PersonRecord]()
	regions := NewRegionService(kb, testQueries, mocks.NewCache[[]entities.EntityID](), 0)
	return NewCollectorService(kb, testQueries, regions, people, pageSize), people
}

func ids(people []entities.PersonRecord) []entities.EntityID {
	out := make([]entities.EntityID, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}
