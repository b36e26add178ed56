package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/mocks"
	"github.com/ersonp/placefolk/internal/domain/ports"
	"github.com/ersonp/placefolk/internal/domain/services"
)

const testPageSize = 12

var testQueries = services.QueryBuilder{Country: "Q668", Language: "en", PlaceClass: "Q515"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSearchHandler(kb ports.KnowledgeBase) *SearchHandler {
	resolver := services.NewResolverService(kb, testQueries, mocks.NewCache[entities.EntityID]())
	regions := services.NewRegionService(kb, testQueries, mocks.NewCache[[]entities.EntityID](), 0)
	collector := services.NewCollectorService(kb, testQueries, regions, mocks.NewCache[[]entities.PersonRecord](), testPageSize)
	views := services.NewViewService(testPageSize, "en")
	return NewSearchHandler(resolver, collector, views, "India", discardLogger())
}

func newTestSession() *Session {
	return NewSession("test-session", 10*time.Millisecond)
}

func uri(id string) ports.Binding {
	return ports.Binding{Type: "uri", Value: "http://www.wikidata.org/entity/" + id}
}

func literal(v string) ports.Binding {
	return ports.Binding{Type: "literal", Value: v}
}

func personRows(start, n int, occupation string) []ports.Row {
	rows := make([]ports.Row, 0, n)
	for i := start; i < start+n; i++ {
		row := ports.Row{
			"person":      uri(fmt.Sprintf("Q%d", i)),
			"personLabel": literal(fmt.Sprintf("Person %d", i)),
		}
		if occupation != "" {
			row["occupationLabel"] = literal(occupation)
		}
		rows = append(rows, row)
	}
	return rows
}

// scriptPlace makes text resolve to id inside the target country.
func scriptPlace(kb *mocks.KnowledgeBase, text string, id entities.EntityID, description string) {
	kb.Candidates[text] = []entities.Candidate{{ID: id, Label: text, Description: description}}
	kb.AskAnswers[testQueries.Containment(id)] = true
}

func scriptPages(kb *mocks.KnowledgeBase, id entities.EntityID, pages ...[]ports.Row) {
	for i, rows := range pages {
		kb.SelectRows[testQueries.People(id, testPageSize, i*testPageSize)] = rows
	}
}
