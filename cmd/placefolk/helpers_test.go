package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type binding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func entityURI(id string) binding {
	return binding{Type: "uri", Value: "http://www.wikidata.org/entity/" + id}
}

func lit(v string) binding {
	return binding{Type: "literal", Value: v}
}

// fakeWikidata answers the queries placefolk sends for "Pune". broken fails
// every SPARQL query; failPeople fails only the people pages.
type fakeWikidata struct {
	people     []map[string]binding
	broken     bool
	failPeople bool
}

func (f *fakeWikidata) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	write := func(v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	if r.URL.Path == "/w/api.php" {
		hits := []map[string]string{}
		if r.URL.Query().Get("search") == "Pune" {
			hits = append(hits, map[string]string{"id": "Q1538", "label": "Pune", "description": "city in Maharashtra, India"})
		}
		write(map[string]any{"search": hits})
		return
	}

	if f.broken {
		http.Error(w, "query timeout", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query().Get("query")
	if f.failPeople && strings.Contains(q, "?person") {
		http.Error(w, "query timeout", http.StatusInternalServerError)
		return
	}
	rows := []map[string]binding{}
	switch {
	case strings.HasPrefix(strings.TrimSpace(q), "ASK"):
		write(map[string]any{"boolean": strings.Contains(q, "wd:Q1538 ")})
		return
	case strings.Contains(q, "?city"):
		rows = append(rows, map[string]binding{"city": entityURI("Q1538"), "cityLabel": lit("Pune")})
	case strings.Contains(q, "?person") && strings.Contains(q, "OFFSET 0"):
		rows = f.people
	}
	write(map[string]any{"results": map[string]any{"bindings": rows}})
}

func punePeople() []map[string]binding {
	return []map[string]binding{
		{"person": entityURI("Q10"), "personLabel": lit("Zakir Rao"), "birthYear": lit("1950"), "occupationLabel": lit("actor")},
		{"person": entityURI("Q11"), "personLabel": lit("Anita Desai"), "birthYear": lit("1937"), "deathYear": lit("2001"), "occupationLabel": lit("writer")},
		{"person": entityURI("Q12"), "personLabel": lit("Meera Joshi")},
	}
}

// newTestDeps builds dependencies against a fake knowledge base in a
// temporary working directory.
func newTestDeps(t *testing.T, fake *fakeWikidata) *Deps {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	t.Setenv("PLACEFOLK_SPARQL_ENDPOINT", srv.URL+"/sparql")
	t.Setenv("PLACEFOLK_API_ENDPOINT", srv.URL+"/w/api.php")
	t.Setenv("PLACEFOLK_USER_AGENT", "placefolk-test")
	t.Setenv("PLACEFOLK_ADDR", "")

	d, err := buildDeps(t.TempDir(), "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return d
}

func output(t *testing.T, fn func(out io.Writer) error) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := fn(&buf)
	return buf.String(), err
}
