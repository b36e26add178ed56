package wikidata

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/placefolk/internal/domain/services"
	"github.com/ersonp/placefolk/internal/infrastructure/config"
)

// TestLive_Wikidata talks to the public endpoints.
// Run with: INTEGRATION_TEST=1 go test ./internal/infrastructure/wikidata -run Live
func TestLive_Wikidata(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("set INTEGRATION_TEST=1 to run against the live knowledge base")
	}

	c, err := NewClient(config.Default().Wikidata)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cands, err := c.SearchEntities(ctx, "Pune")
	require.NoError(t, err)
	require.NotEmpty(t, cands)

	queries := services.QueryBuilder{Country: "Q668", Language: "en", PlaceClass: "Q515"}
	inIndia, err := c.Ask(ctx, queries.Containment(cands[0].ID))
	require.NoError(t, err)
	assert.True(t, inIndia)

	rows, err := c.Select(ctx, queries.People(cands[0].ID, 5, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}
