// Package analyzers provides all custom static analyzers for placefolk.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/placefolk/tools/placefolk-lint/analyzers/ctorloop"
	"github.com/ersonp/placefolk/tools/placefolk-lint/analyzers/remotecall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		remotecall.Analyzer,
		ctorloop.Analyzer,
	}
}
