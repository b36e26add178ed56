// placefolk-lint checks placefolk for knowledge-base calls and expensive
// constructors inside loops.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/placefolk/tools/placefolk-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
