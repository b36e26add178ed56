// Package remotecall detects knowledge-base calls inside loops.
//
// Every such call is a network round trip. Loops that page through results
// one request at a time on purpose are marked with a directive comment on
// the line above the loop:
//
//	//placefolk:sequential
//	for { ... }
package remotecall

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Directive exempts the loop that follows it.
const Directive = "//placefolk:sequential"

// Analyzer detects knowledge-base and cache-fill calls inside unmarked loops.
var Analyzer = &analysis.Analyzer{
	Name:     "remotecall",
	Doc:      "detects knowledge-base calls inside loops not marked " + Directive,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// remoteMethods are method names that reach the knowledge base.
var remoteMethods = map[string]bool{
	// KnowledgeBase interface
	"SearchEntities": true,
	"Ask":            true,
	"Select":         true,
	// Cache.GetOrCompute runs its compute function on a miss
	"GetOrCompute": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	exempt := directiveLines(pass)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		pos := pass.Fset.Position(n.Pos())
		if exempt[lineKey{pos.Filename, pos.Line - 1}] {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Nested closures run later, not per iteration.
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if remoteMethods[sel.Sel.Name] {
				pass.Reportf(call.Pos(),
					"%s called inside loop - batch it or mark the loop %s",
					sel.Sel.Name, Directive)
			}

			return true
		})
	})

	return nil, nil
}

type lineKey struct {
	file string
	line int
}

// directiveLines returns the lines holding the exemption directive.
func directiveLines(pass *analysis.Pass) map[lineKey]bool {
	lines := make(map[lineKey]bool)
	for _, f := range pass.Files {
		for _, group := range f.Comments {
			for _, c := range group.List {
				if strings.HasPrefix(c.Text, Directive) {
					lines[key(pass.Fset, c.Pos())] = true
				}
			}
		}
	}
	return lines
}

func key(fset *token.FileSet, p token.Pos) lineKey {
	pos := fset.Position(p)
	return lineKey{pos.Filename, pos.Line}
}
