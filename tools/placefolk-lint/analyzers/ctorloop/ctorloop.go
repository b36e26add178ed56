// Package ctorloop detects expensive constructors called inside loops.
package ctorloop

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects regexp, collator and replacer construction inside loops.
var Analyzer = &analysis.Analyzer{
	Name:     "ctorloop",
	Doc:      "detects regexp, collator and replacer construction inside loops",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// constructors maps import paths to the functions that build reusable values.
var constructors = map[string]map[string]bool{
	"regexp": {
		"Compile":          true,
		"MustCompile":      true,
		"CompilePOSIX":     true,
		"MustCompilePOSIX": true,
	},
	"strings": {
		"NewReplacer": true,
	},
	"golang.org/x/text/collate": {
		"New": true,
	},
	"golang.org/x/text/language": {
		"Parse":     true,
		"MustParse": true,
	},
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

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

		ast.Inspect(body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			ident, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}

			pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
			if !ok {
				return true
			}

			path := pkg.Imported().Path()
			if constructors[path][sel.Sel.Name] {
				pass.Reportf(call.Pos(),
					"%s.%s called inside loop - build it once outside the loop",
					pkg.Imported().Name(), sel.Sel.Name)
			}

			return true
		})
	})

	return nil, nil
}
