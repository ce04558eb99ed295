package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"github.com/cmmoran/flaggen/internal/model"
)

// converter maps Go syntax onto the raw invocation model. It only looks at
// syntax; nothing is type checked.
type converter struct {
	fset    *token.FileSet
	imports importSet
}

func (c *converter) pos(n ast.Node) token.Position {
	return c.fset.Position(n.Pos())
}

// args turns the elements of a marker literal into arguments. Keyed elements
// are labeled by their key; positional elements have no label.
func (c *converter) args(lit *ast.CompositeLit) []*model.Argument {
	out := make([]*model.Argument, 0, len(lit.Elts))
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			out = append(out, &model.Argument{Value: c.expr(elt), Pos: c.pos(elt)})
			continue
		}
		out = append(out, &model.Argument{
			Label:    types.ExprString(kv.Key),
			HasLabel: true,
			Value:    c.expr(kv.Value),
			Pos:      c.pos(kv),
		})
	}
	return out
}

func (c *converter) expr(e ast.Expr) model.Expr {
	pos := c.pos(e)
	switch e := e.(type) {
	case *ast.ParenExpr:
		return c.expr(e.X)
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			if v, err := strconv.Unquote(e.Value); err == nil {
				return &model.StringLit{Value: v, Pos: pos}
			}
		}
	case *ast.Ident:
		switch e.Name {
		case "true", "false":
			return &model.BoolLit{Value: e.Name == "true", Pos: pos}
		case "nil":
			return &model.Nil{Pos: pos}
		}
		return &model.Symbol{Name: e.Name, Pos: pos}
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok && c.imports.named[x.Name] {
			return &model.Symbol{Name: e.Sel.Name, Pos: pos}
		}
	case *ast.CompositeLit:
		if _, ok := e.Type.(*ast.MapType); ok {
			return c.mapLit(e)
		}
	case *ast.BinaryExpr, *ast.CallExpr:
		if isStringExpr(e) {
			return &model.StringLit{Value: types.ExprString(e), Interpolated: true, Pos: pos}
		}
	}
	return &model.Other{Text: types.ExprString(e), Pos: pos}
}

func (c *converter) mapLit(lit *ast.CompositeLit) *model.MapLit {
	m := &model.MapLit{Entries: make([]*model.MapEntry, 0, len(lit.Elts)), Pos: c.pos(lit)}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			m.Entries = append(m.Entries, &model.MapEntry{
				Key:   &model.Other{Text: "missing key", Pos: c.pos(elt)},
				Value: c.expr(elt),
			})
			continue
		}
		m.Entries = append(m.Entries, &model.MapEntry{Key: c.expr(kv.Key), Value: c.expr(kv.Value)})
	}
	return m
}

// isStringExpr reports whether e builds a string out of more than one literal:
// a + concatenation with a string operand or a fmt.Sprint style call.
func isStringExpr(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return isStringExpr(e.X)
	case *ast.BasicLit:
		return e.Kind == token.STRING
	case *ast.BinaryExpr:
		return e.Op == token.ADD && (isStringExpr(e.X) || isStringExpr(e.Y))
	case *ast.CallExpr:
		sel, ok := e.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok || pkg.Name != "fmt" {
			return false
		}
		switch sel.Sel.Name {
		case "Sprint", "Sprintf", "Sprintln":
			return true
		}
	}
	return false
}
