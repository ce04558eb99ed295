package model

import (
	"go/token"
)

// Invocation is one marker call site as written, before validation.
type Invocation struct {
	Kind InvocationKind
	Pos  token.Position
	Args []*Argument

	// Package is the Go package the generated code belongs to.
	Package string
	// Source is the file the invocation was read from.
	Source string
}

type InvocationKind int

const (
	InvocationFlags InvocationKind = iota
	InvocationEditor
)

func (k InvocationKind) String() string {
	switch k {
	case InvocationFlags:
		return "Flags"
	case InvocationEditor:
		return "Editor"
	default:
		return "unknown"
	}
}

// Argument is a single, possibly unlabeled, argument of an invocation.
type Argument struct {
	Label    string // as written; empty when HasLabel is false
	HasLabel bool
	Value    Expr
	Pos      token.Position
}

// Expr is the loosely typed value of an argument. The set of implementations
// is closed: MapLit, StringLit, BoolLit, Symbol, Nil and Other.
type Expr interface {
	Position() token.Position
	exprNode()
}

type MapLit struct {
	Entries []*MapEntry
	Pos     token.Position
}

type MapEntry struct {
	Key   Expr
	Value Expr
}

// StringLit is a string literal. Interpolated is set when the value is built
// from a concatenation or formatting call instead of a single literal.
type StringLit struct {
	Value        string
	Interpolated bool
	Pos          token.Position
}

type BoolLit struct {
	Value bool
	Pos   token.Position
}

// Symbol is a symbolic reference such as flagkit.CamelCase or .camelCase.
type Symbol struct {
	Name string
	Pos  token.Position
}

// Nil is the explicit "absent" marker.
type Nil struct {
	Pos token.Position
}

// Other is any expression the front-end could not classify. Text is a short
// rendering used in diagnostics.
type Other struct {
	Text string
	Pos  token.Position
}

func (e *MapLit) Position() token.Position    { return e.Pos }
func (e *StringLit) Position() token.Position { return e.Pos }
func (e *BoolLit) Position() token.Position   { return e.Pos }
func (e *Symbol) Position() token.Position    { return e.Pos }
func (e *Nil) Position() token.Position       { return e.Pos }
func (e *Other) Position() token.Position     { return e.Pos }

func (*MapLit) exprNode()    {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*Symbol) exprNode()    {}
func (*Nil) exprNode()       {}
func (*Other) exprNode()     {}

// Describe names the shape of e for diagnostics.
func Describe(e Expr) string {
	switch v := e.(type) {
	case *MapLit:
		return "mapping literal"
	case *StringLit:
		if v.Interpolated {
			return "interpolated string"
		}
		return "string literal"
	case *BoolLit:
		return "boolean literal"
	case *Symbol:
		return "symbol " + v.Name
	case *Nil:
		return "nil"
	case *Other:
		if v.Text != "" {
			return v.Text
		}
		return "expression"
	default:
		return "expression"
	}
}

// Unit groups the invocations read from one source. Each unit renders into at
// most one generated file.
type Unit struct {
	// Source is the Go file or spec document the invocations came from.
	Source string
	// Dir is the directory of the package the generated code belongs to.
	Dir     string
	PkgName string
	PkgPath string
	// Declared lists identifiers the package's hand-written files declare at
	// package level.
	Declared []string
	// Imported lists the names those files bind with imports. Generated
	// package level declarations must avoid them too.
	Imported []string

	Invocations []*Invocation
}
