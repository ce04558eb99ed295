package model

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

type CaseStyle int

const (
	CaseCamel CaseStyle = iota
	CasePascal
	CaseVerbatim
)

func (s CaseStyle) String() string {
	switch s {
	case CaseCamel:
		return "camelCase"
	case CasePascal:
		return "pascalCase"
	case CaseVerbatim:
		return "verbatim"
	default:
		return "unknown"
	}
}

// ParseCaseStyle maps a symbol name to a CaseStyle. The first rune is compared
// case-insensitively so that flagkit.CamelCase and .camelCase both match.
func ParseCaseStyle(name string) (CaseStyle, bool) {
	switch LowerFirst(name) {
	case "camelCase":
		return CaseCamel, true
	case "pascalCase":
		return CasePascal, true
	case "verbatim":
		return CaseVerbatim, true
	default:
		return CaseCamel, false
	}
}

// LowerFirst lowers the first rune of s.
func LowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || unicode.IsLower(r) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToLower(r))
	b.WriteString(s[n:])
	return b.String()
}

// FlagSpec is one validated entry of a flags mapping.
type FlagSpec struct {
	Name    string
	Default bool
	Pos     token.Position
}

// Request is a validated Flags invocation.
type Request struct {
	Flags     []FlagSpec
	TypeName  string // empty when no usable name was supplied
	CaseStyle CaseStyle
	Pos       token.Position
	Package   string
	Source    string
}

// EditorRequest is a validated Editor invocation.
type EditorRequest struct {
	TypeName string
	Pos      token.Position
	Package  string
	Source   string
}

// Member is one generated case, derived from a FlagSpec.
type Member struct {
	Ident   string // case identifier
	Source  string // flag name as declared
	Default bool
	Key     string // persistence key
	Label   string // display label
	Pos     token.Position
}

// Members orders generated cases by their source name.
type Members []*Member

func (x Members) Len() int           { return len(x) }
func (x Members) Less(i, j int) bool { return x[i].Source < x[j].Source }
func (x Members) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

func (x Members) Find(ident string) *Member {
	for _, m := range x {
		if m.Ident == ident {
			return m
		}
	}
	return nil
}
