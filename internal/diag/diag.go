// Package diag holds the structured problems raised while reading and
// validating flag declarations.
package diag

import (
	"fmt"
	"go/token"
	"io"
	"sort"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

type Kind int

const (
	MissingLabel Kind = iota
	UnknownArgument
	DuplicateArgument
	InvalidFlagsType
	InvalidFlagKeyNotString
	InvalidFlagKeyInterpolated
	InvalidFlagValueNotBool
	InvalidEnumNameType
	InvalidEnumNameInterpolated
	InvalidCaseStyleType
	UnsupportedCaseStyle
	CaseCollision
	TypeCollision
)

var kindNames = [...]string{
	MissingLabel:                "MissingLabel",
	UnknownArgument:             "UnknownArgument",
	DuplicateArgument:           "DuplicateArgument",
	InvalidFlagsType:            "InvalidFlagsType",
	InvalidFlagKeyNotString:     "InvalidFlagKeyNotString",
	InvalidFlagKeyInterpolated:  "InvalidFlagKeyInterpolated",
	InvalidFlagValueNotBool:     "InvalidFlagValueNotBool",
	InvalidEnumNameType:         "InvalidEnumNameType",
	InvalidEnumNameInterpolated: "InvalidEnumNameInterpolated",
	InvalidCaseStyleType:        "InvalidCaseStyleType",
	UnsupportedCaseStyle:        "UnsupportedCaseStyle",
	CaseCollision:               "CaseCollision",
	TypeCollision:               "TypeCollision",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Severity is fixed per kind: duplicate arguments resolve last-write-wins and
// are only warnings.
func (k Kind) Severity() Severity {
	if k == DuplicateArgument {
		return SeverityWarning
	}
	return SeverityError
}

// Diagnostic is one problem found at a source position.
type Diagnostic struct {
	Pos   token.Position
	Label string // argument label the problem relates to, if any
	Kind  Kind
	// Detail carries the kind-specific payload, e.g. the unsupported style name.
	Detail string
}

func New(pos token.Position, label string, kind Kind, detail string) Diagnostic {
	return Diagnostic{Pos: pos, Label: label, Kind: kind, Detail: detail}
}

func (d Diagnostic) Severity() Severity { return d.Kind.Severity() }

// Message renders a human readable description of d.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case MissingLabel:
		return "argument has no label; expected one of from, enumName, caseStyle"
	case UnknownArgument:
		return fmt.Sprintf("unknown argument %q", d.Label)
	case DuplicateArgument:
		return fmt.Sprintf("argument %q given more than once; the last value is used", d.Label)
	case InvalidFlagsType:
		return fmt.Sprintf("%s must be a mapping literal of flag names to booleans, got %s", d.Label, d.Detail)
	case InvalidFlagKeyNotString:
		return fmt.Sprintf("flag name must be a string literal, got %s", d.Detail)
	case InvalidFlagKeyInterpolated:
		return "flag name must be a plain string literal without interpolation"
	case InvalidFlagValueNotBool:
		return fmt.Sprintf("default value of flag %q must be a boolean literal", d.Detail)
	case InvalidEnumNameType:
		return fmt.Sprintf("%s must be a string literal or nil, got %s", d.Label, d.Detail)
	case InvalidEnumNameInterpolated:
		return fmt.Sprintf("%s must be a plain string literal without interpolation", d.Label)
	case InvalidCaseStyleType:
		return fmt.Sprintf("%s must name one of camelCase, pascalCase, verbatim, got %s", d.Label, d.Detail)
	case UnsupportedCaseStyle:
		return fmt.Sprintf("unsupported case style %q; falling back to camelCase", d.Detail)
	case CaseCollision:
		return fmt.Sprintf("flag names collide on identifier: %s", d.Detail)
	case TypeCollision:
		return fmt.Sprintf("%s is already declared in this package; declaration skipped", d.Detail)
	default:
		return d.Kind.String()
	}
}

// String formats d the way the go toolchain prints positions.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity(), d.Message())
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

func (l *List) Add(d Diagnostic) { *l = append(*l, d) }

func (l *List) Addf(pos token.Position, label string, kind Kind, detail string) {
	l.Add(New(pos, label, kind, detail))
}

func (l *List) Append(other List) { *l = append(*l, other...) }

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity() == SeverityError {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics of kind k are in l.
func (l List) Count(k Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == k {
			n++
		}
	}
	return n
}

func (l List) Errors() List   { return l.filter(SeverityError) }
func (l List) Warnings() List { return l.filter(SeverityWarning) }

func (l List) filter(s Severity) List {
	var out List
	for _, d := range l {
		if d.Severity() == s {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders l by file, line and column. The sort is stable so diagnostics at
// the same position keep the order they were raised in.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i].Pos, l[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Print writes one line per diagnostic.
func (l List) Print(w io.Writer) error {
	for _, d := range l {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
