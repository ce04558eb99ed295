// Package spec validates raw marker invocations into generation requests.
//
// Validation never stops early: every argument and every flag entry is
// checked on its own, problems are returned as diagnostics next to a
// best-effort request.
package spec

import (
	"go/token"

	"github.com/cmmoran/flaggen/internal/diag"
	"github.com/cmmoran/flaggen/internal/model"
)

// Recognized argument labels.
const (
	LabelFrom      = "from"
	LabelEnumName  = "enumName"
	LabelCaseStyle = "caseStyle"
)

var (
	flagsLabels  = map[string]bool{LabelFrom: true, LabelEnumName: true, LabelCaseStyle: true}
	editorLabels = map[string]bool{LabelEnumName: true}
)

// Parse validates a Flags invocation.
func Parse(inv *model.Invocation) (model.Request, diag.List) {
	req := model.Request{
		CaseStyle: model.CaseCamel,
		Pos:       inv.Pos,
		Package:   inv.Package,
		Source:    inv.Source,
	}
	var diags diag.List

	for _, arg := range labeledArgs(inv.Args, flagsLabels, &diags) {
		switch canonical(arg.Label) {
		case LabelFrom:
			req.Flags = parseFlags(arg, &diags)
		case LabelEnumName:
			req.TypeName = parseEnumName(arg, &diags)
		case LabelCaseStyle:
			req.CaseStyle = parseCaseStyle(arg, &diags)
		}
	}

	return req, diags
}

// ParseEditor validates an Editor invocation, which only takes enumName.
func ParseEditor(inv *model.Invocation) (model.EditorRequest, diag.List) {
	req := model.EditorRequest{
		Pos:     inv.Pos,
		Package: inv.Package,
		Source:  inv.Source,
	}
	var diags diag.List

	for _, arg := range labeledArgs(inv.Args, editorLabels, &diags) {
		req.TypeName = parseEnumName(arg, &diags)
	}

	return req, diags
}

// canonical lowers the first rune so Go field keys (EnumName) and data keys
// (enumName) name the same argument.
func canonical(label string) string {
	return model.LowerFirst(label)
}

// labeledArgs drops unlabeled and unknown arguments, reporting each, and flags
// repeated labels. Repeats are kept in order so the last one wins when applied.
func labeledArgs(args []*model.Argument, allowed map[string]bool, diags *diag.List) []*model.Argument {
	seen := make(map[string]bool, len(allowed))
	out := make([]*model.Argument, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		if !arg.HasLabel {
			diags.Addf(arg.Pos, "", diag.MissingLabel, "")
			continue
		}
		label := canonical(arg.Label)
		if !allowed[label] {
			diags.Addf(arg.Pos, arg.Label, diag.UnknownArgument, "")
			continue
		}
		if seen[label] {
			diags.Addf(arg.Pos, label, diag.DuplicateArgument, "")
		}
		seen[label] = true
		out = append(out, arg)
	}
	return out
}

// parseFlags, parseEnumName and parseCaseStyle return the argument's default
// when the value is invalid, so a later bad occurrence still overwrites an
// earlier good one.
func parseFlags(arg *model.Argument, diags *diag.List) []model.FlagSpec {
	m, ok := arg.Value.(*model.MapLit)
	if !ok {
		diags.Addf(valuePos(arg), LabelFrom, diag.InvalidFlagsType, model.Describe(arg.Value))
		return nil
	}

	flags := make([]model.FlagSpec, 0, len(m.Entries))
	index := make(map[string]int, len(m.Entries))
	for _, entry := range m.Entries {
		fs, ok := parseFlagEntry(entry, diags)
		if !ok {
			continue
		}
		if i, dup := index[fs.Name]; dup {
			diags.Addf(fs.Pos, fs.Name, diag.DuplicateArgument, "")
			flags[i] = fs
			continue
		}
		index[fs.Name] = len(flags)
		flags = append(flags, fs)
	}
	return flags
}

func parseFlagEntry(entry *model.MapEntry, diags *diag.List) (model.FlagSpec, bool) {
	if entry == nil || entry.Key == nil {
		return model.FlagSpec{}, false
	}

	var name string
	switch k := entry.Key.(type) {
	case *model.StringLit:
		if k.Interpolated {
			diags.Addf(k.Pos, LabelFrom, diag.InvalidFlagKeyInterpolated, "")
			return model.FlagSpec{}, false
		}
		name = k.Value
	default:
		diags.Addf(entry.Key.Position(), LabelFrom, diag.InvalidFlagKeyNotString, model.Describe(entry.Key))
		return model.FlagSpec{}, false
	}

	v, ok := entry.Value.(*model.BoolLit)
	if !ok {
		pos := entry.Key.Position()
		if entry.Value != nil {
			pos = entry.Value.Position()
		}
		diags.Addf(pos, LabelFrom, diag.InvalidFlagValueNotBool, name)
		return model.FlagSpec{}, false
	}

	return model.FlagSpec{Name: name, Default: v.Value, Pos: entry.Key.Position()}, true
}

func parseEnumName(arg *model.Argument, diags *diag.List) string {
	switch v := arg.Value.(type) {
	case *model.Nil:
		return ""
	case *model.StringLit:
		if v.Interpolated {
			diags.Addf(v.Pos, LabelEnumName, diag.InvalidEnumNameInterpolated, "")
			return ""
		}
		return v.Value
	default:
		diags.Addf(valuePos(arg), LabelEnumName, diag.InvalidEnumNameType, model.Describe(arg.Value))
		return ""
	}
}

func parseCaseStyle(arg *model.Argument, diags *diag.List) model.CaseStyle {
	sym, ok := arg.Value.(*model.Symbol)
	if !ok {
		diags.Addf(valuePos(arg), LabelCaseStyle, diag.InvalidCaseStyleType, model.Describe(arg.Value))
		return model.CaseCamel
	}
	style, known := model.ParseCaseStyle(sym.Name)
	if !known {
		diags.Addf(sym.Pos, LabelCaseStyle, diag.UnsupportedCaseStyle, sym.Name)
		return model.CaseCamel
	}
	return style
}

func valuePos(arg *model.Argument) token.Position {
	if arg.Value != nil {
		return arg.Value.Position()
	}
	return arg.Pos
}
