// Package source reads flag declarations from YAML spec documents.
//
// A document is a mapping with an optional package key and any number of
// flags and editor keys:
//
//	package: features
//	flags:
//	  from:
//	    newOnboarding: false
//	    useFastAPI: true
//	  enumName: AppFeature
//	  caseStyle: .camelCase
//	editor:
//	  enumName: AppFeature
//
// An invocation is either a mapping of labels to values or a sequence whose
// single-pair mappings are labeled arguments and whose other items are
// unlabeled. A plain scalar with a leading dot is a symbol, null is the absent
// marker and a string containing ${ is interpolated.
package source

import (
	"bytes"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/flaggen/internal/model"
)

// Document keys.
const (
	KeyPackage = "package"
	KeyFlags   = "flags"
	KeyEditor  = "editor"
)

// Config places the code generated from a spec.
type Config struct {
	// OutDir is the directory the generated file is written to.
	OutDir string
	// Package is the package clause used when the document has no package key.
	Package string
	// PkgPath is the import path of OutDir, if known.
	PkgPath string
}

// ReadFile reads the spec at path.
func ReadFile(path string, cfg Config) (*model.Unit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Read(bytes.NewReader(b), path, cfg)
}

// Read decodes every document in r into one unit. name is used in positions.
func Read(r io.Reader, name string, cfg Config) (*model.Unit, error) {
	unit := &model.Unit{
		Source:  name,
		Dir:     cfg.OutDir,
		PkgName: cfg.Package,
		PkgPath: cfg.PkgPath,
	}
	if unit.Dir == "" {
		unit.Dir = filepath.Dir(name)
	}

	dec := yaml.NewDecoder(r)
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		if err = readDocument(name, &doc, unit); err != nil {
			return nil, err
		}
	}

	if unit.PkgName == "" && len(unit.Invocations) > 0 {
		return nil, errors.WithHint(
			errors.Newf("%s: no package name", name),
			"add a package key to the spec or pass --package",
		)
	}
	for _, inv := range unit.Invocations {
		inv.Package = unit.PkgName
	}
	return unit, nil
}

func readDocument(name string, doc *yaml.Node, unit *model.Unit) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := resolve(doc.Content[0])
	if isNull(root) {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return errors.Newf("%s: document must be a mapping", at(name, root))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case KeyPackage:
			if value.Kind != yaml.ScalarNode || value.Tag != "!!str" || value.Value == "" {
				return errors.Newf("%s: package must be a non-empty string", at(name, value))
			}
			unit.PkgName = value.Value
		case KeyFlags:
			unit.Invocations = append(unit.Invocations, invocation(name, model.InvocationFlags, key, value))
		case KeyEditor:
			unit.Invocations = append(unit.Invocations, invocation(name, model.InvocationEditor, key, value))
		default:
			return errors.WithHint(
				errors.Newf("%s: unknown key %q", at(name, key), key.Value),
				"a spec document takes package, flags and editor",
			)
		}
	}
	return nil
}

func invocation(name string, kind model.InvocationKind, key, value *yaml.Node) *model.Invocation {
	c := converter{file: name}
	return &model.Invocation{
		Kind:   kind,
		Pos:    c.pos(key),
		Args:   c.args(resolve(value)),
		Source: name,
	}
}

type converter struct {
	file string
}

func (c converter) pos(n *yaml.Node) token.Position {
	return token.Position{Filename: c.file, Line: n.Line, Column: n.Column}
}

func (c converter) args(n *yaml.Node) []*model.Argument {
	switch n.Kind {
	case yaml.MappingNode:
		out := make([]*model.Argument, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out = append(out, c.labeled(n.Content[i], n.Content[i+1]))
		}
		return out
	case yaml.SequenceNode:
		out := make([]*model.Argument, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if item.Kind == yaml.MappingNode && len(item.Content) == 2 {
				out = append(out, c.labeled(item.Content[0], item.Content[1]))
				continue
			}
			out = append(out, &model.Argument{Value: c.expr(item), Pos: c.pos(item)})
		}
		return out
	default:
		if isNull(n) {
			return nil
		}
		return []*model.Argument{{Value: c.expr(n), Pos: c.pos(n)}}
	}
}

func (c converter) labeled(key, value *yaml.Node) *model.Argument {
	return &model.Argument{
		Label:    key.Value,
		HasLabel: true,
		Value:    c.expr(value),
		Pos:      c.pos(key),
	}
}

func (c converter) expr(n *yaml.Node) model.Expr {
	n = resolve(n)
	pos := c.pos(n)
	switch n.Kind {
	case yaml.MappingNode:
		m := &model.MapLit{Entries: make([]*model.MapEntry, 0, len(n.Content)/2), Pos: pos}
		for i := 0; i+1 < len(n.Content); i += 2 {
			m.Entries = append(m.Entries, &model.MapEntry{
				Key:   c.expr(n.Content[i]),
				Value: c.expr(n.Content[i+1]),
			})
		}
		return m
	case yaml.SequenceNode:
		return &model.Other{Text: "sequence", Pos: pos}
	case yaml.ScalarNode:
		return c.scalar(n, pos)
	}
	return &model.Other{Text: "unsupported node", Pos: pos}
}

func (c converter) scalar(n *yaml.Node, pos token.Position) model.Expr {
	switch n.ShortTag() {
	case "!!null":
		return &model.Nil{Pos: pos}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return &model.BoolLit{Value: b, Pos: pos}
		}
	case "!!str":
		quoted := n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0
		if !quoted && len(n.Value) > 1 && strings.HasPrefix(n.Value, ".") {
			return &model.Symbol{Name: n.Value[1:], Pos: pos}
		}
		return &model.StringLit{Value: n.Value, Interpolated: strings.Contains(n.Value, "${"), Pos: pos}
	}
	return &model.Other{Text: n.Value, Pos: pos}
}

// resolve follows aliases to the node they point at.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func at(name string, n *yaml.Node) string {
	return token.Position{Filename: name, Line: n.Line, Column: n.Column}.String()
}
