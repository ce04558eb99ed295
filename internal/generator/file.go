package generator

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/flaggen/internal/naming"
)

// Target names the package a generated file belongs to.
type Target struct {
	// Path is the import path of the package. It may be empty when unknown.
	Path string
	// Name is the package clause name.
	Name string
	// Source is the file or spec the declarations were derived from.
	Source string
	// Taken lists package level identifiers declared by other files of the
	// package. The runtime import alias avoids them.
	Taken []string
}

// File renders decls into one gofmt'd Go source file. Nil decls are skipped;
// when nothing is left File returns nil and no error.
func (g *Generator) File(target Target, decls ...*Decl) ([]byte, error) {
	var kept []*Decl
	taken := make(map[string]bool)
	for _, id := range target.Taken {
		taken[id] = true
	}
	for _, d := range decls {
		if d == nil || len(d.Statements) == 0 {
			continue
		}
		kept = append(kept, d)
		for _, id := range d.Idents {
			taken[id] = true
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}

	var f *jen.File
	if target.Path != "" {
		f = jen.NewFilePathName(target.Path, target.Name)
	} else {
		f = jen.NewFile(target.Name)
	}
	f.HeaderComment(g.header(target.Source))
	f.ImportAlias(g.cfg.RuntimeImport, runtimeAlias(g.cfg.RuntimeImport, taken))

	for _, d := range kept {
		for _, stmt := range d.Statements {
			f.Add(stmt)
			f.Line()
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Wrapf(err, "render package %s", target.Name)
	}
	return buf.Bytes(), nil
}

func (g *Generator) header(source string) string {
	if source == "" {
		return fmt.Sprintf("Code generated by %s. DO NOT EDIT.", g.cfg.ToolName)
	}
	return fmt.Sprintf("Code generated by %s from %s. DO NOT EDIT.", g.cfg.ToolName, filepath.Base(source))
}

// runtimeAlias picks a local name for the runtime import that no generated
// identifier shadows.
func runtimeAlias(importPath string, taken map[string]bool) string {
	alias := naming.Escape(naming.Sanitize(path.Base(importPath)))
	for taken[alias] {
		alias += "_"
	}
	return alias
}
