// Package parser finds flagkit marker literals in Go packages and turns them
// into raw invocations.
package parser

import (
	"context"
	"go/ast"
	"go/token"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/flaggen/internal/model"
)

// Marker type names in the runtime package.
const (
	MarkerFlags  = "Flags"
	MarkerEditor = "Editor"
)

// Config controls which packages are scanned.
type Config struct {
	// Dir is the directory patterns are resolved against.
	Dir string
	// Patterns are go list patterns. Defaults to ./...
	Patterns []string
	// RuntimeImport is the import path declaring the marker types.
	RuntimeImport string
	Logger        *zap.SugaredLogger
}

// Parser holds state of a parse run.
type Parser struct {
	cfg  Config
	fset *token.FileSet
	log  *zap.SugaredLogger
}

func New(cfg Config) *Parser {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Parser{cfg: cfg, fset: token.NewFileSet(), log: log}
}

// Parse loads the configured packages and returns one unit per file that
// contains at least one marker literal, ordered by file name. Generated files
// are skipped.
func (p *Parser) Parse(ctx context.Context) ([]*model.Unit, error) {
	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     p.cfg.Dir,
		Fset:    p.fset,
	}, p.cfg.Patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load packages in %s", p.cfg.Dir)
	}

	var loadErr error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			loadErr = errors.CombineErrors(loadErr, errors.Newf("%s", e))
		}
	})
	if loadErr != nil {
		return nil, errors.WithHint(loadErr, "fix the package errors above and run again")
	}

	var units []*model.Unit
	for _, pkg := range pkgs {
		p.log.Debugw("scanning package", "pkg", pkg.PkgPath, "files", len(pkg.Syntax))
		var pkgUnits []*model.Unit
		for _, file := range pkg.Syntax {
			if ast.IsGenerated(file) {
				continue
			}
			if unit := p.collectUnit(pkg, file); unit != nil {
				pkgUnits = append(pkgUnits, unit)
			}
		}
		if len(pkgUnits) == 0 {
			continue
		}
		declared, imported := DeclaredIdents(pkg.Syntax)
		for _, unit := range pkgUnits {
			unit.Declared, unit.Imported = declared, imported
		}
		units = append(units, pkgUnits...)
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].Source < units[j].Source
	})
	return units, nil
}

func (p *Parser) collectUnit(pkg *packages.Package, file *ast.File) *model.Unit {
	imports := p.collectImports(file)
	if imports.empty() {
		return nil
	}

	filename := p.fset.Position(file.Package).Filename
	c := &converter{fset: p.fset, imports: imports}

	var invs []*model.Invocation
	ast.Inspect(file, func(n ast.Node) bool {
		lit, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}
		kind, ok := imports.marker(lit.Type)
		if !ok {
			return true
		}
		invs = append(invs, &model.Invocation{
			Kind:    kind,
			Pos:     c.pos(lit),
			Args:    c.args(lit),
			Package: pkg.Name,
			Source:  filename,
		})
		return false
	})
	if len(invs) == 0 {
		return nil
	}

	p.log.Debugw("found markers", "file", filename, "count", len(invs))
	return &model.Unit{
		Source:      filename,
		Dir:         filepath.Dir(filename),
		PkgName:     pkg.Name,
		PkgPath:     pkg.PkgPath,
		Invocations: invs,
	}
}

// DeclaredIdents returns the package level identifiers of the non-generated
// files and, separately, the names their imports bind. Both are sorted.
func DeclaredIdents(files []*ast.File) (declared, imported []string) {
	decls := make(map[string]bool)
	imports := make(map[string]bool)
	add := func(set map[string]bool, name string) {
		if name != "_" && name != "." {
			set[name] = true
		}
	}
	for _, file := range files {
		if ast.IsGenerated(file) {
			continue
		}
		for _, imp := range file.Imports {
			if imp.Name != nil {
				add(imports, imp.Name.Name)
				continue
			}
			add(imports, path.Base(strings.Trim(imp.Path.Value, `"`)))
		}
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if decl.Recv == nil {
					add(decls, decl.Name.Name)
				}
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						add(decls, spec.Name.Name)
					case *ast.ValueSpec:
						for _, n := range spec.Names {
							add(decls, n.Name)
						}
					}
				}
			}
		}
	}
	return sortedKeys(decls), sortedKeys(imports)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// importSet records the local names under which a file sees the runtime
// package.
type importSet struct {
	named map[string]bool
	dot   bool
}

func (s importSet) empty() bool { return len(s.named) == 0 && !s.dot }

// marker reports which marker type t names, if any.
func (s importSet) marker(t ast.Expr) (model.InvocationKind, bool) {
	var name string
	switch t := t.(type) {
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok || !s.named[x.Name] {
			return 0, false
		}
		name = t.Sel.Name
	case *ast.Ident:
		if !s.dot {
			return 0, false
		}
		name = t.Name
	default:
		return 0, false
	}

	switch name {
	case MarkerFlags:
		return model.InvocationFlags, true
	case MarkerEditor:
		return model.InvocationEditor, true
	default:
		return 0, false
	}
}

func (p *Parser) collectImports(file *ast.File) importSet {
	set := importSet{named: make(map[string]bool)}
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if importPath != p.cfg.RuntimeImport {
			continue
		}
		alias := filepath.Base(importPath)
		if imp.Name != nil {
			alias = imp.Name.Name
		}
		switch alias {
		case "_":
		case ".":
			set.dot = true
		default:
			set.named[alias] = true
		}
	}
	return set
}
