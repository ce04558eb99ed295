// Package flaggen generates feature flag types and editor scaffolds from
// flagkit markers in Go source or from YAML spec documents.
//
//	f, err := flaggen.New(flaggen.WithInDir("."))
//	if err != nil {
//		return err
//	}
//	res, err := f.Run(ctx)
//
// Run never writes files; see pkg/action/generate for that.
package flaggen

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/flaggen/internal/diag"
	"github.com/cmmoran/flaggen/internal/generator"
	"github.com/cmmoran/flaggen/internal/model"
	"github.com/cmmoran/flaggen/internal/parser"
	"github.com/cmmoran/flaggen/internal/source"
	"github.com/cmmoran/flaggen/internal/spec"
)

// ErrDiagnostics signals that generation finished but raised error
// diagnostics.
var ErrDiagnostics = errors.New("flag declarations have errors")

// OutputSuffix replaces the extension of a source file to name its output.
const OutputSuffix = "_flags.gen.go"

// Output is one generated file.
type Output struct {
	Path   string
	Source string
	// Types lists the generated type names, in declaration order.
	Types []string
	// Content is nil when the source declared nothing to generate.
	Content []byte
}

// Result is the outcome of a Run.
type Result struct {
	Outputs     []*Output
	Diagnostics diag.List
}

// Err returns an error wrapping ErrDiagnostics when any diagnostic is an
// error.
func (r *Result) Err() error {
	if n := len(r.Diagnostics.Errors()); n > 0 {
		return errors.Wrapf(ErrDiagnostics, "%d error(s)", n)
	}
	return nil
}

// Flaggen runs one generation pass.
type Flaggen struct {
	Opts Options

	gen *generator.Generator
	log *zap.SugaredLogger
}

// New builds a Flaggen from functional options applied over NewOptions.
func New(opts ...Option) (*Flaggen, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Flaggen, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	return &Flaggen{
		Opts: *opts,
		gen: generator.New(generator.Config{
			KeyPrefix:     opts.KeyPrefix,
			RuntimeImport: opts.RuntimeImport,
		}),
		log: opts.Logger,
	}, nil
}

// ManifestPath returns Opts.Manifest or, by default, ManifestName in the root
// of the module enclosing the sources.
func (f *Flaggen) ManifestPath() string {
	if f.Opts.Manifest != "" {
		return f.Opts.Manifest
	}
	dir := f.Opts.InDir
	if len(f.Opts.SpecFiles) > 0 {
		dir = filepath.Dir(f.Opts.SpecFiles[0])
	}
	if mod, err := parser.FindModule(dir); err == nil {
		return filepath.Join(mod.Dir, ManifestName)
	}
	return filepath.Join(dir, ManifestName)
}

// Run reads every source, validates it and renders one output per source.
// Diagnostics never make Run fail; check Result.Err.
func (f *Flaggen) Run(ctx context.Context) (*Result, error) {
	units, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	f.log.Debugw("loaded sources", "count", len(units))

	res := &Result{}
	plans, err := f.plan(units, &res.Diagnostics)
	if err != nil {
		return nil, err
	}
	if res.Outputs, err = f.render(ctx, plans); err != nil {
		return nil, err
	}
	res.Diagnostics.Sort()

	return res, nil
}

func (f *Flaggen) load(ctx context.Context) ([]*model.Unit, error) {
	if len(f.Opts.SpecFiles) == 0 {
		return parser.New(parser.Config{
			Dir:           f.Opts.InDir,
			Patterns:      f.Opts.Patterns,
			RuntimeImport: f.Opts.RuntimeImport,
			Logger:        f.log,
		}).Parse(ctx)
	}

	units := make([]*model.Unit, 0, len(f.Opts.SpecFiles))
	for _, path := range f.Opts.SpecFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cfg := source.Config{OutDir: f.Opts.OutDir, Package: f.Opts.Package}
		if cfg.OutDir == "" {
			cfg.OutDir = filepath.Dir(path)
		}
		cfg.PkgPath = f.importPath(cfg.OutDir)

		unit, err := source.ReadFile(path, cfg)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].Source < units[j].Source
	})
	return units, nil
}

// importPath resolves the import path of an output directory. Code generated
// outside a module still renders; it just cannot refer to itself by path.
func (f *Flaggen) importPath(dir string) string {
	mod, err := parser.FindModule(dir)
	if err != nil {
		f.log.Debugw("output directory is not in a module", "dir", dir, "error", err)
		return ""
	}
	if !mod.Provides(f.Opts.RuntimeImport) {
		f.log.Warnw("module does not require the runtime package; generated code will not build until it does",
			"module", mod.Path, "runtime_import", f.Opts.RuntimeImport)
	}
	path, err := mod.ImportPath(dir)
	if err != nil {
		f.log.Debugw("cannot resolve import path", "dir", dir, "error", err)
		return ""
	}
	return path
}

type plan struct {
	unit  *model.Unit
	out   string
	decls []*generator.Decl
}

// plan validates every invocation and builds declarations. Identifiers are
// tracked per package: a case that is already declared in the package is
// dropped, and a type whose own names are taken keeps its first declaration.
func (f *Flaggen) plan(units []*model.Unit, diags *diag.List) ([]*plan, error) {
	var (
		plans   = make([]*plan, 0, len(units))
		scopes  = make(map[string]generator.Scope)
		outputs = make(map[string]string)
	)
	for _, u := range units {
		p := &plan{unit: u, out: outputPath(u)}
		if prev, ok := outputs[p.out]; ok {
			return nil, errors.WithHint(
				errors.Newf("%s and %s both generate %s", prev, u.Source, p.out),
				"rename one of the sources or give them different output directories",
			)
		}
		outputs[p.out] = u.Source

		scope := scopes[u.Dir]
		if scope == nil {
			scope = packageScope(u)
			scopes[u.Dir] = scope
		}

		for _, inv := range u.Invocations {
			var decl *generator.Decl
			switch inv.Kind {
			case model.InvocationFlags:
				req, ds := spec.Parse(inv)
				diags.Append(ds)
				decl, ds = f.gen.TypeDecl(req, scope)
				diags.Append(ds)
			case model.InvocationEditor:
				req, ds := spec.ParseEditor(inv)
				diags.Append(ds)
				decl = f.gen.EditorDecl(req)
			}
			if decl == nil {
				continue
			}
			if id, taken := firstTaken(scope, decl.Idents); taken {
				f.log.Debugw("declaration skipped", "type", decl.Name, "ident", id, "declared_by", scope[id])
				diags.Addf(inv.Pos, spec.LabelEnumName, diag.TypeCollision, id)
				continue
			}
			scope.Declare(decl)
			p.decls = append(p.decls, decl)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// packageScope seeds a scope with what the hand-written files of u's package
// declare.
func packageScope(u *model.Unit) generator.Scope {
	scope := make(generator.Scope, len(u.Declared)+len(u.Imported))
	for _, id := range u.Imported {
		scope[id] = "an import in package " + u.PkgName
	}
	for _, id := range u.Declared {
		scope[id] = "package " + u.PkgName
	}
	return scope
}

func firstTaken(scope generator.Scope, idents []string) (string, bool) {
	for _, id := range idents {
		if _, ok := scope[id]; ok {
			return id, true
		}
	}
	return "", false
}

// render builds every output on its own worker.
func (f *Flaggen) render(parent context.Context, plans []*plan) ([]*Output, error) {
	taken := make(map[string][]string)
	for _, p := range plans {
		dir := p.unit.Dir
		if _, seeded := taken[dir]; !seeded {
			taken[dir] = append([]string{}, p.unit.Declared...)
		}
		for _, d := range p.decls {
			taken[dir] = append(taken[dir], d.Idents...)
		}
	}

	outputs := make([]*Output, len(plans))
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range plans {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := f.gen.File(generator.Target{
				Path:   p.unit.PkgPath,
				Name:   p.unit.PkgName,
				Source: p.unit.Source,
				Taken:  taken[p.unit.Dir],
			}, p.decls...)
			if err != nil {
				return errors.Wrapf(err, "generate %s", p.out)
			}

			out := &Output{Path: p.out, Source: p.unit.Source, Content: content}
			for _, d := range p.decls {
				out.Types = append(out.Types, d.Name)
			}
			outputs[i] = out
			f.log.Debugw("rendered", "file", p.out, "types", out.Types, "bytes", len(content))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, errors.Wrap(err, "generation cancelled")
	}

	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].Path < outputs[j].Path
	})
	return outputs, nil
}

func outputPath(u *model.Unit) string {
	base := filepath.Base(u.Source)
	return filepath.Join(u.Dir, strings.TrimSuffix(base, filepath.Ext(base))+OutputSuffix)
}
