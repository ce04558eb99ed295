package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// ErrNoModule is returned when no go.mod encloses a directory.
var ErrNoModule = errors.New("no go.mod found")

// Module describes the module enclosing a directory.
type Module struct {
	Dir  string
	Path string

	requires []module.Version
	replaces []module.Version
}

// FindModule walks up from dir until it finds go.mod and parses it.
func FindModule(dir string) (*Module, error) {
	modDir, err := findGoModDir(dir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(modDir, "go.mod"))
	if err != nil {
		return nil, errors.Wrap(err, "read go.mod")
	}
	mf, err := modfile.Parse(filepath.Join(modDir, "go.mod"), data, nil)
	if err != nil {
		return nil, errors.Wrap(err, "parse go.mod")
	}
	if mf.Module == nil {
		return nil, errors.Newf("%s/go.mod has no module directive", modDir)
	}

	m := &Module{Dir: modDir, Path: mf.Module.Mod.Path}
	m.requires, m.replaces = parseRequires(mf)
	return m, nil
}

// findGoModDir walks up from dir until it finds go.mod.
func findGoModDir(dir string) (string, error) {
	from, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", dir)
	}
	for {
		if _, err = os.Stat(filepath.Join(from, "go.mod")); err == nil {
			return from, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", errors.Wrapf(ErrNoModule, "searching up from %s", dir)
		}
		from = parent
	}
}

// parseRequires lists the require directives and the targets of replace
// directives.
func parseRequires(mf *modfile.File) ([]module.Version, []module.Version) {
	reqs := make([]module.Version, 0, len(mf.Require))
	for _, r := range mf.Require {
		reqs = append(reqs, r.Mod)
	}
	reps := make([]module.Version, 0, len(mf.Replace))
	for _, r := range mf.Replace {
		reps = append(reps, r.Old)
	}
	return reqs, reps
}

// ImportPath returns the import path of dir, which must lie inside the module.
func (m *Module) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", dir)
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf("%s is outside module %s", dir, m.Path)
	}
	if rel == "." {
		return m.Path, nil
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}

// Provides reports whether importPath resolves inside this module or one of
// the modules it requires or replaces.
func (m *Module) Provides(importPath string) bool {
	if within(importPath, m.Path) {
		return true
	}
	for _, list := range [][]module.Version{m.requires, m.replaces} {
		for _, v := range list {
			if within(importPath, v.Path) {
				return true
			}
		}
	}
	return false
}

func within(importPath, modPath string) bool {
	return importPath == modPath || strings.HasPrefix(importPath, modPath+"/")
}
