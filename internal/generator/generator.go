// Package generator turns validated requests into Go declarations.
//
// Declarations are built as jennifer statement trees. Identifiers only enter
// through jen.Id after sanitization and string values only through jen.Lit, so
// a flag name can never break the generated syntax.
package generator

import (
	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/flaggen/internal/naming"
)

const (
	DefaultKeyPrefix     = "featureflag."
	DefaultTypeName      = "FeatureFlag"
	DefaultRuntimeImport = "github.com/cmmoran/flaggen/pkg/flagkit"
	DefaultToolName      = "flaggen"
)

// Config controls the shape of generated code.
type Config struct {
	// KeyPrefix is prepended to a case identifier to form its persistence key.
	KeyPrefix string
	// RuntimeImport is the import path of the flagkit runtime package.
	RuntimeImport string
	// ToolName appears in the generated file header.
	ToolName string
}

func (c Config) withDefaults() Config {
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.RuntimeImport == "" {
		c.RuntimeImport = DefaultRuntimeImport
	}
	if c.ToolName == "" {
		c.ToolName = DefaultToolName
	}
	return c
}

// Generator renders requests into declarations and files. It holds no mutable
// state and may be shared between goroutines.
type Generator struct {
	cfg Config
}

func New(cfg Config) *Generator {
	return &Generator{cfg: cfg.withDefaults()}
}

func (g *Generator) Config() Config { return g.cfg }

// TypeName resolves the generated type name for a requested one, falling back
// to DefaultTypeName when none was given.
func TypeName(requested string) string {
	name := naming.Sanitize(requested)
	if requested == "" || name == naming.Placeholder {
		return DefaultTypeName
	}
	return naming.Escape(name)
}

// names holds every package level identifier generated for one type.
type names struct {
	Type       string
	All        string
	Editor     string
	EditorItem string
	NewEditor  string
}

func namesFor(typeName string) names {
	plural := inflection.Plural(typeName)
	n := names{
		Type:       typeName,
		All:        "All" + naming.UpperFirst(plural),
		Editor:     typeName + "Editor",
		EditorItem: typeName + "EditorItem",
		NewEditor:  "New" + naming.UpperFirst(typeName) + "Editor",
	}
	if !naming.Exported(typeName) {
		n.All = "all" + naming.UpperFirst(plural)
		n.NewEditor = "new" + naming.UpperFirst(typeName) + "Editor"
	}
	return n
}

func (n names) reserved() map[string]bool {
	return map[string]bool{
		n.Type:       true,
		n.All:        true,
		n.Editor:     true,
		n.EditorItem: true,
		n.NewEditor:  true,
	}
}

// Scope maps the package level identifiers already declared in one package to
// a description of their declarer, e.g. "type AppFeature".
type Scope map[string]string

// Declare records every identifier of d as declared by d's type.
func (s Scope) Declare(d *Decl) {
	for _, id := range d.Idents {
		s[id] = "type " + d.Name
	}
}

// Decl is a group of package level declarations ready to be rendered.
type Decl struct {
	// Name is the type the declarations are built around.
	Name string
	// Idents lists every package level identifier the declarations introduce.
	Idents     []string
	Statements []*jen.Statement
}

// EditorTypeName returns the editor type generated for a requested type name.
func EditorTypeName(requested string) string {
	return namesFor(TypeName(requested)).Editor
}
