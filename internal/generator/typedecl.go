package generator

import (
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/flaggen/internal/diag"
	"github.com/cmmoran/flaggen/internal/model"
)

// TypeDecl builds the flag type for req. Flags whose identifier is already in
// scope are dropped. It returns a nil Decl when the request has no flags or
// every flag was dropped.
func (g *Generator) TypeDecl(req model.Request, scope Scope) (*Decl, diag.List) {
	if len(req.Flags) == 0 {
		return nil, nil
	}

	members, diags := g.Members(req, scope)
	if len(members) == 0 {
		return nil, diags
	}

	t := &typeDecl{
		cfg:     g.cfg,
		names:   namesFor(TypeName(req.TypeName)),
		members: members,
		source:  filepath.Base(req.Source),
	}
	t.recv = t.receiverName()

	idents := []string{t.names.Type, t.names.All}
	for _, m := range members {
		idents = append(idents, m.Ident)
	}
	return &Decl{Name: t.names.Type, Idents: idents, Statements: t.decls()}, diags
}

type typeDecl struct {
	cfg     Config
	names   names
	members model.Members
	recv    string
	source  string
}

// receiverName picks a receiver that does not shadow any case constant.
func (t *typeDecl) receiverName() string {
	r := "f"
	for t.members.Find(r) != nil {
		r += "_"
	}
	return r
}

func (t *typeDecl) decls() []*jen.Statement {
	return []*jen.Statement{
		t.typeSpec(),
		t.consts(),
		t.all(),
		t.defaultValue(),
		t.key(),
		t.label(),
		t.stringer(),
		t.override(),
		t.setOverride(),
		t.clearOverride(),
		t.enabled(),
	}
}

func (t *typeDecl) self() *jen.Statement {
	return jen.Id(t.recv).Id(t.names.Type)
}

func (t *typeDecl) store() *jen.Statement {
	return jen.Id("store").Qual(t.cfg.RuntimeImport, "Store")
}

func (t *typeDecl) typeSpec() *jen.Statement {
	doc := jen.Commentf("%s enumerates the feature flags declared in %s.", t.names.Type, t.source)
	if t.source == "" || t.source == "." {
		doc = jen.Commentf("%s enumerates a set of feature flags.", t.names.Type)
	}
	return doc.Line().Type().Id(t.names.Type).String()
}

func (t *typeDecl) consts() *jen.Statement {
	defs := make([]jen.Code, 0, len(t.members))
	for _, m := range t.members {
		def := jen.Id(m.Ident).Id(t.names.Type).Op("=").Lit(m.Ident)
		if m.Source != m.Ident {
			def = def.Commentf("%q", m.Source)
		}
		defs = append(defs, def)
	}
	return jen.Const().Defs(defs...)
}

func (t *typeDecl) all() *jen.Statement {
	return jen.Commentf("%s returns every %s in declaration order.", t.names.All, t.names.Type).Line().
		Func().Id(t.names.All).Params().Index().Id(t.names.Type).Block(
		jen.Return(jen.Index().Id(t.names.Type).ValuesFunc(func(g *jen.Group) {
			for _, m := range t.members {
				g.Id(m.Ident)
			}
		})),
	)
}

func (t *typeDecl) defaultValue() *jen.Statement {
	return jen.Comment("DefaultValue reports the compiled-in value of the flag.").Line().
		Func().Params(t.self()).Id("DefaultValue").Params().Bool().Block(
		jen.Switch(jen.Id(t.recv)).BlockFunc(func(g *jen.Group) {
			for _, m := range t.members {
				g.Case(jen.Id(m.Ident)).Block(jen.Return(jen.Lit(m.Default)))
			}
		}),
		jen.Return(jen.False()),
	)
}

func (t *typeDecl) key() *jen.Statement {
	return jen.Comment("Key returns the storage key holding the flag's override.").Line().
		Func().Params(t.self()).Id("Key").Params().String().Block(
		jen.Return(jen.Lit(t.cfg.KeyPrefix).Op("+").String().Call(jen.Id(t.recv))),
	)
}

func (t *typeDecl) label() *jen.Statement {
	return jen.Comment("Label returns a human readable name for the flag.").Line().
		Func().Params(t.self()).Id("Label").Params().String().Block(
		jen.Switch(jen.Id(t.recv)).BlockFunc(func(g *jen.Group) {
			for _, m := range t.members {
				g.Case(jen.Id(m.Ident)).Block(jen.Return(jen.Lit(m.Label)))
			}
		}),
		jen.Return(jen.String().Call(jen.Id(t.recv))),
	)
}

func (t *typeDecl) stringer() *jen.Statement {
	return jen.Func().Params(t.self()).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id(t.recv))),
	)
}

func (t *typeDecl) override() *jen.Statement {
	return jen.Comment("Override returns the stored override for the flag. ok is false when none is set.").Line().
		Func().Params(t.self()).Id("Override").Params(t.store()).Params(jen.Id("value").Bool(), jen.Id("ok").Bool()).Block(
		jen.Return(jen.Id("store").Dot("Lookup").Call(jen.Id(t.recv).Dot("Key").Call())),
	)
}

func (t *typeDecl) setOverride() *jen.Statement {
	return jen.Comment("SetOverride stores value as the override for the flag.").Line().
		Func().Params(t.self()).Id("SetOverride").Params(t.store(), jen.Id("value").Bool()).Block(
		jen.Id("store").Dot("Set").Call(jen.Id(t.recv).Dot("Key").Call(), jen.Id("value")),
	)
}

func (t *typeDecl) clearOverride() *jen.Statement {
	return jen.Comment("ClearOverride removes any stored override for the flag.").Line().
		Func().Params(t.self()).Id("ClearOverride").Params(t.store()).Block(
		jen.Id("store").Dot("Delete").Call(jen.Id(t.recv).Dot("Key").Call()),
	)
}

func (t *typeDecl) enabled() *jen.Statement {
	return jen.Comment("Enabled returns the stored override if present, else the default value.").Line().
		Func().Params(t.self()).Id("Enabled").Params(t.store()).Bool().Block(
		jen.If(
			jen.List(jen.Id("value"), jen.Id("ok")).Op(":=").Id(t.recv).Dot("Override").Call(jen.Id("store")),
			jen.Id("ok"),
		).Block(jen.Return(jen.Id("value"))),
		jen.Return(jen.Id(t.recv).Dot("DefaultValue").Call()),
	)
}
