package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/flaggen/internal/model"
)

// EditorDecl builds the editor scaffold for an already generated flag type.
// The type itself is not regenerated or checked; it only has to exist in the
// same package.
func (g *Generator) EditorDecl(req model.EditorRequest) *Decl {
	e := &editorDecl{cfg: g.cfg, names: namesFor(TypeName(req.TypeName))}
	return &Decl{
		Name:       e.names.Editor,
		Idents:     []string{e.names.Editor, e.names.EditorItem, e.names.NewEditor},
		Statements: e.decls(),
	}
}

type editorDecl struct {
	cfg   Config
	names names
}

func (e *editorDecl) decls() []*jen.Statement {
	return []*jen.Statement{
		e.itemType(),
		e.editorType(),
		e.constructor(),
		e.items(),
		e.observe(),
		e.set(),
		e.save(),
		e.reset(),
		e.notify(),
	}
}

func (e *editorDecl) self() *jen.Statement {
	return jen.Id("e").Op("*").Id(e.names.Editor)
}

func (e *editorDecl) itemSlice() *jen.Statement {
	return jen.Index().Id(e.names.EditorItem)
}

func (e *editorDecl) itemType() *jen.Statement {
	return jen.Commentf("%s pairs a %s with its value in a %s.", e.names.EditorItem, e.names.Type, e.names.Editor).Line().
		Type().Id(e.names.EditorItem).Struct(
		jen.Id("Flag").Id(e.names.Type),
		jen.Id("Value").Bool(),
	)
}

func (e *editorDecl) editorType() *jen.Statement {
	return jen.Commentf("%s is an editable list of %s values. Edits stay local until Save.", e.names.Editor, e.names.Type).Line().
		Comment("It is not safe for concurrent use.").Line().
		Type().Id(e.names.Editor).Struct(
		jen.Id("store").Qual(e.cfg.RuntimeImport, "Store"),
		jen.Id("items").Add(e.itemSlice()),
		jen.Id("observers").Index().Func().Params(e.itemSlice()),
	)
}

func (e *editorDecl) constructor() *jen.Statement {
	return jen.Commentf("%s returns an editor seeded from the default values.", e.names.NewEditor).Line().
		Func().Id(e.names.NewEditor).Params(jen.Id("store").Qual(e.cfg.RuntimeImport, "Store")).Op("*").Id(e.names.Editor).Block(
		jen.Id("e").Op(":=").Op("&").Id(e.names.Editor).Values(jen.Dict{jen.Id("store"): jen.Id("store")}),
		jen.Id("e").Dot("Reset").Call(),
		jen.Return(jen.Id("e")),
	)
}

func (e *editorDecl) items() *jen.Statement {
	return jen.Comment("Items returns a copy of the current list.").Line().
		Func().Params(e.self()).Id("Items").Params().Add(e.itemSlice()).Block(
		jen.Return(jen.Append(e.itemSlice().Call(jen.Nil()), jen.Id("e").Dot("items").Op("..."))),
	)
}

func (e *editorDecl) observe() *jen.Statement {
	return jen.Comment("Observe registers fn to be called with the list after every change.").Line().
		Func().Params(e.self()).Id("Observe").Params(jen.Id("fn").Func().Params(e.itemSlice())).Block(
		jen.Id("e").Dot("observers").Op("=").Append(jen.Id("e").Dot("observers"), jen.Id("fn")),
	)
}

func (e *editorDecl) set() *jen.Statement {
	item := jen.Id("e").Dot("items").Index(jen.Id("i"))
	return jen.Comment("Set changes the value of flag in the list. The store is not touched.").Line().
		Func().Params(e.self()).Id("Set").Params(jen.Id("flag").Id(e.names.Type), jen.Id("value").Bool()).Block(
		jen.For(jen.Id("i").Op(":=").Range().Id("e").Dot("items")).Block(
			jen.If(item.Clone().Dot("Flag").Op("==").Id("flag")).Block(
				item.Clone().Dot("Value").Op("=").Id("value"),
				jen.Id("e").Dot("notify").Call(),
				jen.Return(),
			),
		),
	)
}

func (e *editorDecl) save() *jen.Statement {
	flag := jen.Id("item").Dot("Flag")
	return jen.Comment("Save persists every value that differs from its default and clears the").Line().
		Comment("override of every value that matches it.").Line().
		Func().Params(e.self()).Id("Save").Params().Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("item")).Op(":=").Range().Id("e").Dot("items")).Block(
			jen.If(jen.Id("item").Dot("Value").Op("==").Add(flag.Clone().Dot("DefaultValue").Call())).Block(
				flag.Clone().Dot("ClearOverride").Call(jen.Id("e").Dot("store")),
				jen.Continue(),
			),
			flag.Clone().Dot("SetOverride").Call(jen.Id("e").Dot("store"), jen.Id("item").Dot("Value")),
		),
	)
}

func (e *editorDecl) reset() *jen.Statement {
	return jen.Comment("Reset discards unsaved edits and re-seeds the list from the default values.").Line().
		Func().Params(e.self()).Id("Reset").Params().Block(
		jen.Id("flags").Op(":=").Id(e.names.All).Call(),
		jen.Id("e").Dot("items").Op("=").Make(e.itemSlice(), jen.Lit(0), jen.Len(jen.Id("flags"))),
		jen.For(jen.List(jen.Id("_"), jen.Id("flag")).Op(":=").Range().Id("flags")).Block(
			jen.Id("e").Dot("items").Op("=").Append(
				jen.Id("e").Dot("items"),
				jen.Id(e.names.EditorItem).Values(jen.Dict{
					jen.Id("Flag"):  jen.Id("flag"),
					jen.Id("Value"): jen.Id("flag").Dot("DefaultValue").Call(),
				}),
			),
		),
		jen.Id("e").Dot("notify").Call(),
	)
}

func (e *editorDecl) notify() *jen.Statement {
	return jen.Func().Params(e.self()).Id("notify").Params().Block(
		jen.Id("items").Op(":=").Id("e").Dot("Items").Call(),
		jen.For(jen.List(jen.Id("_"), jen.Id("fn")).Op(":=").Range().Id("e").Dot("observers")).Block(
			jen.Id("fn").Call(jen.Id("items")),
		),
	)
}
