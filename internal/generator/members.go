package generator

import (
	"fmt"
	"sort"

	"github.com/cmmoran/flaggen/internal/diag"
	"github.com/cmmoran/flaggen/internal/model"
	"github.com/cmmoran/flaggen/internal/naming"
)

// Members maps the flags of req to generated cases, ordered by source name.
//
// When two flags map to the same identifier the one that sorts first keeps it
// and every later one is dropped with a CaseCollision diagnostic. Identifiers
// that would shadow the generated type or its helpers, or anything already in
// scope, are rejected the same way. scope may be nil.
func (g *Generator) Members(req model.Request, scope Scope) (model.Members, diag.List) {
	flags := make([]model.FlagSpec, len(req.Flags))
	copy(flags, req.Flags)
	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Name < flags[j].Name
	})

	reserved := namesFor(TypeName(req.TypeName)).reserved()

	var (
		diags diag.List
		out   = make(model.Members, 0, len(flags))
		owner = make(map[string]string, len(flags))
	)
	for _, f := range flags {
		id := naming.Identifier(f.Name, req.CaseStyle)
		if prev, taken := owner[id]; taken {
			diags.Addf(f.Pos, f.Name, diag.CaseCollision,
				fmt.Sprintf("%q and %q both become %s; keeping %q", prev, f.Name, id, prev))
			continue
		}
		if reserved[id] {
			diags.Addf(f.Pos, f.Name, diag.CaseCollision,
				fmt.Sprintf("%q becomes %s, which names generated code", f.Name, id))
			continue
		}
		if by, declared := scope[id]; declared {
			diags.Addf(f.Pos, f.Name, diag.CaseCollision,
				fmt.Sprintf("%q becomes %s, which is already declared by %s", f.Name, id, by))
			continue
		}
		owner[id] = f.Name
		out = append(out, &model.Member{
			Ident:   id,
			Source:  f.Name,
			Default: f.Default,
			Key:     g.cfg.KeyPrefix + id,
			Label:   naming.Label(id),
			Pos:     f.Pos,
		})
	}

	return out, diags
}
