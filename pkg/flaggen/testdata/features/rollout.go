package features

import "github.com/cmmoran/flaggen/pkg/flagkit"

// useFastAPI is already a case of AppFeature, so Rollout only gets beta.
var _ = flagkit.Flags{
	From:      map[string]bool{"beta": true, "useFastAPI": false},
	EnumName:  "Rollout",
	CaseStyle: flagkit.CamelCase,
}
