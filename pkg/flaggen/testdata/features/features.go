// Package features declares flags whose generated code is compiled and
// exercised by the tests next to it.
package features

import "github.com/cmmoran/flaggen/pkg/flagkit"

//go:generate flaggen generate -i . --patterns .

var _ = flagkit.Flags{
	From: map[string]bool{
		"useFastAPI":      true,
		"newOnboarding":   false,
		"Show Debug Menu": false,
	},
	EnumName:  "AppFeature",
	CaseStyle: flagkit.CamelCase,
}

var _ = flagkit.Editor{EnumName: "AppFeature"}
