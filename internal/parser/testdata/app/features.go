package app

import fk "example.com/app/flagkit"

var _ = fk.Flags{
	From: map[string]bool{
		"useFastAPI":    true,
		"newOnboarding": false,
	},
	EnumName:  "AppFeature",
	CaseStyle: fk.CamelCase,
}

var _ = &fk.Editor{EnumName: "AppFeature"}
