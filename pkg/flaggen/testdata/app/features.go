package app

import "example.com/app/flagkit"

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
