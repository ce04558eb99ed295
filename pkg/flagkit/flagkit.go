// Package flagkit is the runtime side of flaggen.
//
// It holds the marker types that flaggen scans for in Go source and the Store
// contract that generated accessors read overrides from. A package declares its
// flags with a marker literal and a go:generate directive:
//
//	//go:generate flaggen generate -i .
//
//	var _ = flagkit.Flags{
//		From:      map[string]bool{"newOnboarding": false, "useFastAPI": true},
//		EnumName:  "AppFeature",
//		CaseStyle: flagkit.CamelCase,
//	}
//
//	var _ = flagkit.Editor{EnumName: "AppFeature"}
//
// The markers carry no behavior at run time.
package flagkit

// CaseStyle selects how flag names are turned into case identifiers.
type CaseStyle int

const (
	// CamelCase renders "show debug menu" as showDebugMenu.
	CamelCase CaseStyle = iota
	// PascalCase renders "show debug menu" as ShowDebugMenu.
	PascalCase
	// Verbatim keeps the flag name, replacing illegal characters with underscores.
	Verbatim
)

// Flags declares a generated flag type.
type Flags struct {
	From      map[string]bool
	EnumName  string
	CaseStyle CaseStyle
}

// Editor declares an editor scaffold for an already generated flag type.
type Editor struct {
	EnumName string
}
