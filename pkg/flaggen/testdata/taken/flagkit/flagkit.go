package flagkit

type CaseStyle int

const (
	CamelCase CaseStyle = iota
	PascalCase
	Verbatim
)

type Flags struct {
	From      map[string]bool
	EnumName  string
	CaseStyle CaseStyle
}

type Editor struct {
	EnumName string
}
