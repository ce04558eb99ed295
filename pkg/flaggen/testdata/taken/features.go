package taken

import (
	"strings"

	fk "example.com/taken/flagkit"
)

var _ = fk.Flags{
	From: map[string]bool{
		"beta":     true,
		"darkMode": false,
		"legacy":   false,
		"strings":  true,
	},
	EnumName: "Feature",
}

var _ = strings.ToUpper
