package sub

import . "example.com/app/flagkit"

var _ = Flags{From: map[string]bool{"beta": true}, CaseStyle: PascalCase}
