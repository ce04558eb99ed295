package taken

// legacy predates the generated flags.
const legacy = "on"

var flagkit = map[string]bool{}
