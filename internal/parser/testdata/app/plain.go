package app

type Settings struct {
	Flags map[string]bool
}

var _ = Settings{Flags: map[string]bool{"notAMarker": true}}
