package models

// Mode is a short game mode code
type Mode string

const (
	ModeTurfWar      Mode = "TW"
	ModeSplatZones   Mode = "SZ"
	ModeTowerControl Mode = "TC"
	ModeRainmaker    Mode = "RM"
	ModeClamBlitz    Mode = "CB"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	switch m {
	case ModeTurfWar, ModeSplatZones, ModeTowerControl, ModeRainmaker, ModeClamBlitz:
		return true
	}
	return false
}
