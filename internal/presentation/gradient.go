package presentation

import "example.com/balancetrainer/internal/domain"

// Color of one edge of a foot indicator.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
)

// Gradient colours the four edges of a foot indicator. A red edge points the
// subject away from that side.
type Gradient struct {
	Left   Color `json:"left"`
	Right  Color `json:"right"`
	Top    Color `json:"top"`
	Bottom Color `json:"bottom"`
}

// Balanced is the all-green gradient.
var Balanced = Gradient{Left: Green, Right: Green, Top: Green, Bottom: Green}

// GradientFor returns the edge colours for a zone code. Unknown codes render
// as balanced.
func GradientFor(zone domain.ZoneCode) Gradient {
	g := Balanced
	switch zone {
	case domain.ZoneCorrection, domain.ZoneBalanceLost:
		g = Gradient{Left: Red, Right: Red, Top: Red, Bottom: Red}
	case domain.ZoneShiftForward:
		g.Bottom = Red
	case domain.ZoneShiftBackward:
		g.Top = Red
	case domain.ZoneShiftRight:
		g.Right = Red
	case domain.ZoneShiftLeft:
		g.Left = Red
	}
	return g
}
