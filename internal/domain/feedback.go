package domain

import "strings"

// ZoneCode classifies the centre-of-pressure position reported for a foot.
type ZoneCode int

const (
	ZoneBalanced ZoneCode = iota + 1
	ZoneCorrection
	ZoneShiftForward
	ZoneShiftBackward
	ZoneShiftRight
	ZoneShiftLeft
	ZoneBalanceLost
)

// Valid reports whether the code is one of the seven known zones.
func (z ZoneCode) Valid() bool {
	return z >= ZoneBalanced && z <= ZoneBalanceLost
}

// Foot identifies which foot a zone report refers to.
type Foot string

const (
	FootLeft    Foot = "left"
	FootRight   Foot = "right"
	FootBoth    Foot = "both"
	FootUnknown Foot = "unknown"
)

// ParseFoot reads a foot designator case-insensitively.
func ParseFoot(value string) Foot {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left":
		return FootLeft
	case "right":
		return FootRight
	case "both":
		return FootBoth
	default:
		return FootUnknown
	}
}

// Cue names a fire-and-forget audio prompt.
type Cue string

const (
	CueIntro       Cue = "intro"
	CueDemo        Cue = "demo"
	CuePreparation Cue = "preparation"
	CueReleaseLeg  Cue = "release_leg"
)
