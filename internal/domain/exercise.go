// Package domain defines the exercise, feedback and session types shared by the
// balance-training components.
package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidConfig marks a configuration with negative durations.
var ErrInvalidConfig = errors.New("invalid exercise config")

// Leg designates the standing leg of a single-leg-stance exercise.
type Leg string

const (
	LegLeft  Leg = "left"
	LegRight Leg = "right"
	// LegNone is only used for the overlay when no foot is active.
	LegNone Leg = "none"
)

// ParseLeg reads a leg designator case-insensitively. Anything other than
// "right" is treated as the left leg.
func ParseLeg(value string) Leg {
	if strings.EqualFold(strings.TrimSpace(value), string(LegRight)) {
		return LegRight
	}
	return LegLeft
}

// Range is a closed interval on one centre-of-pressure axis. The JSON shape
// matches the two-component vectors sent by the headset client.
type Range struct {
	Min float64 `json:"x"`
	Max float64 `json:"y"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ZoneSequenceItem describes the acceptable and unsafe regions for one slice of
// an exercise.
type ZoneSequenceItem struct {
	Duration   int   `json:"duration"`
	GreenZoneX Range `json:"green_zone_x"`
	GreenZoneY Range `json:"green_zone_y"`
	RedZoneX   Range `json:"red_zone_x"`
	RedZoneY   Range `json:"red_zone_y"`
}

// ExerciseConfig is the per-exercise parameter set. Durations are whole seconds.
type ExerciseConfig struct {
	ID             int                `json:"id"`
	Name           string             `json:"name"`
	LegsUsed       string             `json:"legs_used"`
	Intro          int                `json:"intro"`
	Demo           int                `json:"demo"`
	PreparationCop int                `json:"preparation_cop"`
	TimingCop      int                `json:"timing_cop"`
	Release        int                `json:"release"`
	Switch         int                `json:"switch"`
	Sets           int                `json:"sets"`
	ZoneSequence   []ZoneSequenceItem `json:"zone_sequence"`
}

// Leg returns the standing leg for the exercise.
func (c ExerciseConfig) Leg() Leg {
	return ParseLeg(c.LegsUsed)
}

// Validate reports negative durations. Any integer ID is valid. A running
// session tolerates negative values, since Seconds treats them as zero.
func (c ExerciseConfig) Validate() error {
	durations := map[string]int{
		"intro":           c.Intro,
		"demo":            c.Demo,
		"preparation_cop": c.PreparationCop,
		"timing_cop":      c.TimingCop,
		"release":         c.Release,
		"switch":          c.Switch,
	}
	for name, value := range durations {
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	for i, item := range c.ZoneSequence {
		if item.Duration < 0 {
			return fmt.Errorf("%w: zone_sequence[%d] duration must not be negative", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Clone returns a deep copy so stored configurations are never aliased.
func (c ExerciseConfig) Clone() ExerciseConfig {
	out := c
	if c.ZoneSequence != nil {
		out.ZoneSequence = make([]ZoneSequenceItem, len(c.ZoneSequence))
		copy(out.ZoneSequence, c.ZoneSequence)
	}
	return out
}

// maxSeconds is the largest whole-second count a time.Duration can hold.
const maxSeconds = int64(math.MaxInt64 / int64(time.Second))

// Seconds converts a whole-second duration field to a time.Duration.
// Negative values yield zero and values beyond the Duration range saturate.
func Seconds(n int) time.Duration {
	switch {
	case n <= 0:
		return 0
	case int64(n) >= maxSeconds:
		return time.Duration(maxSeconds) * time.Second
	}
	return time.Duration(n) * time.Second
}

// DefaultExercises returns the two single-leg-stance configurations used when
// the session runs without a connected client.
func DefaultExercises() []ExerciseConfig {
	return []ExerciseConfig{
		{
			ID:             1,
			Name:           "Single-Leg Stance - Right Leg",
			LegsUsed:       string(LegRight),
			Intro:          1,
			Demo:           3,
			PreparationCop: 3,
			TimingCop:      3,
			Release:        3,
			Switch:         3,
			Sets:           2,
			ZoneSequence: []ZoneSequenceItem{{
				Duration:   30,
				GreenZoneX: Range{Min: -1, Max: 1},
				GreenZoneY: Range{Min: -1, Max: 1},
				RedZoneX:   Range{Min: -2, Max: -1},
				RedZoneY:   Range{Min: -6, Max: -1.1},
			}},
		},
		{
			ID:             2,
			Name:           "Single-Leg Stance - Left Leg",
			LegsUsed:       string(LegLeft),
			Intro:          1,
			Demo:           3,
			PreparationCop: 3,
			TimingCop:      3,
			Release:        3,
			Switch:         3,
			Sets:           2,
			ZoneSequence: []ZoneSequenceItem{{
				Duration:   30,
				GreenZoneX: Range{Min: -1, Max: 1},
				GreenZoneY: Range{Min: -1, Max: 1},
				RedZoneX:   Range{Min: 1, Max: 2},
				RedZoneY:   Range{Min: -6, Max: -1.1},
			}},
		},
	}
}
