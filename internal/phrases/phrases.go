// Package phrases holds the instruction texts shown to the subject, registered
// as message catalogs per language.
package phrases

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"example.com/balancetrainer/internal/domain"
)

// Key identifies one instruction text.
type Key string

const (
	StatusBypass    Key = "status.bypass"
	StatusWaiting   Key = "status.waiting"
	StatusConnected Key = "status.connected"

	IntroWelcome Key = "intro.welcome"
	DemoTitle    Key = "demo.title"

	PrepGetReady   Key = "prep.get_ready"
	PrepStandLeft  Key = "prep.stand_left"
	PrepStandRight Key = "prep.stand_right"

	HoldBalance Key = "hold.balance"
	HoldRestart Key = "hold.restart"

	ReleaseBothFeet Key = "release.both_feet"
	SwitchLeft      Key = "switch.left"
	SwitchRight     Key = "switch.right"
	NextExercise    Key = "exec.next_exercise"
	SessionComplete Key = "session.complete"

	ZoneUnknown Key = "zone.unknown"
)

var zoneKeys = map[domain.ZoneCode]Key{
	domain.ZoneBalanced:      "zone.1",
	domain.ZoneCorrection:    "zone.2",
	domain.ZoneShiftForward:  "zone.3",
	domain.ZoneShiftBackward: "zone.4",
	domain.ZoneShiftRight:    "zone.5",
	domain.ZoneShiftLeft:     "zone.6",
	domain.ZoneBalanceLost:   "zone.7",
}

// ZoneKey returns the key of the corrective instruction for a zone code.
func ZoneKey(zone domain.ZoneCode) Key {
	if key, ok := zoneKeys[zone]; ok {
		return key
	}
	return ZoneUnknown
}

var supportedTags = []language.Tag{
	language.English,
	language.Latvian,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Catalog renders instruction texts for one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a catalog for the best supported match of locale. Unknown or
// malformed locales fall back to English.
func New(locale string) *Catalog {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, index, confidence := tagMatcher.Match(parsed)
		if confidence != language.No {
			tag = supportedTags[index]
		}
	}
	return &Catalog{tag: tag, printer: message.NewPrinter(tag)}
}

// Language returns the resolved language tag.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Text returns the instruction for key.
func (c *Catalog) Text(key Key) string {
	return c.printer.Sprintf(string(key))
}
