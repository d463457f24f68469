// Package feedback turns posture zone reports into instructions, overlay
// updates and restart requests.
package feedback

import (
	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/phrases"
	"example.com/balancetrainer/internal/sequence"
)

// Observer is notified of every handled report.
type Observer interface {
	ZoneReported(zone domain.ZoneCode, foot domain.Foot)
}

// Handler applies zone reports to the session. It must run on the same
// goroutine as the sequencer.
type Handler struct {
	State        *domain.SessionState
	Instructions sequence.TextSink
	Overlay      sequence.Overlay
	Audio        sequence.Audio
	Phrases      *phrases.Catalog
	Observer     Observer
}

// OnZoneReport shows the corrective instruction for zone and returns it.
// Codes outside 1..7 yield the unknown-zone text and never request a restart.
func (h *Handler) OnZoneReport(zone domain.ZoneCode, foot domain.Foot) string {
	h.Overlay.UpdateForZone(zone, foot)
	h.Audio.PlayZone(zone)

	text := h.Phrases.Text(phrases.ZoneKey(zone))
	h.Instructions.SetText(text)

	if zone == domain.ZoneBalanceLost {
		h.State.RequestRestart()
	}
	if h.Observer != nil {
		h.Observer.ZoneReported(zone, foot)
	}
	return text
}
