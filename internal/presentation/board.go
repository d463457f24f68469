// Package presentation provides display, overlay, audio and animation adapters
// for running a session without a 3D client.
package presentation

import (
	"strings"
	"sync"

	"example.com/balancetrainer/internal/domain"
)

// FootView is the overlay state of one foot.
type FootView struct {
	Active   bool     `json:"active"`
	Gradient Gradient `json:"gradient"`
}

// View is a copy of everything the board currently shows.
type View struct {
	Countdown   string   `json:"countdown"`
	Instruction string   `json:"instruction"`
	ActiveFoot  string   `json:"active_foot"`
	Left        FootView `json:"left"`
	Right       FootView `json:"right"`
}

// Board collects the countdown and instruction texts and the foot overlay.
// Writers run on the session goroutine; View may be called from anywhere.
type Board struct {
	mu          sync.RWMutex
	view        View
	subscribers []func(View)
}

// NewBoard constructs a board with no active foot and balanced gradients.
func NewBoard() *Board {
	return &Board{view: View{
		ActiveFoot: string(domain.LegNone),
		Left:       FootView{Gradient: Balanced},
		Right:      FootView{Gradient: Balanced},
	}}
}

// Subscribe registers fn to receive the view after every change. Subscribers
// are called synchronously and must not block for long.
func (b *Board) Subscribe(fn func(View)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// View returns the current board contents.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// Countdown returns the last countdown text.
func (b *Board) Countdown() string {
	return b.View().Countdown
}

// Instruction returns the last instruction text.
func (b *Board) Instruction() string {
	return b.View().Instruction
}

// CountdownSink returns the text sink for the countdown channel.
func (b *Board) CountdownSink() *TextChannel {
	return &TextChannel{set: func(v *View, text string) { v.Countdown = text }, board: b}
}

// InstructionSink returns the text sink for the instruction channel.
func (b *Board) InstructionSink() *TextChannel {
	return &TextChannel{set: func(v *View, text string) { v.Instruction = text }, board: b}
}

// SetActiveFoot highlights the standing foot. Anything but left or right
// clears the highlight.
func (b *Board) SetActiveFoot(leg string) {
	active := strings.ToLower(strings.TrimSpace(leg))
	if active != string(domain.LegLeft) && active != string(domain.LegRight) {
		active = string(domain.LegNone)
	}
	b.update(func(v *View) {
		v.ActiveFoot = active
		v.Left.Active = active == string(domain.LegLeft)
		v.Right.Active = active == string(domain.LegRight)
	})
}

// UpdateForZone recolours the reported foot. Reports for an unknown foot are
// ignored.
func (b *Board) UpdateForZone(zone domain.ZoneCode, foot domain.Foot) {
	g := GradientFor(zone)
	b.update(func(v *View) {
		switch foot {
		case domain.FootLeft:
			v.Left.Gradient = g
		case domain.FootRight:
			v.Right.Gradient = g
		case domain.FootBoth:
			v.Left.Gradient = g
			v.Right.Gradient = g
		}
	})
}

func (b *Board) update(mutate func(*View)) {
	b.mu.Lock()
	before := b.view
	mutate(&b.view)
	after := b.view
	subscribers := b.subscribers
	b.mu.Unlock()

	if after == before {
		return
	}
	for _, fn := range subscribers {
		fn(after)
	}
}

// TextChannel is one text line of a Board.
type TextChannel struct {
	board *Board
	set   func(*View, string)
}

// SetText replaces the channel's text.
func (c *TextChannel) SetText(text string) {
	c.board.update(func(v *View) { c.set(v, text) })
}
