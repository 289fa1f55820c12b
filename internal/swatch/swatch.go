// Package swatch holds the interactive state layered on top of the color
// core: the current color, a short history, and a pinned list that can carry
// generated tint and shade variations.
package swatch

import (
	"fmt"
	"slices"
	"time"

	"github.com/jsvensson/colorswap/internal/color"
	"github.com/tliron/commonlog"
)

const (
	// DefaultMaxHistory is how many recent colors a session remembers.
	DefaultMaxHistory = 6
)

var (
	// DefaultColor is the color a new or reset session starts at.
	DefaultColor = color.RGB{R: 59, G: 30, B: 84}

	// DefaultVariationSteps are the mix factors used for tints and shades.
	DefaultVariationSteps = []float64{0.15, 0.30, 0.45}
)

// Entry is a remembered color.
type Entry struct {
	Hex       string    `json:"hex"`
	RGB       color.RGB `json:"rgb"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Generated bool      `json:"generated,omitempty"`
}

// NewEntry builds an Entry for c stamped at t.
func NewEntry(c color.RGB, t time.Time) Entry {
	return Entry{Hex: c.Hex(), RGB: c, Timestamp: t.UnixMilli()}
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Session is the mutable state around one current color. It is owned by a
// single caller and not safe for concurrent use.
type Session struct {
	current color.Record
	history []Entry
	pinned  []Entry

	maxHistory int
	steps      []float64
	now        func() time.Time
	log        commonlog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithMaxHistory caps the history length. Values below 1 are ignored.
func WithMaxHistory(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithVariationSteps sets the mix factors used by ToggleVariations.
func WithVariationSteps(steps ...float64) Option {
	return func(s *Session) {
		if len(steps) > 0 {
			s.steps = slices.Clone(steps)
		}
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log commonlog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// New returns a session positioned at DefaultColor with empty lists.
func New(opts ...Option) *Session {
	s := &Session{
		current:    color.FromRGB(DefaultColor),
		maxHistory: DefaultMaxHistory,
		steps:      slices.Clone(DefaultVariationSteps),
		now:        time.Now,
		log:        commonlog.GetLogger("colorswap.swatch"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type updateConfig struct {
	skipHistory bool
}

// UpdateOption adjusts a single Update call.
type UpdateOption func(*updateConfig)

// SkipHistory makes Update change the current color without recording it,
// as a picker does while it is being dragged.
func SkipHistory() UpdateOption {
	return func(c *updateConfig) {
		c.skipHistory = true
	}
}

// Update converts value to canonical RGB and makes it the current color.
// Malformed input leaves the session untouched and returns the error.
// Generated variations are dropped whenever the color actually changes.
func (s *Session) Update(model color.Model, value color.Value, opts ...UpdateOption) (color.Record, error) {
	var cfg updateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rgb, err := color.ToRGB(model, value)
	if err != nil {
		s.log.Debugf("ignoring %s update: %s", model, err)
		return color.Record{}, err
	}

	next := color.FromRGB(rgb)
	if next.Hex != s.current.Hex {
		s.dropGenerated()
	}
	s.current = next

	if !cfg.skipHistory {
		s.pushHistory(NewEntry(rgb, s.now()))
	}
	return next, nil
}

func (s *Session) pushHistory(e Entry) {
	if len(s.history) > 0 && s.history[0].Hex == e.Hex {
		return
	}
	s.history = slices.DeleteFunc(s.history, func(old Entry) bool { return old.Hex == e.Hex })
	s.history = slices.Insert(s.history, 0, e)
	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}

// Reset moves the current color back to DefaultColor. History and pinned
// colors are kept.
func (s *Session) Reset() {
	s.current = color.FromRGB(DefaultColor)
}

// Current returns the current record.
func (s *Session) Current() color.Record {
	return s.current
}

// History returns the remembered colors, most recent first.
func (s *Session) History() []Entry {
	return slices.Clone(s.history)
}

// Pinned returns the pinned colors in display order.
func (s *Session) Pinned() []Entry {
	return slices.Clone(s.pinned)
}

// MaxHistory reports the history cap.
func (s *Session) MaxHistory() int {
	return s.maxHistory
}

// VariationSteps reports the mix factors used for variations.
func (s *Session) VariationSteps() []float64 {
	return slices.Clone(s.steps)
}

// ClearHistory forgets every remembered color.
func (s *Session) ClearHistory() {
	s.history = nil
}

// Pin appends the current color to the pinned list unless its hex is
// already there. It reports whether the list changed.
func (s *Session) Pin() bool {
	if s.isPinned(s.current.Hex) {
		return false
	}
	s.pinned = append(s.pinned, NewEntry(s.current.RGB, s.now()))
	return true
}

// Unpin removes the pinned entry with the given hex, in any form ParseHex
// accepts. It reports whether an entry was removed.
func (s *Session) Unpin(hex string) bool {
	c, err := color.ParseHex(hex)
	if err != nil {
		return false
	}
	n := len(s.pinned)
	s.pinned = slices.DeleteFunc(s.pinned, func(e Entry) bool { return e.Hex == c.Hex() })
	return len(s.pinned) != n
}

// Move relocates the pinned entry at index from to index to, shifting the
// entries in between, like dragging a swatch.
func (s *Session) Move(from, to int) error {
	if from < 0 || from >= len(s.pinned) {
		return fmt.Errorf("move: source index %d out of range [0, %d)", from, len(s.pinned))
	}
	if to < 0 || to >= len(s.pinned) {
		return fmt.Errorf("move: target index %d out of range [0, %d)", to, len(s.pinned))
	}
	if from == to {
		return nil
	}
	e := s.pinned[from]
	s.pinned = slices.Delete(s.pinned, from, from+1)
	s.pinned = slices.Insert(s.pinned, to, e)
	return nil
}

// VariationsOpen reports whether generated variations are currently pinned.
func (s *Session) VariationsOpen() bool {
	return slices.ContainsFunc(s.pinned, func(e Entry) bool { return e.Generated })
}

// ToggleVariations removes generated variations if any are pinned; otherwise
// it pins tints then shades of the current color. It returns true when
// variations were added, which is not the case when every one of them is
// already pinned by hand.
func (s *Session) ToggleVariations() bool {
	if s.VariationsOpen() {
		s.dropGenerated()
		return false
	}
	for _, v := range s.Variations() {
		if !s.isPinned(v.Hex) {
			s.pinned = append(s.pinned, v)
		}
	}
	return s.VariationsOpen()
}

// Variations returns the tints followed by the shades of the current color,
// one per variation step, without pinning them.
func (s *Session) Variations() []Entry {
	base := s.current.RGB
	now := s.now()

	vars := make([]Entry, 0, 2*len(s.steps))
	for _, f := range s.steps {
		e := NewEntry(color.Tint(base, f), now)
		e.Generated = true
		vars = append(vars, e)
	}
	for _, f := range s.steps {
		e := NewEntry(color.Shade(base, f), now)
		e.Generated = true
		vars = append(vars, e)
	}

	// identical mixes collapse, first occurrence wins
	seen := make(map[string]bool, len(vars))
	return slices.DeleteFunc(vars, func(e Entry) bool {
		if seen[e.Hex] {
			return true
		}
		seen[e.Hex] = true
		return false
	})
}

// Restore replaces the session state, as loaded from storage. History is
// deduplicated and capped; pinned entries are deduplicated by hex.
func (s *Session) Restore(current color.RGB, history, pinned []Entry) {
	s.current = color.FromRGB(current)
	s.history = nil
	for i := len(history) - 1; i >= 0; i-- {
		s.pushHistory(history[i])
	}
	s.pinned = nil
	for _, e := range pinned {
		if !s.isPinned(e.Hex) {
			s.pinned = append(s.pinned, e)
		}
	}
	s.log.Debugf("restored %s with %d history and %d pinned colors", s.current.Hex, len(s.history), len(s.pinned))
}

func (s *Session) isPinned(hex string) bool {
	return slices.ContainsFunc(s.pinned, func(e Entry) bool { return e.Hex == hex })
}

func (s *Session) dropGenerated() {
	s.pinned = slices.DeleteFunc(s.pinned, func(e Entry) bool { return e.Generated })
}
