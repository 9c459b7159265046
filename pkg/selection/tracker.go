package selection

import (
	"fmt"
	"strings"
	"sync"
)

// surroundingWindow is the number of runes captured on each side of the
// selection for disambiguation context.
const surroundingWindow = 120

// Tracker is the concrete Provider. It owns the rendered block list and the
// at-most-one active selection over it.
type Tracker struct {
	mu        sync.Mutex
	blocks    []Block
	current   *Context
	protected map[string]struct{}
}

var _ Provider = &Tracker{}

func NewTracker(blocks []Block) *Tracker {
	return &Tracker{
		blocks:    blocks,
		protected: make(map[string]struct{}),
	}
}

// SetDocument replaces the rendered blocks. Any active selection is dropped:
// its offsets pointed into text that no longer exists.
func (t *Tracker) SetDocument(blocks []Block) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blocks = blocks
	t.current = nil
}

// FullText returns the rendered text the selection offsets index into:
// block texts joined by single newlines.
func (t *Tracker) FullText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fullTextLocked()
}

func (t *Tracker) fullTextLocked() string {
	parts := make([]string, len(t.blocks))
	for i, b := range t.blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n")
}

// Select records a selection spanning runes [start, end) of one block and
// derives the global offsets by summing the rune lengths of everything
// rendered before it.
func (t *Tracker) Select(block, start, end int) (Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if block < 0 || block >= len(t.blocks) {
		return Context{}, fmt.Errorf("select: block %d out of range (document has %d)", block, len(t.blocks))
	}
	text := []rune(t.blocks[block].Text)
	if start < 0 || end > len(text) || start >= end {
		return Context{}, fmt.Errorf("select: range [%d,%d) invalid for block of %d runes", start, end, len(text))
	}

	// Global offset: every preceding block contributes its rune length plus
	// the joining newline.
	base := 0
	for i := 0; i < block; i++ {
		base += len([]rune(t.blocks[i].Text)) + 1
	}

	full := []rune(t.fullTextLocked())
	globalStart := base + start
	globalEnd := base + end

	surStart := globalStart - surroundingWindow
	if surStart < 0 {
		surStart = 0
	}
	surEnd := globalEnd + surroundingWindow
	if surEnd > len(full) {
		surEnd = len(full)
	}

	ctx := Context{
		SelectedText:    string(text[start:end]),
		SurroundingText: string(full[surStart:surEnd]),
		Start:           globalStart,
		End:             globalEnd,
		HostTag:         t.blocks[block].Tag,
	}
	t.current = &ctx
	return ctx, nil
}

// Active returns the current selection, if any.
func (t *Tracker) Active() (Context, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Context{}, false
	}
	return *t.current, true
}

// Clear drops the active selection unconditionally.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
}

// Protect marks host regions whose interactions must not clear the
// selection: the selection toolbar, the message composer.
func (t *Tracker) Protect(regions ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range regions {
		t.protected[r] = struct{}{}
	}
}

// Interact reports a user interaction in a named host region. Interactions
// outside protected regions clear the selection, mirroring click-outside
// behavior. Best effort only: the host may re-render at any time.
func (t *Tracker) Interact(region string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.protected[region]; ok {
		return
	}
	t.current = nil
}
