package selection

import (
	"strings"
	"testing"
)

func testBlocks() []Block {
	return []Block{
		{Tag: "h1", Text: "DEMANDA LABORAL"},
		{Tag: "p", Text: "PRIMERO: los hechos del caso."},
		{Tag: "p", Text: "SEGUNDO: el derecho aplicable."},
	}
}

func TestSelectGlobalOffsets(t *testing.T) {
	tracker := NewTracker(testBlocks())
	full := tracker.FullText()

	tests := []struct {
		name  string
		block int
		start int
		end   int
	}{
		{"start of first block", 0, 0, 7},
		{"inside second block", 1, 9, 12},
		{"end of last block", 2, 20, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := tracker.Select(tt.block, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			// The computed global offset must index the selected text inside
			// the rendered document.
			rendered := string([]rune(full)[ctx.Start:ctx.End])
			if rendered != ctx.SelectedText {
				t.Errorf("offsets [%d,%d) render %q, selection says %q", ctx.Start, ctx.End, rendered, ctx.SelectedText)
			}
		})
	}
}

func TestSelectStartEqualsRenderedIndex(t *testing.T) {
	tracker := NewTracker(testBlocks())
	full := []rune(tracker.FullText())

	// Selection at rendered index K: "hechos" begins at a known offset.
	k := strings.Index(tracker.FullText(), "hechos")
	ctx, err := tracker.Select(1, 13, 19)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if ctx.Start != k {
		t.Errorf("Start = %d, want rendered index %d", ctx.Start, k)
	}
	if ctx.SelectedText != "hechos" {
		t.Errorf("SelectedText = %q, want %q", ctx.SelectedText, "hechos")
	}
	if ctx.HostTag != "p" {
		t.Errorf("HostTag = %q, want %q", ctx.HostTag, "p")
	}
	if len(ctx.SurroundingText) == 0 || len(ctx.SurroundingText) > len(full) {
		t.Errorf("surrounding text length %d out of bounds", len(ctx.SurroundingText))
	}
}

func TestSelectValidation(t *testing.T) {
	tracker := NewTracker(testBlocks())

	tests := []struct {
		name  string
		block int
		start int
		end   int
	}{
		{"block out of range", 5, 0, 1},
		{"negative block", -1, 0, 1},
		{"negative start", 0, -1, 3},
		{"end past block", 0, 0, 500},
		{"empty range", 0, 3, 3},
		{"inverted range", 0, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tracker.Select(tt.block, tt.start, tt.end); err == nil {
				t.Errorf("Select(%d, %d, %d) succeeded, want error", tt.block, tt.start, tt.end)
			}
		})
	}
	if _, ok := tracker.Active(); ok {
		t.Error("failed selections must not become active")
	}
}

func TestInteractClearsOutsideProtectedRegions(t *testing.T) {
	tracker := NewTracker(testBlocks())
	tracker.Protect("documento", "composer")

	if _, err := tracker.Select(0, 0, 7); err != nil {
		t.Fatalf("Select: %v", err)
	}

	// Interactions inside protected regions keep the selection.
	tracker.Interact("composer")
	if _, ok := tracker.Active(); !ok {
		t.Fatal("interaction in protected region cleared the selection")
	}

	// A click anywhere else mirrors click-outside: selection gone.
	tracker.Interact("sidebar")
	if _, ok := tracker.Active(); ok {
		t.Error("interaction outside protected regions kept the selection")
	}
}

func TestSetDocumentDropsSelection(t *testing.T) {
	tracker := NewTracker(testBlocks())
	if _, err := tracker.Select(1, 0, 7); err != nil {
		t.Fatalf("Select: %v", err)
	}

	tracker.SetDocument([]Block{{Tag: "p", Text: "texto nuevo"}})
	if _, ok := tracker.Active(); ok {
		t.Error("selection survived a document replacement; its offsets are meaningless now")
	}
}

func TestClear(t *testing.T) {
	tracker := NewTracker(testBlocks())
	if _, err := tracker.Select(0, 0, 3); err != nil {
		t.Fatalf("Select: %v", err)
	}
	tracker.Clear()
	if _, ok := tracker.Active(); ok {
		t.Error("Clear left a selection active")
	}
}
