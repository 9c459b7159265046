package entity

// SelectionContext captures a text selection over the rendered document at
// the moment a message is sent. Offsets are rune indexes into the full
// rendered text, so they survive re-rendering only as long as the document
// itself does not change.
type SelectionContext struct {
	SelectedText    string
	SurroundingText string
	Start           int
	End             int
	HostTag         string
}
