// Package selection tracks the user's text selection over a rendered
// document without knowing anything about the rendering host. Hosts feed it
// block-level interactions; consumers read the active selection through the
// Provider interface.
package selection

// Context is an ephemeral snapshot of one selection. Offsets are rune
// indexes into the tracker's rendered text and stay valid only while the
// document itself does not change.
type Context struct {
	SelectedText    string
	SurroundingText string
	Start           int
	End             int
	HostTag         string
}

// Provider exposes the active selection to consumers. The chat container
// depends on this interface only, never on a concrete host.
type Provider interface {
	Active() (Context, bool)
}

// Block is one rendered unit of the document: a heading, a paragraph, a
// list item. Tag names the host element kind.
type Block struct {
	Tag  string
	Text string
}
