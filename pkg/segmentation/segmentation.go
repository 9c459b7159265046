// Package segmentation derives numbered, categorized paragraphs from raw
// document text. It is the local fallback for documents the server has not
// segmented yet; the wire format mirrors the server's so consumers never see
// two vocabularies.
package segmentation

import "strings"

const (
	CategoryFacts    = "hechos"
	CategoryLaw      = "derecho"
	CategoryPetition = "petitorio"
	CategoryEvidence = "prueba"
	CategoryGeneral  = "general"
)

// Paragraph is one numbered block of a segmented document.
type Paragraph struct {
	Number   int
	Content  string
	Category string
}

// keywordCategories in match order. More specific markers first so a heading
// like "FUNDAMENTOS DE DERECHO" never lands in the facts bucket.
var keywordCategories = []struct {
	keyword  string
	category string
}{
	{"petitorio", CategoryPetition},
	{"derecho", CategoryLaw},
	{"prueba", CategoryEvidence},
	{"hecho", CategoryFacts},
}

// Segment splits text into one paragraph per non-empty line, numbers them
// 1-based and tags each with the legal section its keywords indicate.
// Numbering is derived wholesale from the current text: re-segmenting after
// any change renumbers everything.
func Segment(text string) []Paragraph {
	lines := splitLines(text)
	paragraphs := make([]Paragraph, 0, len(lines))
	for i, line := range lines {
		paragraphs = append(paragraphs, Paragraph{
			Number:   i + 1,
			Content:  line,
			Category: Classify(line),
		})
	}
	return paragraphs
}

// Classify tags one paragraph by keyword match, case-insensitive. Paragraphs
// without a legal marker are general.
func Classify(paragraph string) string {
	lower := strings.ToLower(paragraph)
	for _, kc := range keywordCategories {
		if strings.Contains(lower, kc.keyword) {
			return kc.category
		}
	}
	return CategoryGeneral
}

// splitLines cuts text on newlines. Every non-empty line is its own
// paragraph; blank lines only separate, they never produce one.
func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, raw := range strings.Split(normalized, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
