package mapper

import (
	"github.com/google/uuid"

	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/pkg/backend"
	"github.com/ginogen/litigium-sub001/pkg/segmentation"
)

type EditorMapper struct{}

func NewEditorMapper() *EditorMapper {
	return &EditorMapper{}
}

func (m *EditorMapper) ParagraphToEntity(p *backend.ParagraphPayload) *entity.Paragraph {
	if p == nil {
		return nil
	}
	return &entity.Paragraph{
		Number:     p.Number,
		Content:    p.Content,
		Category:   p.Category,
		Modified:   p.Modified,
		ModifiedAt: p.ModifiedAt,
	}
}

func (m *EditorMapper) ParagraphsToEntities(payloads []backend.ParagraphPayload) []entity.Paragraph {
	out := make([]entity.Paragraph, 0, len(payloads))
	for i := range payloads {
		if p := m.ParagraphToEntity(&payloads[i]); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// SegmentedToEntities lifts the local fallback segmentation into the same
// entity shape the server produces. Locally derived paragraphs are never
// marked modified: that verdict belongs to the server.
func (m *EditorMapper) SegmentedToEntities(paragraphs []segmentation.Paragraph) []entity.Paragraph {
	out := make([]entity.Paragraph, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, entity.Paragraph{
			Number:   p.Number,
			Content:  p.Content,
			Category: p.Category,
		})
	}
	return out
}

func (m *EditorMapper) HistoryEntryToEntity(p *backend.HistoryEntryPayload) *entity.EditHistoryEntry {
	if p == nil {
		return nil
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		id = uuid.New()
	}
	return &entity.EditHistoryEntry{
		Id:              id,
		Command:         p.Command,
		Operation:       p.Operation,
		ParagraphNumber: p.ParagraphNumber,
		CreatedAt:       p.CreatedAt,
		Success:         p.Success,
		Message:         p.Message,
	}
}

func (m *EditorMapper) HistoryToEntities(payloads []backend.HistoryEntryPayload) []entity.EditHistoryEntry {
	out := make([]entity.EditHistoryEntry, 0, len(payloads))
	for i := range payloads {
		if e := m.HistoryEntryToEntity(&payloads[i]); e != nil {
			out = append(out, *e)
		}
	}
	return out
}
