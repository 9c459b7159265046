package mapper

import (
	"github.com/google/uuid"

	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/pkg/backend"
	"github.com/ginogen/litigium-sub001/pkg/selection"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// MessageToEntity converts one wire message into the local log shape.
// Server ids are opaque; anything that does not parse as a UUID gets a
// fresh local id.
func (m *ChatMapper) MessageToEntity(p *backend.MessagePayload) *entity.ChatMessage {
	if p == nil {
		return nil
	}

	id, err := uuid.Parse(p.ID)
	if err != nil {
		id = uuid.New()
	}

	return &entity.ChatMessage{
		Id:           id,
		Role:         p.Role,
		Content:      p.Content,
		CreatedAt:    p.CreatedAt,
		ShowDownload: p.ShowDownload,
		ShowPreview:  p.ShowPreview,
		Options:      p.Options,
	}
}

func (m *ChatMapper) MessagesToEntities(payloads []backend.MessagePayload) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(payloads))
	for i := range payloads {
		if msg := m.MessageToEntity(&payloads[i]); msg != nil {
			out = append(out, *msg)
		}
	}
	return out
}

func (m *ChatMapper) SessionToEntity(p *backend.SessionPayload) *entity.ChatSession {
	if p == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:        p.ID,
		Title:     p.Title,
		Folder:    p.Folder,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ChatMapper) SessionsToEntities(payloads []backend.SessionPayload) []entity.ChatSession {
	out := make([]entity.ChatSession, 0, len(payloads))
	for i := range payloads {
		if s := m.SessionToEntity(&payloads[i]); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func (m *ChatMapper) BulkDeleteToResult(p *backend.BulkDeleteResponse) *dto.BulkDeleteResult {
	if p == nil {
		return nil
	}
	result := &dto.BulkDeleteResult{DeletedCount: p.DeletedCount}
	for _, e := range p.Errors {
		result.Errors = append(result.Errors, dto.BulkDeleteError{
			SessionId: e.SessionID,
			Message:   e.Message,
		})
	}
	return result
}

// Selection mappers bridge the host-facing tracker type, the local message
// log, and the wire payload.

func (m *ChatMapper) SelectionToEntity(sel selection.Context) *entity.SelectionContext {
	return &entity.SelectionContext{
		SelectedText:    sel.SelectedText,
		SurroundingText: sel.SurroundingText,
		Start:           sel.Start,
		End:             sel.End,
		HostTag:         sel.HostTag,
	}
}

func (m *ChatMapper) SelectionToPayload(sel *entity.SelectionContext) *backend.SelectionPayload {
	if sel == nil {
		return nil
	}
	return &backend.SelectionPayload{
		Text:        sel.SelectedText,
		Surrounding: sel.SurroundingText,
		Start:       sel.Start,
		End:         sel.End,
		HostTag:     sel.HostTag,
	}
}
