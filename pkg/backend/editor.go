package backend

import (
	"context"
	"net/url"
	"time"
)

// --- Wire types (editor group) ---

type ParagraphPayload struct {
	Number     int        `json:"numero"`
	Content    string     `json:"contenido"`
	Category   string     `json:"categoria"`
	Modified   bool       `json:"modificado"`
	ModifiedAt *time.Time `json:"fecha_modificacion,omitempty"`
}

type ParagraphsResponse struct {
	Success    bool               `json:"success"`
	Paragraphs []ParagraphPayload `json:"parrafos"`
}

type InitializeEditorRequest struct {
	SessionID string `json:"session_id"`
}

type EditCommandRequest struct {
	SessionID string `json:"session_id"`
	Command   string `json:"comando"`
}

type EditCommandResponse struct {
	Success         bool               `json:"success"`
	Message         string             `json:"message"`
	Operation       string             `json:"operacion"`
	ParagraphNumber *int               `json:"parrafo_numero,omitempty"`
	Paragraphs      []ParagraphPayload `json:"parrafos,omitempty"`
}

type HistoryEntryPayload struct {
	ID              string    `json:"id"`
	Command         string    `json:"comando"`
	Operation       string    `json:"operacion"`
	ParagraphNumber *int      `json:"parrafo_numero,omitempty"`
	CreatedAt       time.Time `json:"timestamp"`
	Success         bool      `json:"exito"`
	Message         string    `json:"mensaje,omitempty"`
}

type HistoryResponse struct {
	Success bool                  `json:"success"`
	Entries []HistoryEntryPayload `json:"historial"`
}

type FullTextResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"texto"`
}

// --- Endpoints ---

// InitializeEditor asks the server to segment the session's document into
// numbered paragraphs. An empty paragraph list is a valid answer: the caller
// falls back to local segmentation.
func (c *Client) InitializeEditor(ctx context.Context, sessionID string) (*ParagraphsResponse, error) {
	var out ParagraphsResponse
	req := InitializeEditorRequest{SessionID: sessionID}
	if err := c.postShort(ctx, "/api/editor/inicializar", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessCommand sends one natural-language edit instruction. Rides the long
// client: the server rewrites the document before answering.
func (c *Client) ProcessCommand(ctx context.Context, req *EditCommandRequest) (*EditCommandResponse, error) {
	var out EditCommandResponse
	if err := c.postLong(ctx, "/api/editor/procesar-comando", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Paragraphs fetches the current server-side segmentation.
func (c *Client) Paragraphs(ctx context.Context, sessionID string) (*ParagraphsResponse, error) {
	var out ParagraphsResponse
	if err := c.getJSON(ctx, "/api/editor/parrafos/"+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the server-side edit command log.
func (c *Client) History(ctx context.Context, sessionID string) (*HistoryResponse, error) {
	var out HistoryResponse
	if err := c.getJSON(ctx, "/api/editor/historial/"+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FullText fetches the whole working document as one string.
func (c *Client) FullText(ctx context.Context, sessionID string) (*FullTextResponse, error) {
	var out FullTextResponse
	if err := c.getJSON(ctx, "/api/editor/texto-completo/"+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
