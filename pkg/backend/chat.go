package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// --- Wire types (chat group) ---

type StartSessionResponse struct {
	Success        bool   `json:"success"`
	SessionID      string `json:"session_id"`
	WelcomeMessage string `json:"mensaje_bienvenida,omitempty"`
}

type SelectionPayload struct {
	Text        string `json:"texto"`
	Surrounding string `json:"texto_circundante,omitempty"`
	Start       int    `json:"inicio"`
	End         int    `json:"fin"`
	HostTag     string `json:"etiqueta,omitempty"`
}

type SendMessageRequest struct {
	SessionID string            `json:"session_id"`
	Message   string            `json:"mensaje"`
	Selection *SelectionPayload `json:"contexto_seleccion,omitempty"`
}

type SendMessageResponse struct {
	Success      bool     `json:"success"`
	Reply        string   `json:"respuesta"`
	ShowDownload bool     `json:"mostrar_descarga"`
	ShowPreview  bool     `json:"mostrar_preview"`
	Options      []string `json:"opciones,omitempty"`
}

type MessagePayload struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Content      string    `json:"texto"`
	CreatedAt    time.Time `json:"timestamp"`
	ShowDownload bool      `json:"mostrar_descarga"`
	ShowPreview  bool      `json:"mostrar_preview"`
	Options      []string  `json:"opciones,omitempty"`
}

type MessagesResponse struct {
	Success  bool             `json:"success"`
	Messages []MessagePayload `json:"mensajes"`
}

type SessionPayload struct {
	ID        string     `json:"id"`
	Title     string     `json:"titulo"`
	Folder    string     `json:"carpeta,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type SessionsResponse struct {
	Success  bool             `json:"success"`
	Sessions []SessionPayload `json:"sesiones"`
}

type BulkDeleteRequest struct {
	SessionIDs []string `json:"session_ids"`
}

type BulkDeleteErrorPayload struct {
	SessionID string `json:"session_id"`
	Message   string `json:"error"`
}

type BulkDeleteResponse struct {
	Success      bool                     `json:"success"`
	DeletedCount int                      `json:"deleted_count"`
	Errors       []BulkDeleteErrorPayload `json:"errors,omitempty"`
}

type CategoryCheckResponse struct {
	Success       bool `json:"success"`
	HasDocuments  bool `json:"tiene_documentos"`
	CategoryCount int  `json:"categorias_con_documentos"`
}

// --- Endpoints ---

// StartSession opens a new conversation and returns the server-issued
// session key.
func (c *Client) StartSession(ctx context.Context) (*StartSessionResponse, error) {
	var out StartSessionResponse
	if err := c.postShort(ctx, "/api/chat/iniciar", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage posts one user instruction. Generation can take minutes, so
// this rides the long client.
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	var out SendMessageResponse
	if err := c.postLong(ctx, "/api/chat/mensaje", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Messages fetches the full server-side history of a session.
func (c *Client) Messages(ctx context.Context, sessionID string) (*MessagesResponse, error) {
	var out MessagesResponse
	if err := c.getJSON(ctx, "/api/chat/mensajes/"+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions lists the user's conversations.
func (c *Client) Sessions(ctx context.Context) (*SessionsResponse, error) {
	var out SessionsResponse
	if err := c.getJSON(ctx, "/api/chat/sesiones", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession removes one conversation.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.deleteShort(ctx, "/api/chat/sesion/"+url.PathEscape(sessionID), nil, nil)
}

// MoveSession files a conversation under a folder.
func (c *Client) MoveSession(ctx context.Context, sessionID, folder string) error {
	body := struct {
		Folder string `json:"carpeta"`
	}{Folder: folder}
	return c.putShort(ctx, fmt.Sprintf("/api/chat/sesion/%s/mover", url.PathEscape(sessionID)), body, nil)
}

// BulkDeleteSessions removes several conversations in one call. Partial
// failures do not fail the call: the response carries the count actually
// deleted plus one error entry per rejected id.
func (c *Client) BulkDeleteSessions(ctx context.Context, sessionIDs []string) (*BulkDeleteResponse, error) {
	var out BulkDeleteResponse
	req := BulkDeleteRequest{SessionIDs: sessionIDs}
	if err := c.deleteShort(ctx, "/api/chat/sesiones/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyCategories checks the server-side precondition for starting a chat:
// at least one training category with processed documents.
func (c *Client) VerifyCategories(ctx context.Context) (*CategoryCheckResponse, error) {
	var out CategoryCheckResponse
	if err := c.getJSON(ctx, "/api/chat/verificar-categorias", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
