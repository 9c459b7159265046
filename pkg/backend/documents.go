package backend

import (
	"context"
	"net/url"
)

// DownloadDocument fetches the generated demanda as a binary blob. The
// filename comes from Content-Disposition when the server sets one.
func (c *Client) DownloadDocument(ctx context.Context, sessionID string) (*Download, error) {
	path := "/api/documents/descargar/" + url.PathEscape(sessionID)
	return c.downloadBlob(ctx, path, "demanda-"+sessionID+".docx")
}
