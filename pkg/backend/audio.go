package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

type TranscribeResponse struct {
	Success  bool    `json:"success"`
	Text     string  `json:"transcripcion"`
	Duration float64 `json:"duracion,omitempty"`
}

// Transcribe ships an audio blob for speech-to-text. The endpoint path is
// configurable: some deployments route audio through an alternate service.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (*TranscribeResponse, error) {
	var out TranscribeResponse
	err := c.postMultipart(ctx, c.transcribePath, func(w *multipart.Writer) error {
		if language != "" {
			if err := w.WriteField("idioma", language); err != nil {
				return err
			}
		}
		part, err := w.CreateFormFile("audio", filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, audio); err != nil {
			return fmt.Errorf("copy %s: %w", filename, err)
		}
		return nil
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
