package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"time"
)

// --- Wire types (training group) ---

type TrainingCategoryPayload struct {
	ID            string `json:"id"`
	Name          string `json:"nombre"`
	Description   string `json:"descripcion,omitempty"`
	DocumentCount int    `json:"documentos_procesados"`
}

type CategoriesResponse struct {
	Success    bool                      `json:"success"`
	Categories []TrainingCategoryPayload `json:"categorias"`
}

type CreateCategoryRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
}

type CreateCategoryResponse struct {
	Success  bool                    `json:"success"`
	Category TrainingCategoryPayload `json:"categoria"`
}

type UploadDocumentResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documento_id"`
	Status     string `json:"estado"`
}

type TrainingDocumentPayload struct {
	ID         string    `json:"id"`
	Filename   string    `json:"nombre_archivo"`
	CategoryID string    `json:"categoria_id"`
	Status     string    `json:"estado"`
	Pages      int       `json:"paginas,omitempty"`
	UploadedAt time.Time `json:"fecha_subida"`
}

type TrainingDocumentsResponse struct {
	Success   bool                      `json:"success"`
	Documents []TrainingDocumentPayload `json:"documentos"`
}

type SearchResultPayload struct {
	DocumentID string  `json:"documento_id"`
	Filename   string  `json:"nombre_archivo"`
	Fragment   string  `json:"fragmento"`
	Score      float64 `json:"score"`
}

type SearchDocumentsResponse struct {
	Success bool                  `json:"success"`
	Results []SearchResultPayload `json:"resultados"`
}

type AnnotateRequest struct {
	DocumentID string `json:"documento_id"`
	Fragment   string `json:"fragmento"`
	Note       string `json:"nota"`
}

type AnnotationPayload struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documento_id"`
	Fragment   string    `json:"fragmento"`
	Note       string    `json:"nota"`
	CreatedAt  time.Time `json:"created_at"`
}

type AnnotateResponse struct {
	Success    bool              `json:"success"`
	Annotation AnnotationPayload `json:"anotacion"`
}

// --- Endpoints ---

// TrainingCategories lists the document categories and their processed
// counts.
func (c *Client) TrainingCategories(ctx context.Context) (*CategoriesResponse, error) {
	var out CategoriesResponse
	if err := c.getJSON(ctx, "/api/training/categorias", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTrainingCategory registers a new category.
func (c *Client) CreateTrainingCategory(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	var out CreateCategoryResponse
	if err := c.postShort(ctx, "/api/training/categorias", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTrainingCategory removes a category and its documents.
func (c *Client) DeleteTrainingCategory(ctx context.Context, categoryID string) error {
	return c.deleteShort(ctx, "/api/training/categorias/"+url.PathEscape(categoryID), nil, nil)
}

// UploadTrainingDocument ships one reference document to a category.
// Processing is asynchronous: the response carries the initial status.
func (c *Client) UploadTrainingDocument(ctx context.Context, categoryID, filename string, file io.Reader) (*UploadDocumentResponse, error) {
	var out UploadDocumentResponse
	err := c.postMultipart(ctx, "/api/training/documentos/upload", func(w *multipart.Writer) error {
		if err := w.WriteField("categoria_id", categoryID); err != nil {
			return err
		}
		part, err := w.CreateFormFile("archivo", filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("copy %s: %w", filename, err)
		}
		return nil
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TrainingDocuments lists uploaded documents, optionally scoped to one
// category.
func (c *Client) TrainingDocuments(ctx context.Context, categoryID string) (*TrainingDocumentsResponse, error) {
	path := "/api/training/documentos"
	if categoryID != "" {
		path += "?categoria_id=" + url.QueryEscape(categoryID)
	}
	var out TrainingDocumentsResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchTrainingDocuments runs a semantic search over processed documents.
func (c *Client) SearchTrainingDocuments(ctx context.Context, query, categoryID string, limit int) (*SearchDocumentsResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if categoryID != "" {
		params.Set("categoria_id", categoryID)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var out SearchDocumentsResponse
	if err := c.getJSON(ctx, "/api/training/documentos/buscar?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnnotateTrainingDocument pins a note to a fragment of a processed
// document.
func (c *Client) AnnotateTrainingDocument(ctx context.Context, req *AnnotateRequest) (*AnnotateResponse, error) {
	var out AnnotateResponse
	if err := c.postShort(ctx, "/api/training/documentos/anotar", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
