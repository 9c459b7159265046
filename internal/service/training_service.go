package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ledongthuc/pdf"

	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/pkg/backend"
)

// trainingAPI is the slice of the backend client the training service uses.
type trainingAPI interface {
	TrainingCategories(ctx context.Context) (*backend.CategoriesResponse, error)
	CreateTrainingCategory(ctx context.Context, req *backend.CreateCategoryRequest) (*backend.CreateCategoryResponse, error)
	DeleteTrainingCategory(ctx context.Context, categoryID string) error
	UploadTrainingDocument(ctx context.Context, categoryID, filename string, file io.Reader) (*backend.UploadDocumentResponse, error)
	TrainingDocuments(ctx context.Context, categoryID string) (*backend.TrainingDocumentsResponse, error)
	SearchTrainingDocuments(ctx context.Context, query, categoryID string, limit int) (*backend.SearchDocumentsResponse, error)
	AnnotateTrainingDocument(ctx context.Context, req *backend.AnnotateRequest) (*backend.AnnotateResponse, error)
}

type ITrainingService interface {
	Categories(ctx context.Context) ([]entity.TrainingCategory, error)
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*entity.TrainingCategory, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	// Upload preflights the PDF locally (parseable, has extractable text)
	// before shipping bytes the server would reject anyway.
	Upload(ctx context.Context, input *dto.UploadDocumentInput) (*entity.TrainingDocument, error)
	Documents(ctx context.Context, categoryID string) ([]entity.TrainingDocument, error)
	Search(ctx context.Context, input *dto.SearchInput) ([]dto.SearchResult, error)
	Annotate(ctx context.Context, input *dto.AnnotateInput) (*entity.Annotation, error)
}

type trainingService struct {
	api      trainingAPI
	validate *validator.Validate
	logger   logger.ILogger
}

var _ ITrainingService = &trainingService{}

func NewTrainingService(api trainingAPI, validate *validator.Validate, sysLogger logger.ILogger) ITrainingService {
	return &trainingService{api: api, validate: validate, logger: sysLogger}
}

func (s *trainingService) Categories(ctx context.Context) ([]entity.TrainingCategory, error) {
	resp, err := s.api.TrainingCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]entity.TrainingCategory, 0, len(resp.Categories))
	for _, c := range resp.Categories {
		categories = append(categories, entity.TrainingCategory{
			Id:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			DocumentCount: c.DocumentCount,
		})
	}
	return categories, nil
}

func (s *trainingService) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*entity.TrainingCategory, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	resp, err := s.api.CreateTrainingCategory(ctx, &backend.CreateCategoryRequest{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}
	return &entity.TrainingCategory{
		Id:          resp.Category.ID,
		Name:        resp.Category.Name,
		Description: resp.Category.Description,
	}, nil
}

func (s *trainingService) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.api.DeleteTrainingCategory(ctx, categoryID)
}

func (s *trainingService) Upload(ctx context.Context, input *dto.UploadDocumentInput) (*entity.TrainingDocument, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	pages, err := preflightPDF(input.Path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(input.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", input.Path, err)
	}
	defer file.Close()

	filename := filepath.Base(input.Path)
	resp, err := s.api.UploadTrainingDocument(ctx, input.CategoryId, filename, file)
	if err != nil {
		return nil, err
	}

	s.logger.Info("TRAINING", "document uploaded", map[string]interface{}{
		"documento": resp.DocumentID,
		"categoria": input.CategoryId,
		"paginas":   pages,
	})
	return &entity.TrainingDocument{
		Id:         resp.DocumentID,
		Filename:   filename,
		CategoryId: input.CategoryId,
		Status:     resp.Status,
		Pages:      pages,
	}, nil
}

func (s *trainingService) Documents(ctx context.Context, categoryID string) ([]entity.TrainingDocument, error) {
	resp, err := s.api.TrainingDocuments(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	documents := make([]entity.TrainingDocument, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		documents = append(documents, entity.TrainingDocument{
			Id:         d.ID,
			Filename:   d.Filename,
			CategoryId: d.CategoryID,
			Status:     d.Status,
			Pages:      d.Pages,
			UploadedAt: d.UploadedAt,
		})
	}
	return documents, nil
}

func (s *trainingService) Search(ctx context.Context, input *dto.SearchInput) ([]dto.SearchResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	resp, err := s.api.SearchTrainingDocuments(ctx, input.Query, input.CategoryId, input.Limit)
	if err != nil {
		return nil, err
	}
	results := make([]dto.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, dto.SearchResult{
			DocumentId: r.DocumentID,
			Filename:   r.Filename,
			Fragment:   r.Fragment,
			Score:      r.Score,
		})
	}
	return results, nil
}

func (s *trainingService) Annotate(ctx context.Context, input *dto.AnnotateInput) (*entity.Annotation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	resp, err := s.api.AnnotateTrainingDocument(ctx, &backend.AnnotateRequest{
		DocumentID: input.DocumentId,
		Fragment:   input.Fragment,
		Note:       input.Note,
	})
	if err != nil {
		return nil, err
	}
	return &entity.Annotation{
		Id:         resp.Annotation.ID,
		DocumentId: resp.Annotation.DocumentID,
		Fragment:   resp.Annotation.Fragment,
		Note:       resp.Annotation.Note,
		CreatedAt:  resp.Annotation.CreatedAt,
	}, nil
}

// preflightPDF verifies the file parses as a PDF and carries extractable
// text, returning the page count. Scanned-image PDFs are rejected here:
// the server cannot process them either, and the upload is the expensive
// part.
func preflightPDF(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("not a readable PDF: %w", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("%s: PDF has no pages", path)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return 0, fmt.Errorf("extract text from %s: %w", path, err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, io.LimitReader(plain, 4096)); err != nil {
		return 0, fmt.Errorf("extract text from %s: %w", path, err)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return 0, fmt.Errorf("%s: PDF has no extractable text (scanned image?)", path)
	}
	return pages, nil
}
