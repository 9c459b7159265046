package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ginogen/litigium-sub001/internal/constant"
	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/internal/mapper"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/pkg/backend"
	"github.com/ginogen/litigium-sub001/pkg/segmentation"
)

// editorAPI is the slice of the backend client the canvas container uses.
type editorAPI interface {
	InitializeEditor(ctx context.Context, sessionID string) (*backend.ParagraphsResponse, error)
	ProcessCommand(ctx context.Context, req *backend.EditCommandRequest) (*backend.EditCommandResponse, error)
	Paragraphs(ctx context.Context, sessionID string) (*backend.ParagraphsResponse, error)
	History(ctx context.Context, sessionID string) (*backend.HistoryResponse, error)
	FullText(ctx context.Context, sessionID string) (*backend.FullTextResponse, error)
	DownloadDocument(ctx context.Context, sessionID string) (*backend.Download, error)
}

type IEditorService interface {
	// LoadCurrentDocument fetches the full text and replaces local state
	// wholesale. There is no incremental patching.
	LoadCurrentDocument(ctx context.Context, sessionID string) (string, error)
	// InitializeEditor segments the document once per session. Concurrent
	// callers for the same session share a single in-flight call; the local
	// line-based segmentation kicks in when the server has none.
	InitializeEditor(ctx context.Context, sessionID string) error
	// ProcessEditCommand ships one natural-language instruction and appends
	// exactly one history entry whatever the verdict. The absorbed failure
	// classes come back inside the result, never as an error.
	ProcessEditCommand(ctx context.Context, input *dto.EditCommandInput, sessionID string) *dto.EditCommandResult
	History(ctx context.Context, sessionID string) ([]entity.EditHistoryEntry, error)
	// DownloadDocument writes the generated file into dir and returns its
	// path. Pure I/O: no container state changes.
	DownloadDocument(ctx context.Context, sessionID, dir string) (string, error)
	Paragraphs() []entity.Paragraph
	DocumentText() string
	LocalHistory() []entity.EditHistoryEntry
}

type editorService struct {
	api      editorAPI
	mapper   *mapper.EditorMapper
	validate *validator.Validate
	logger   logger.ILogger

	mu           sync.Mutex
	sessionID    string
	documentText string
	paragraphs   []entity.Paragraph
	history      []entity.EditHistoryEntry
	initialized  bool
	sf           singleflight.Group
}

var _ IEditorService = &editorService{}

func NewEditorService(
	api editorAPI,
	editorMapper *mapper.EditorMapper,
	validate *validator.Validate,
	sysLogger logger.ILogger,
) IEditorService {
	return &editorService{
		api:      api,
		mapper:   editorMapper,
		validate: validate,
		logger:   sysLogger,
	}
}

func (s *editorService) LoadCurrentDocument(ctx context.Context, sessionID string) (string, error) {
	resp, err := s.api.FullText(ctx, sessionID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSessionLocked(sessionID)
	s.documentText = resp.Text
	return resp.Text, nil
}

func (s *editorService) InitializeEditor(ctx context.Context, sessionID string) error {
	// One flight per session key: a second caller arriving while the first
	// is in the air waits for the same result instead of racing a flag.
	_, err, _ := s.sf.Do("editor-init:"+sessionID, func() (interface{}, error) {
		// The guard only holds for the session the slot currently serves:
		// switching sessions wipes the slot, so a switch back must refetch.
		s.mu.Lock()
		done := s.initialized && s.sessionID == sessionID
		s.mu.Unlock()
		if done {
			return nil, nil
		}
		return nil, s.doInitialize(ctx, sessionID)
	})
	return err
}

func (s *editorService) doInitialize(ctx context.Context, sessionID string) error {
	resp, err := s.api.InitializeEditor(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("initialize editor: %w", err)
	}

	var paragraphs []entity.Paragraph
	if len(resp.Paragraphs) > 0 {
		paragraphs = s.mapper.ParagraphsToEntities(resp.Paragraphs)
	} else {
		// The server has no segmentation yet: derive one locally from the
		// full text so the canvas is never empty.
		full, err := s.api.FullText(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("load document for local segmentation: %w", err)
		}
		paragraphs = s.mapper.SegmentedToEntities(segmentation.Segment(full.Text))

		s.mu.Lock()
		s.setSessionLocked(sessionID)
		s.documentText = full.Text
		s.mu.Unlock()

		s.logger.Info("EDITOR", "local segmentation fallback", map[string]interface{}{
			"session_id": sessionID,
			"paragraphs": len(paragraphs),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSessionLocked(sessionID)
	s.paragraphs = paragraphs
	s.initialized = true
	return nil
}

func (s *editorService) ProcessEditCommand(ctx context.Context, input *dto.EditCommandInput, sessionID string) *dto.EditCommandResult {
	if err := s.validate.Struct(input); err != nil {
		return &dto.EditCommandResult{Success: false, Message: err.Error()}
	}

	resp, err := s.api.ProcessCommand(ctx, &backend.EditCommandRequest{
		SessionID: sessionID,
		Command:   input.Command,
	})

	entry := entity.EditHistoryEntry{
		Id:        uuid.New(),
		Command:   input.Command,
		Operation: constant.EditOperationGeneral,
		CreatedAt: time.Now(),
	}

	if err != nil {
		entry.Success = false
		entry.Message = editFailureMessage(err)
		s.appendHistory(sessionID, entry)
		s.logger.Error("EDITOR", "edit command failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return &dto.EditCommandResult{Success: false, Message: entry.Message, Operation: entry.Operation}
	}

	if resp.Operation != "" {
		entry.Operation = resp.Operation
	}
	entry.ParagraphNumber = resp.ParagraphNumber
	entry.Success = true
	entry.Message = resp.Message

	s.mu.Lock()
	s.setSessionLocked(sessionID)
	if len(resp.Paragraphs) > 0 {
		s.paragraphs = s.mapper.ParagraphsToEntities(resp.Paragraphs)
	}
	s.mu.Unlock()

	s.appendHistory(sessionID, entry)

	// Redundant-but-safe: the paragraph payload already reflects the edit,
	// but the full text is the source of truth for the canvas.
	if _, err := s.LoadCurrentDocument(ctx, sessionID); err != nil {
		s.logger.Warn("EDITOR", "post-edit reload failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	return &dto.EditCommandResult{Success: true, Message: entry.Message, Operation: entry.Operation}
}

func (s *editorService) History(ctx context.Context, sessionID string) ([]entity.EditHistoryEntry, error) {
	resp, err := s.api.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.mapper.HistoryToEntities(resp.Entries), nil
}

func (s *editorService) DownloadDocument(ctx context.Context, sessionID, dir string) (string, error) {
	dl, err := s.api.DownloadDocument(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(dl.Filename))
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Info("EDITOR", "document downloaded", map[string]interface{}{
		"session_id": sessionID,
		"path":       path,
		"bytes":      len(dl.Data),
	})
	return path, nil
}

func (s *editorService) Paragraphs() []entity.Paragraph {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Paragraph, len(s.paragraphs))
	copy(out, s.paragraphs)
	return out
}

func (s *editorService) DocumentText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentText
}

func (s *editorService) LocalHistory() []entity.EditHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.EditHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

func (s *editorService) appendHistory(sessionID string, entry entity.EditHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSessionLocked(sessionID)
	s.history = append(s.history, entry)
}

// setSessionLocked resets derived state when the container is pointed at a
// different session. Paragraph numbers, history entries and the initialized
// guard from another session have no meaning here.
func (s *editorService) setSessionLocked(sessionID string) {
	if s.sessionID == sessionID {
		return
	}
	s.sessionID = sessionID
	s.documentText = ""
	s.paragraphs = nil
	s.history = nil
	s.initialized = false
}

func editFailureMessage(err error) string {
	var opErr *backend.OperationError
	if errors.As(err, &opErr) && opErr.Message != "" {
		return opErr.Message
	}
	if backend.IsTimeout(err) {
		return "El comando tardó demasiado en procesarse."
	}
	return "No se pudo aplicar el comando de edición."
}
