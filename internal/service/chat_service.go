package service

import (
	"context"
	"errors"
	"strings"
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
	"github.com/ginogen/litigium-sub001/internal/repository/memory"
	"github.com/ginogen/litigium-sub001/pkg/backend"
	"github.com/ginogen/litigium-sub001/pkg/events"
	"github.com/ginogen/litigium-sub001/pkg/selection"
)

// chatAPI is the slice of the backend client the chat container depends on.
type chatAPI interface {
	StartSession(ctx context.Context) (*backend.StartSessionResponse, error)
	SendMessage(ctx context.Context, req *backend.SendMessageRequest) (*backend.SendMessageResponse, error)
	Messages(ctx context.Context, sessionID string) (*backend.MessagesResponse, error)
	Sessions(ctx context.Context) (*backend.SessionsResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
	MoveSession(ctx context.Context, sessionID, folder string) error
	BulkDeleteSessions(ctx context.Context, sessionIDs []string) (*backend.BulkDeleteResponse, error)
	VerifyCategories(ctx context.Context) (*backend.CategoryCheckResponse, error)
}

type IChatService interface {
	// Initialize is idempotent: concurrent callers share one in-flight
	// attempt, and a failed attempt still marks the session initialized so
	// the container never loops on a broken precondition. Failures become
	// error-role messages in the log instead of returned errors.
	Initialize(ctx context.Context)
	// SendMessage appends the user message, ships it and appends the reply.
	// Transport and server failures are absorbed into error-role messages.
	SendMessage(ctx context.Context, input *dto.SendMessageInput)
	// LoadMessages replaces the whole log with the history of an existing
	// session and marks the container initialized. Recently visited sessions
	// come back from the in-memory registry; anything else is fetched.
	LoadMessages(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]entity.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	MoveSession(ctx context.Context, input *dto.MoveSessionInput) error
	BulkDeleteSessions(ctx context.Context, input *dto.BulkDeleteInput) (*dto.BulkDeleteResult, error)
	// State returns a snapshot. The container owns its state exclusively;
	// nobody mutates through a snapshot.
	State() entity.SessionState
	SessionId() string
}

type chatService struct {
	api       chatAPI
	mapper    *mapper.ChatMapper
	bus       *events.Bus
	registry  *memory.SessionRegistry
	selection selection.Provider
	validate  *validator.Validate
	logger    logger.ILogger

	mu    sync.Mutex
	state *entity.SessionState
	sf    singleflight.Group
}

var _ IChatService = &chatService{}

func NewChatService(
	api chatAPI,
	chatMapper *mapper.ChatMapper,
	bus *events.Bus,
	registry *memory.SessionRegistry,
	selectionProvider selection.Provider,
	validate *validator.Validate,
	sysLogger logger.ILogger,
) IChatService {
	s := &chatService{
		api:       api,
		mapper:    chatMapper,
		bus:       bus,
		registry:  registry,
		selection: selectionProvider,
		validate:  validate,
		logger:    sysLogger,
		state:     &entity.SessionState{},
	}
	return s
}

func (s *chatService) Initialize(ctx context.Context) {
	// Any burst of first sends shares this one flight.
	s.sf.Do("chat-initialize", func() (interface{}, error) {
		s.doInitialize(ctx)
		return nil, nil
	})
}

func (s *chatService) doInitialize(ctx context.Context) {
	s.mu.Lock()
	if s.state.IsInitialized {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// 1. Server-side precondition: at least one category with processed
	// documents, otherwise the backend has nothing to generate from.
	check, err := s.api.VerifyCategories(ctx)
	if err != nil {
		s.logger.Error("CHAT", "category check failed", map[string]interface{}{"error": err.Error()})
		s.failInitialization(errorMessageFor(err))
		return
	}
	if !check.HasDocuments {
		s.failInitialization(constant.NoCategoriesMessage)
		return
	}

	// 2. Open the session.
	started, err := s.api.StartSession(ctx)
	if err != nil {
		s.logger.Error("CHAT", "session start failed", map[string]interface{}{"error": err.Error()})
		s.failInitialization(errorMessageFor(err))
		return
	}

	welcome := started.WelcomeMessage
	if welcome == "" {
		welcome = constant.WelcomeMessageFallback
	}

	s.mu.Lock()
	s.state.Id = started.SessionID
	s.state.IsInitialized = true
	s.appendLocked(entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleBot,
		Content:   welcome,
		CreatedAt: time.Now(),
	})
	s.registry.Save(s.state)
	s.mu.Unlock()

	if err := s.bus.PublishSessionCreated(events.SessionCreatedEvent{SessionId: started.SessionID}); err != nil {
		s.logger.Warn("CHAT", "session created event dropped", map[string]interface{}{"error": err.Error()})
	}
	s.logger.Info("CHAT", "session initialized", map[string]interface{}{"session_id": started.SessionID})
}

// failInitialization records the failure as a visible message and marks the
// container initialized anyway: retrying a dead precondition on every send
// would loop forever.
func (s *chatService) failInitialization(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsInitialized = true
	s.appendLocked(entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleError,
		Content:   message,
		CreatedAt: time.Now(),
	})
}

func (s *chatService) SendMessage(ctx context.Context, input *dto.SendMessageInput) {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Warn("CHAT", "message rejected", map[string]interface{}{"error": err.Error()})
		return
	}

	s.Initialize(ctx)

	s.mu.Lock()
	sessionID := s.state.Id
	s.mu.Unlock()
	if sessionID == "" {
		// Initialization failed; its error message is already in the log.
		return
	}

	// Selection comes from the input when the caller captured one, otherwise
	// from whatever the provider holds right now.
	sel := input.Selection
	if sel == nil {
		if active, ok := s.selection.Active(); ok {
			sel = s.mapper.SelectionToEntity(active)
		}
	}

	operation := classifyOperation(input.Text, sel != nil)

	s.mu.Lock()
	s.appendLocked(entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleUser,
		Content:   input.Text,
		CreatedAt: time.Now(),
		Selection: sel,
	})
	s.state.IsTyping = true
	s.state.OperationType = operation
	s.registry.Save(s.state)
	s.mu.Unlock()

	resp, err := s.api.SendMessage(ctx, &backend.SendMessageRequest{
		SessionID: sessionID,
		Message:   input.Text,
		Selection: s.mapper.SelectionToPayload(sel),
	})

	s.mu.Lock()
	s.state.IsTyping = false
	s.state.OperationType = ""
	if err != nil {
		s.appendLocked(entity.ChatMessage{
			Id:        uuid.New(),
			Role:      constant.ChatMessageRoleError,
			Content:   errorMessageFor(err),
			CreatedAt: time.Now(),
		})
		s.registry.Save(s.state)
		s.mu.Unlock()
		s.logger.Error("CHAT", "send message failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	s.appendLocked(entity.ChatMessage{
		Id:           uuid.New(),
		Role:         constant.ChatMessageRoleBot,
		Content:      resp.Reply,
		CreatedAt:    time.Now(),
		ShowDownload: resp.ShowDownload,
		ShowPreview:  resp.ShowPreview,
		Options:      resp.Options,
	})
	s.registry.Save(s.state)
	s.mu.Unlock()

	if resp.ShowPreview {
		if err := s.bus.PublishCanvasOpen(events.CanvasOpenEvent{
			SessionId: sessionID,
			Reason:    "preview",
		}); err != nil {
			s.logger.Warn("CHAT", "canvas open event dropped", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *chatService) LoadMessages(ctx context.Context, sessionID string) error {
	// Recently visited sessions resume from the registry without another
	// history fetch. Transient flags belonged to the moment of the save.
	if cached, ok := s.registry.Get(sessionID); ok {
		cached.IsTyping = false
		cached.OperationType = ""
		s.mu.Lock()
		s.state = cached
		s.mu.Unlock()
		return nil
	}

	resp, err := s.api.Messages(ctx, sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &entity.SessionState{
		Id:            sessionID,
		Messages:      s.mapper.MessagesToEntities(resp.Messages),
		IsInitialized: true,
	}
	s.registry.Save(s.state)
	return nil
}

func (s *chatService) Sessions(ctx context.Context) ([]entity.ChatSession, error) {
	resp, err := s.api.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.SessionsToEntities(resp.Sessions), nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.api.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.registry.Delete(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Id == sessionID {
		s.state = &entity.SessionState{}
	}
	return nil
}

func (s *chatService) MoveSession(ctx context.Context, input *dto.MoveSessionInput) error {
	if err := s.validate.Struct(input); err != nil {
		return err
	}
	return s.api.MoveSession(ctx, input.SessionId, input.Folder)
}

func (s *chatService) BulkDeleteSessions(ctx context.Context, input *dto.BulkDeleteInput) (*dto.BulkDeleteResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	resp, err := s.api.BulkDeleteSessions(ctx, input.SessionIds)
	if err != nil {
		return nil, err
	}
	for _, id := range input.SessionIds {
		s.registry.Delete(id)
	}
	return s.mapper.BulkDeleteToResult(resp), nil
}

func (s *chatService) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *s.state
	snapshot.Messages = make([]entity.ChatMessage, len(s.state.Messages))
	copy(snapshot.Messages, s.state.Messages)
	return snapshot
}

func (s *chatService) SessionId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Id
}

func (s *chatService) appendLocked(msg entity.ChatMessage) {
	s.state.Messages = append(s.state.Messages, msg)
}

// classifyOperation picks the typing indicator flavor from the instruction
// text. An active selection always means an edit is coming.
func classifyOperation(text string, hasSelection bool) string {
	if hasSelection {
		return constant.OperationEditing
	}
	lower := strings.ToLower(text)
	for _, keyword := range constant.EditingKeywords {
		if strings.Contains(lower, keyword) {
			return constant.OperationEditing
		}
	}
	for _, keyword := range constant.GeneratingKeywords {
		if strings.Contains(lower, keyword) {
			return constant.OperationGenerating
		}
	}
	return constant.OperationWriting
}

// errorMessageFor normalizes the three failure classes into the one-line
// Spanish message shown in the log.
func errorMessageFor(err error) string {
	var opErr *backend.OperationError
	if errors.As(err, &opErr) && opErr.Message != "" {
		return opErr.Message
	}
	if backend.IsTimeout(err) {
		return "La operación tardó demasiado. Intentá de nuevo en unos minutos."
	}
	if backend.IsUnavailable(err) {
		return "El servidor no está respondiendo en este momento. Esperá unos minutos antes de reintentar."
	}
	return constant.ConnectionErrorMessage
}
