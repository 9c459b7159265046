package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// fakeChatAPI counts calls and lets each endpoint be overridden per test.
type fakeChatAPI struct {
	startCalls    int32
	verifyCalls   int32
	sendCalls     int32
	messagesCalls int32

	startFn    func() (*backend.StartSessionResponse, error)
	verifyFn   func() (*backend.CategoryCheckResponse, error)
	sendFn     func(req *backend.SendMessageRequest) (*backend.SendMessageResponse, error)
	messagesFn func(sessionID string) (*backend.MessagesResponse, error)
	bulkFn     func(ids []string) (*backend.BulkDeleteResponse, error)
}

func (f *fakeChatAPI) StartSession(ctx context.Context) (*backend.StartSessionResponse, error) {
	atomic.AddInt32(&f.startCalls, 1)
	if f.startFn != nil {
		return f.startFn()
	}
	return &backend.StartSessionResponse{Success: true, SessionID: "sesion-1"}, nil
}

func (f *fakeChatAPI) VerifyCategories(ctx context.Context) (*backend.CategoryCheckResponse, error) {
	atomic.AddInt32(&f.verifyCalls, 1)
	if f.verifyFn != nil {
		return f.verifyFn()
	}
	return &backend.CategoryCheckResponse{Success: true, HasDocuments: true, CategoryCount: 1}, nil
}

func (f *fakeChatAPI) SendMessage(ctx context.Context, req *backend.SendMessageRequest) (*backend.SendMessageResponse, error) {
	atomic.AddInt32(&f.sendCalls, 1)
	if f.sendFn != nil {
		return f.sendFn(req)
	}
	return &backend.SendMessageResponse{Success: true, Reply: "entendido"}, nil
}

func (f *fakeChatAPI) Messages(ctx context.Context, sessionID string) (*backend.MessagesResponse, error) {
	atomic.AddInt32(&f.messagesCalls, 1)
	if f.messagesFn != nil {
		return f.messagesFn(sessionID)
	}
	return &backend.MessagesResponse{Success: true}, nil
}

func (f *fakeChatAPI) Sessions(ctx context.Context) (*backend.SessionsResponse, error) {
	return &backend.SessionsResponse{Success: true}, nil
}

func (f *fakeChatAPI) DeleteSession(ctx context.Context, sessionID string) error { return nil }

func (f *fakeChatAPI) MoveSession(ctx context.Context, sessionID, folder string) error { return nil }

func (f *fakeChatAPI) BulkDeleteSessions(ctx context.Context, ids []string) (*backend.BulkDeleteResponse, error) {
	if f.bulkFn != nil {
		return f.bulkFn(ids)
	}
	return &backend.BulkDeleteResponse{Success: true, DeletedCount: len(ids)}, nil
}

func newChatFixture(api *fakeChatAPI) (IChatService, *events.Bus, *selection.Tracker) {
	bus := events.NewBus()
	tracker := selection.NewTracker(nil)
	svc := NewChatService(
		api,
		mapper.NewChatMapper(),
		bus,
		memory.NewSessionRegistry(),
		tracker,
		validator.New(),
		logger.NewNop(),
	)
	return svc, bus, tracker
}

func TestSendMessageInitializesExactlyOnce(t *testing.T) {
	api := &fakeChatAPI{}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	// A burst of first sends with no session: one iniciar, every message
	// sent after it.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.SendMessage(context.Background(), &dto.SendMessageInput{Text: "hola"})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&api.startCalls), "exactly one session initialization")
	assert.Equal(t, int32(8), atomic.LoadInt32(&api.sendCalls))
	assert.Equal(t, "sesion-1", svc.SessionId())
}

func TestInitializeWithoutProcessedCategories(t *testing.T) {
	api := &fakeChatAPI{
		verifyFn: func() (*backend.CategoryCheckResponse, error) {
			return &backend.CategoryCheckResponse{Success: true, HasDocuments: false}, nil
		},
	}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	svc.Initialize(context.Background())

	state := svc.State()
	assert.True(t, state.IsInitialized, "failed precondition still marks initialized")
	assert.Empty(t, state.Id, "no session without processed documents")
	assert.Zero(t, atomic.LoadInt32(&api.startCalls), "iniciar must not be called")
	require.Len(t, state.Messages, 1)
	assert.Equal(t, constant.ChatMessageRoleError, state.Messages[0].Role)
	assert.Equal(t, constant.NoCategoriesMessage, state.Messages[0].Content)

	// Re-initializing does not retry the dead precondition.
	svc.Initialize(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.verifyCalls))
}

func TestSendMessageNetworkFailureBecomesErrorMessage(t *testing.T) {
	api := &fakeChatAPI{
		sendFn: func(req *backend.SendMessageRequest) (*backend.SendMessageResponse, error) {
			return nil, &backend.RequestError{Op: "POST", URL: "/api/chat/mensaje", Err: context.DeadlineExceeded}
		},
	}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	svc.SendMessage(context.Background(), &dto.SendMessageInput{Text: "hola"})

	state := svc.State()
	assert.False(t, state.IsTyping)
	last := state.Messages[len(state.Messages)-1]
	assert.Equal(t, constant.ChatMessageRoleError, last.Role)
	assert.NotEmpty(t, last.Content)
}

func TestGenerationRequestFlow(t *testing.T) {
	var sawOperation string
	api := &fakeChatAPI{
		sendFn: func(req *backend.SendMessageRequest) (*backend.SendMessageResponse, error) {
			return &backend.SendMessageResponse{Success: true, Reply: "acá está el borrador", ShowPreview: true}, nil
		},
	}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	canvasEvents, err := bus.SubscribeCanvasOpen(ctx)
	require.NoError(t, err)

	// Watch the typing flavor while the message is in flight.
	api.sendFn = func(req *backend.SendMessageRequest) (*backend.SendMessageResponse, error) {
		sawOperation = svc.State().OperationType
		return &backend.SendMessageResponse{Success: true, Reply: "acá está el borrador", ShowPreview: true}, nil
	}

	svc.SendMessage(context.Background(), &dto.SendMessageInput{Text: "quiero una demanda laboral"})

	assert.Equal(t, constant.OperationGenerating, sawOperation, "a demanda request shows the generating flavor")

	state := svc.State()
	last := state.Messages[len(state.Messages)-1]
	assert.Equal(t, constant.ChatMessageRoleBot, last.Role)
	assert.True(t, last.ShowPreview)

	select {
	case evt := <-canvasEvents:
		assert.Equal(t, "sesion-1", evt.SessionId)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("canvas-open event not published within 500ms")
	}
}

func TestClassifyOperation(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		hasSelection bool
		expected     string
	}{
		{"demanda request", "quiero una demanda laboral", false, constant.OperationGenerating},
		{"redaction request", "redactá un escrito de despido", false, constant.OperationGenerating},
		{"edit verb", "modificá el segundo punto", false, constant.OperationEditing},
		{"paragraph reference", "el párrafo 3 está mal", false, constant.OperationEditing},
		{"plain question", "qué plazo tengo para contestar?", false, constant.OperationWriting},
		{"selection forces editing", "qué plazo tengo?", true, constant.OperationEditing},
		{"edit beats generate", "modificá la demanda", false, constant.OperationEditing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyOperation(tt.text, tt.hasSelection))
		})
	}
}

func TestSendMessageAttachesActiveSelection(t *testing.T) {
	var sent *backend.SendMessageRequest
	api := &fakeChatAPI{
		sendFn: func(req *backend.SendMessageRequest) (*backend.SendMessageResponse, error) {
			sent = req
			return &backend.SendMessageResponse{Success: true, Reply: "listo"}, nil
		},
	}
	svc, bus, tracker := newChatFixture(api)
	defer bus.Close()

	tracker.SetDocument([]selection.Block{{Tag: "p", Text: "los hechos del caso"}})
	_, err := tracker.Select(0, 4, 10)
	require.NoError(t, err)

	svc.SendMessage(context.Background(), &dto.SendMessageInput{Text: "corregí esto"})

	require.NotNil(t, sent.Selection)
	assert.Equal(t, "hechos", sent.Selection.Text)
	assert.Equal(t, 4, sent.Selection.Start)
}

func TestLoadMessagesReplacesLog(t *testing.T) {
	api := &fakeChatAPI{
		messagesFn: func(sessionID string) (*backend.MessagesResponse, error) {
			return &backend.MessagesResponse{Success: true, Messages: []backend.MessagePayload{
				{ID: "1", Role: constant.ChatMessageRoleUser, Content: "hola"},
				{ID: "2", Role: constant.ChatMessageRoleBot, Content: "buenas"},
				{ID: "3", Role: constant.ChatMessageRoleUser, Content: "necesito una demanda"},
			}}, nil
		},
	}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	require.NoError(t, svc.LoadMessages(context.Background(), "sesion-vieja"))

	state := svc.State()
	assert.True(t, state.IsInitialized)
	assert.Equal(t, "sesion-vieja", state.Id)
	require.Len(t, state.Messages, 3)
	assert.Equal(t, "hola", state.Messages[0].Content)
	assert.Equal(t, "necesito una demanda", state.Messages[2].Content)
}

func TestLoadMessagesResumesFromRegistry(t *testing.T) {
	api := &fakeChatAPI{}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	// Build up a live session; every state change lands in the registry.
	svc.SendMessage(context.Background(), &dto.SendMessageInput{Text: "hola"})
	require.Equal(t, "sesion-1", svc.SessionId())
	saved := len(svc.State().Messages)

	// Resuming the same session comes back from the registry: no history
	// fetch, same log, transient flags at rest.
	require.NoError(t, svc.LoadMessages(context.Background(), "sesion-1"))

	assert.Zero(t, atomic.LoadInt32(&api.messagesCalls), "a registered session must not refetch history")
	state := svc.State()
	assert.True(t, state.IsInitialized)
	assert.False(t, state.IsTyping)
	assert.Len(t, state.Messages, saved)

	// An unknown session still goes to the server.
	require.NoError(t, svc.LoadMessages(context.Background(), "sesion-ajena"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.messagesCalls))
}

func TestBulkDeletePartialFailure(t *testing.T) {
	api := &fakeChatAPI{
		bulkFn: func(ids []string) (*backend.BulkDeleteResponse, error) {
			return &backend.BulkDeleteResponse{
				Success:      true,
				DeletedCount: 2,
				Errors:       []backend.BulkDeleteErrorPayload{{SessionID: ids[1], Message: "sesión en uso"}},
			}, nil
		},
	}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	result, err := svc.BulkDeleteSessions(context.Background(), &dto.BulkDeleteInput{
		SessionIds: []string{"a", "b", "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "b", result.Errors[0].SessionId)
}

func TestStateSnapshotsAreIsolated(t *testing.T) {
	api := &fakeChatAPI{}
	svc, bus, _ := newChatFixture(api)
	defer bus.Close()

	svc.SendMessage(context.Background(), &dto.SendMessageInput{Text: "hola"})

	snapshot := svc.State()
	before := len(snapshot.Messages)
	snapshot.Messages = append(snapshot.Messages, entity.ChatMessage{Content: "mutado"})

	assert.Len(t, svc.State().Messages, before, "mutating a snapshot must not touch container state")
}
