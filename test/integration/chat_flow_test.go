package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ginogen/litigium-sub001/internal/constant"
	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/mapper"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/internal/repository/memory"
	"github.com/ginogen/litigium-sub001/internal/service"
	"github.com/ginogen/litigium-sub001/pkg/backend"
	"github.com/ginogen/litigium-sub001/pkg/events"
	"github.com/ginogen/litigium-sub001/pkg/selection"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatBackendDouble stands in for the real API: it records what the client
// sent so the flow assertions can check the wire contract end to end.
type chatBackendDouble struct {
	hasDocuments bool

	startCalls   atomic.Int32
	lastMessage  atomic.Value // string
	lastSelText  atomic.Value // string
	bulkDeleted  []string
	sessionTitle string
}

func (d *chatBackendDouble) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/chat/verificar-categorias", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":                   true,
			"tiene_documentos":          d.hasDocuments,
			"categorias_con_documentos": 2,
		})
	})

	mux.HandleFunc("POST /api/chat/iniciar", func(w http.ResponseWriter, r *http.Request) {
		d.startCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"success":            true,
			"session_id":         "sess-it-1",
			"mensaje_bienvenida": "Hola, soy tu asistente legal.",
		})
	})

	mux.HandleFunc("POST /api/chat/mensaje", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer it-token", r.Header.Get("Authorization"))
		var req struct {
			SessionID string `json:"session_id"`
			Message   string `json:"mensaje"`
			Selection *struct {
				Text  string `json:"texto"`
				Start int    `json:"inicio"`
				End   int    `json:"fin"`
			} `json:"contexto_seleccion"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "sess-it-1", req.SessionID)
		d.lastMessage.Store(req.Message)
		if req.Selection != nil {
			d.lastSelText.Store(req.Selection.Text)
		}

		preview := false
		reply := "Entendido."
		if req.Message == "generá la demanda laboral" {
			preview = true
			reply = "He generado el borrador de la demanda."
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":          true,
			"respuesta":        reply,
			"mostrar_preview":  preview,
			"mostrar_descarga": preview,
		})
	})

	mux.HandleFunc("GET /api/chat/mensajes/sess-it-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"mensajes": []map[string]any{
				{"id": "m1", "role": "bot", "texto": "Hola de nuevo.", "timestamp": time.Now().UTC()},
				{"id": "m2", "role": "user", "texto": "Seguimos con el caso.", "timestamp": time.Now().UTC()},
			},
		})
	})

	mux.HandleFunc("GET /api/chat/sesiones", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"sesiones": []map[string]any{
				{"id": "sess-it-1", "titulo": d.sessionTitle, "carpeta": "laboral", "created_at": time.Now().UTC()},
			},
		})
	})

	mux.HandleFunc("DELETE /api/chat/sesiones/bulk", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionIDs []string `json:"session_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		d.bulkDeleted = req.SessionIDs
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"deleted_count": len(req.SessionIDs) - 1,
			"errors":        []map[string]any{
				{"session_id": req.SessionIDs[0], "error": "sesion en uso"},
			},
		})
	})

	return mux
}

type chatFlowFixture struct {
	svc     service.IChatService
	bus     *events.Bus
	tracker *selection.Tracker
	double  *chatBackendDouble
}

func newChatFlowFixture(t *testing.T, double *chatBackendDouble) *chatFlowFixture {
	t.Helper()

	srv := httptest.NewServer(double.handler(t))
	t.Cleanup(srv.Close)

	client := backend.NewClient(backend.Config{BaseURL: srv.URL}, backend.StaticToken("it-token"))
	bus := events.NewBus()
	t.Cleanup(func() { bus.Close() })
	tracker := selection.NewTracker(nil)

	svc := service.NewChatService(
		client,
		mapper.NewChatMapper(),
		bus,
		memory.NewSessionRegistry(),
		tracker,
		validator.New(),
		logger.NewNop(),
	)
	return &chatFlowFixture{svc: svc, bus: bus, tracker: tracker, double: double}
}

func TestChatFlowGeneratesDocument(t *testing.T) {
	double := &chatBackendDouble{hasDocuments: true, sessionTitle: "Demanda laboral"}
	f := newChatFlowFixture(t, double)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	canvas, err := f.bus.SubscribeCanvasOpen(ctx)
	require.NoError(t, err)

	// 1. First send triggers lazy initialization: category check, session
	// start and welcome message all happen behind one call.
	f.svc.SendMessage(ctx, &dto.SendMessageInput{Text: "Hola"})

	state := f.svc.State()
	require.Equal(t, "sess-it-1", state.Id)
	assert.True(t, state.IsInitialized)
	require.Len(t, state.Messages, 3)
	assert.Equal(t, constant.ChatMessageRoleBot, state.Messages[0].Role)
	assert.Equal(t, "Hola, soy tu asistente legal.", state.Messages[0].Content)
	assert.Equal(t, constant.ChatMessageRoleUser, state.Messages[1].Role)
	assert.Equal(t, "Entendido.", state.Messages[2].Content)
	assert.Equal(t, int32(1), double.startCalls.Load())

	// 2. A generation request flips the preview flag and opens the canvas.
	f.svc.SendMessage(ctx, &dto.SendMessageInput{Text: "generá la demanda laboral"})

	state = f.svc.State()
	last := state.Messages[len(state.Messages)-1]
	assert.Equal(t, constant.ChatMessageRoleBot, last.Role)
	assert.True(t, last.ShowPreview)
	assert.True(t, last.ShowDownload)
	assert.False(t, state.IsTyping)

	select {
	case ev := <-canvas:
		assert.Equal(t, "sess-it-1", ev.SessionId)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected a canvas-open event after generation")
	}

	// 3. Subsequent sends reuse the session: no second iniciar call.
	assert.Equal(t, int32(1), double.startCalls.Load())
}

func TestChatFlowSendsActiveSelection(t *testing.T) {
	double := &chatBackendDouble{hasDocuments: true}
	f := newChatFlowFixture(t, double)
	ctx := context.Background()

	f.tracker.SetDocument([]selection.Block{
		{Text: "PRIMERO: los hechos del caso.", Tag: "hechos"},
	})
	_, err := f.tracker.Select(0, 13, 19)
	require.NoError(t, err)

	f.svc.SendMessage(ctx, &dto.SendMessageInput{Text: "mejorá este párrafo"})

	sel, _ := double.lastSelText.Load().(string)
	assert.Equal(t, "hechos", sel, "active selection must travel with the message")

	state := f.svc.State()
	last := state.Messages[len(state.Messages)-1]
	assert.Equal(t, constant.ChatMessageRoleBot, last.Role)
}

func TestChatFlowWithoutTrainingDocuments(t *testing.T) {
	double := &chatBackendDouble{hasDocuments: false}
	f := newChatFlowFixture(t, double)
	ctx := context.Background()

	f.svc.Initialize(ctx)

	state := f.svc.State()
	assert.True(t, state.IsInitialized, "a failed precondition still settles initialization")
	assert.Empty(t, state.Id, "no session may be started without documents")
	assert.Equal(t, int32(0), double.startCalls.Load())
	require.Len(t, state.Messages, 1)
	assert.Equal(t, constant.ChatMessageRoleError, state.Messages[0].Role)
	assert.Equal(t, constant.NoCategoriesMessage, state.Messages[0].Content)
}

func TestChatFlowResumeAndBulkDelete(t *testing.T) {
	double := &chatBackendDouble{hasDocuments: true, sessionTitle: "Caso García"}
	f := newChatFlowFixture(t, double)
	ctx := context.Background()

	// Resume an existing session instead of starting a fresh one.
	require.NoError(t, f.svc.LoadMessages(ctx, "sess-it-1"))
	state := f.svc.State()
	assert.Equal(t, "sess-it-1", state.Id)
	assert.True(t, state.IsInitialized)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, "Hola de nuevo.", state.Messages[0].Content)

	sessions, err := f.svc.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Caso García", sessions[0].Title)
	assert.Equal(t, "laboral", sessions[0].Folder)

	result, err := f.svc.BulkDeleteSessions(ctx, &dto.BulkDeleteInput{
		SessionIds: []string{"sess-it-1", "sess-it-2", "sess-it-3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sess-it-1", result.Errors[0].SessionId)
	assert.Equal(t, []string{"sess-it-1", "sess-it-2", "sess-it-3"}, double.bulkDeleted)
}
