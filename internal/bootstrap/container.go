package bootstrap

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ginogen/litigium-sub001/internal/config"
	"github.com/ginogen/litigium-sub001/internal/mapper"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/internal/repository/memory"
	"github.com/ginogen/litigium-sub001/internal/service"
	"github.com/ginogen/litigium-sub001/pkg/auth"
	"github.com/ginogen/litigium-sub001/pkg/backend"
	"github.com/ginogen/litigium-sub001/pkg/events"
	"github.com/ginogen/litigium-sub001/pkg/selection"
)

// Container wires every collaborator once at startup and hands the host
// explicit instances. Nothing in the app reaches for a package-level
// singleton.
type Container struct {
	Config   *config.Config
	Logger   logger.ILogger
	Bus      *events.Bus
	Tracker  *selection.Tracker
	Backend  *backend.Client
	Identity *auth.Identity
	Tokens   *auth.TokenStore

	ChatService     service.IChatService
	EditorService   service.IEditorService
	DriveService    service.IDriveService
	TrainingService service.ITrainingService
	AudioService    service.IAudioService
	ProfileService  service.IProfileService
}

func NewContainer(cfg *config.Config, verbose bool) (*Container, error) {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, verbose)
	validate := validator.New()

	// 2. Identity: misconfiguration is fatal and surfaces before any
	// command logic runs.
	supabaseClient, err := auth.NewSupabase(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	if err != nil {
		return nil, err
	}

	credentialsPath := cfg.App.CredentialsPath
	if credentialsPath == "" {
		credentialsPath, err = auth.DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
	}
	tokenStore, err := auth.NewTokenStore(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("open credentials store: %w", err)
	}
	if err := tokenStore.Watch(); err != nil {
		// Watching is a nicety; a second login terminal is rare.
		sysLogger.Warn("BOOTSTRAP", "credentials watcher unavailable", map[string]interface{}{"error": err.Error()})
	}
	identity := auth.NewIdentity(supabaseClient, tokenStore)
	tokenSource := auth.NewSource(tokenStore, identity)

	// 3. Backend client
	apiClient := backend.NewClient(backend.Config{
		BaseURL:        cfg.API.BaseURL,
		ShortTimeout:   cfg.API.ShortTimeout,
		LongTimeout:    cfg.API.LongTimeout,
		MaxRetries:     cfg.API.MaxRetries,
		TranscribePath: cfg.TranscribePath(),
	}, tokenSource)

	// 4. Event bus and shared state
	bus := events.NewBus()
	registry := memory.NewSessionRegistry()
	tracker := selection.NewTracker(nil)

	// 5. Services
	chatService := service.NewChatService(
		apiClient,
		mapper.NewChatMapper(),
		bus,
		registry,
		tracker,
		validate,
		sysLogger,
	)
	editorService := service.NewEditorService(
		apiClient,
		mapper.NewEditorMapper(),
		validate,
		sysLogger,
	)
	driveService := service.NewDriveService(apiClient, validate, sysLogger)
	trainingService := service.NewTrainingService(apiClient, validate, sysLogger)
	audioService := service.NewAudioService(apiClient, validate, sysLogger, cfg.Audio.Language)
	profileService := service.NewProfileService(supabaseClient, tokenStore, validate, sysLogger)

	return &Container{
		Config:          cfg,
		Logger:          sysLogger,
		Bus:             bus,
		Tracker:         tracker,
		Backend:         apiClient,
		Identity:        identity,
		Tokens:          tokenStore,
		ChatService:     chatService,
		EditorService:   editorService,
		DriveService:    driveService,
		TrainingService: trainingService,
		AudioService:    audioService,
		ProfileService:  profileService,
	}, nil
}

// Close releases the container's background resources.
func (c *Container) Close() {
	if err := c.Bus.Close(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "event bus close failed", map[string]interface{}{"error": err.Error()})
	}
	if err := c.Tokens.Close(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "token store close failed", map[string]interface{}{"error": err.Error()})
	}
	_ = c.Logger.Sync()
}
