package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/pkg/backend"
)

type audioAPI interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (*backend.TranscribeResponse, error)
}

type IAudioService interface {
	// Transcribe ships an audio file for speech-to-text. Rides the long
	// client end to end; transcription regularly takes over a minute.
	Transcribe(ctx context.Context, input *dto.TranscribeInput) (*entity.Transcription, error)
}

type audioService struct {
	api             audioAPI
	validate        *validator.Validate
	logger          logger.ILogger
	defaultLanguage string
}

var _ IAudioService = &audioService{}

func NewAudioService(api audioAPI, validate *validator.Validate, sysLogger logger.ILogger, defaultLanguage string) IAudioService {
	return &audioService{
		api:             api,
		validate:        validate,
		logger:          sysLogger,
		defaultLanguage: defaultLanguage,
	}
}

func (s *audioService) Transcribe(ctx context.Context, input *dto.TranscribeInput) (*entity.Transcription, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	file, err := os.Open(input.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", input.Path, err)
	}
	defer file.Close()

	language := input.Language
	if language == "" {
		language = s.defaultLanguage
	}

	resp, err := s.api.Transcribe(ctx, filepath.Base(input.Path), file, language)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AUDIO", "transcription done", map[string]interface{}{
		"file":     filepath.Base(input.Path),
		"duracion": resp.Duration,
	})
	return &entity.Transcription{
		Text:            resp.Text,
		DurationSeconds: resp.Duration,
	}, nil
}
