package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/pkg/auth"
)

const profilesTable = "perfiles"

type IProfileService interface {
	// Get reads the lawyer profile row of the signed-in user. A user who
	// never saved one gets an empty profile, not an error.
	Get(ctx context.Context) (*entity.Profile, error)
	// Update upserts the profile row. Empty input fields keep their stored
	// values.
	Update(ctx context.Context, input *dto.UpdateProfileInput) (*entity.Profile, error)
}

// profileRow is the wire shape of one perfiles row. Row-level security on
// user_id scopes every query to the signed-in user.
type profileRow struct {
	UserId         string     `json:"user_id"`
	FullName       string     `json:"nombre_completo"`
	Tomo           string     `json:"tomo"`
	Folio          string     `json:"folio"`
	BarAssociation string     `json:"colegio"`
	OfficeAddress  string     `json:"domicilio"`
	Jurisdiction   string     `json:"jurisdiccion"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type profileService struct {
	client   *supabase.Client
	store    *auth.TokenStore
	validate *validator.Validate
	logger   logger.ILogger
}

var _ IProfileService = &profileService{}

func NewProfileService(client *supabase.Client, store *auth.TokenStore, validate *validator.Validate, sysLogger logger.ILogger) IProfileService {
	return &profileService{client: client, store: store, validate: validate, logger: sysLogger}
}

// withSession points the Postgrest client at the signed-in user's JWT so
// row-level security sees the right identity.
func (s *profileService) withSession() (auth.Credentials, error) {
	creds, ok := s.store.Current()
	if !ok {
		return auth.Credentials{}, auth.ErrNotAuthenticated
	}
	s.client.UpdateAuthSession(types.Session{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})
	return creds, nil
}

func (s *profileService) Get(ctx context.Context) (*entity.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	creds, err := s.withSession()
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	_, err = s.client.From(profilesTable).
		Select("*", "", false).
		Eq("user_id", creds.UserId).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	userId, parseErr := uuid.Parse(creds.UserId)
	if parseErr != nil {
		return nil, fmt.Errorf("stored user id invalid: %w", parseErr)
	}
	if len(rows) == 0 {
		return &entity.Profile{UserId: userId}, nil
	}
	return rowToProfile(&rows[0], userId), nil
}

func (s *profileService) Update(ctx context.Context, input *dto.UpdateProfileInput) (*entity.Profile, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := profileRow{
		UserId:         current.UserId.String(),
		FullName:       pick(input.FullName, current.FullName),
		Tomo:           pick(input.Tomo, current.Tomo),
		Folio:          pick(input.Folio, current.Folio),
		BarAssociation: pick(input.BarAssociation, current.BarAssociation),
		OfficeAddress:  pick(input.OfficeAddress, current.OfficeAddress),
		Jurisdiction:   pick(input.Jurisdiction, current.Jurisdiction),
		UpdatedAt:      &now,
	}

	var rows []profileRow
	_, err = s.client.From(profilesTable).
		Upsert(row, "user_id", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("PROFILE", "profile saved", map[string]interface{}{"user_id": row.UserId})
	if len(rows) == 0 {
		return rowToProfile(&row, current.UserId), nil
	}
	return rowToProfile(&rows[0], current.UserId), nil
}

func rowToProfile(row *profileRow, userId uuid.UUID) *entity.Profile {
	return &entity.Profile{
		UserId:         userId,
		FullName:       row.FullName,
		Tomo:           row.Tomo,
		Folio:          row.Folio,
		BarAssociation: row.BarAssociation,
		OfficeAddress:  row.OfficeAddress,
		Jurisdiction:   row.Jurisdiction,
		UpdatedAt:      row.UpdatedAt,
	}
}

// pick prefers the new value, falling back to the stored one.
func pick(next, current string) string {
	if next != "" {
		return next
	}
	return current
}
