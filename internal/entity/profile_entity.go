package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the lawyer profile row kept in the identity provider's
// database, one per authenticated user.
type Profile struct {
	UserId         uuid.UUID
	FullName       string
	Tomo           string
	Folio          string
	BarAssociation string
	OfficeAddress  string
	Jurisdiction   string
	UpdatedAt      *time.Time
}
