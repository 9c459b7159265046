package dto

type UpdateProfileInput struct {
	FullName       string `validate:"omitempty,min=3"`
	Tomo           string
	Folio          string
	BarAssociation string
	OfficeAddress  string
	Jurisdiction   string
}
