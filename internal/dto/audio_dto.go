package dto

type TranscribeInput struct {
	Path     string `validate:"required"`
	Language string `validate:"omitempty,len=2"`
}
