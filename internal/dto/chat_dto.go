package dto

import "github.com/ginogen/litigium-sub001/internal/entity"

type SendMessageInput struct {
	Text      string `validate:"required,min=1"`
	Selection *entity.SelectionContext
}

type MoveSessionInput struct {
	SessionId string `validate:"required"`
	Folder    string `validate:"required"`
}

type BulkDeleteInput struct {
	SessionIds []string `validate:"required,min=1,dive,required"`
}

// BulkDeleteResult mirrors the partial-failure contract of the bulk
// endpoint: the count of sessions actually removed plus one entry per id
// that could not be.
type BulkDeleteResult struct {
	DeletedCount int
	Errors       []BulkDeleteError
}

type BulkDeleteError struct {
	SessionId string
	Message   string
}
