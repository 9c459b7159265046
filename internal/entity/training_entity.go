package entity

import "time"

type TrainingCategory struct {
	Id            string
	Name          string
	Description   string
	DocumentCount int
}

type TrainingDocument struct {
	Id         string
	Filename   string
	CategoryId string
	Status     string
	Pages      int
	UploadedAt time.Time
}

// Annotation is a user note pinned to a fragment of a training document.
type Annotation struct {
	Id         string
	DocumentId string
	Fragment   string
	Note       string
	CreatedAt  time.Time
}
