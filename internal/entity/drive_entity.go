package entity

import "time"

type DriveStatus struct {
	Connected bool
	Email     string
}

type DriveFile struct {
	Id         string
	Name       string
	MimeType   string
	ModifiedAt *time.Time
}

type DriveFolder struct {
	Id   string
	Name string
}
