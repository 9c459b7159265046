package dto

type ImportFileInput struct {
	FileId    string `validate:"required"`
	SessionId string
}

type CreateFolderInput struct {
	Name     string `validate:"required,min=1"`
	ParentId string
}

type SaveToDriveInput struct {
	SessionId string `validate:"required"`
	FolderId  string
	Filename  string
}

type SaveToDriveResult struct {
	FileId  string
	WebLink string
}
