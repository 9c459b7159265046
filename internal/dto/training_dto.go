package dto

type CreateCategoryInput struct {
	Name        string `validate:"required,min=2"`
	Description string
}

type UploadDocumentInput struct {
	Path       string `validate:"required"`
	CategoryId string `validate:"required"`
}

type SearchInput struct {
	Query      string `validate:"required,min=2"`
	CategoryId string
	Limit      int `validate:"omitempty,min=1,max=50"`
}

// SearchResult is one scored fragment from the semantic search over the
// processed training corpus.
type SearchResult struct {
	DocumentId string
	Filename   string
	Fragment   string
	Score      float64
}

type AnnotateInput struct {
	DocumentId string `validate:"required"`
	Fragment   string `validate:"required"`
	Note       string `validate:"required"`
}
