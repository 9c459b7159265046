package entity

type Transcription struct {
	Text            string
	DurationSeconds float64
}
