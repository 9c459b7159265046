package dto

type EditCommandInput struct {
	Command string `validate:"required,min=1"`
}

// EditCommandResult is returned to callers instead of an error for the
// absorbed failure classes: the command history already records the verdict,
// the caller only needs it for display.
type EditCommandResult struct {
	Success   bool
	Message   string
	Operation string
}
