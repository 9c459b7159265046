package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleBot   = "bot"
	ChatMessageRoleError = "error"

	// Typing indicator flavors. The active one is derived from the text of
	// the instruction being sent, never from the server response.
	OperationWriting    = "writing"
	OperationGenerating = "generating"
	OperationEditing    = "editing"

	WelcomeMessageFallback = "Hola, soy tu asistente legal. Contame sobre tu caso y empezamos a trabajar en la demanda."

	NoCategoriesMessage = "Todavía no hay categorías con documentos procesados. Subí al menos un documento de entrenamiento antes de iniciar una consulta."

	ConnectionErrorMessage = "No pude comunicarme con el servidor. Revisá tu conexión e intentá de nuevo."
)

// GeneratingKeywords mark an instruction as a document-generation request.
// Matching is case-insensitive over the whole instruction.
var GeneratingKeywords = []string{
	"demanda",
	"escrito",
	"genera",
	"generá",
	"redacta",
	"redactá",
	"crea el documento",
}

// EditingKeywords mark an instruction as an edit over the current document.
// An active text selection also forces the editing flavor.
var EditingKeywords = []string{
	"modifica",
	"modificá",
	"cambia",
	"cambiá",
	"corrige",
	"corregí",
	"elimina",
	"eliminá",
	"reemplaza",
	"reemplazá",
	"agrega",
	"agregá",
	"párrafo",
	"parrafo",
}
