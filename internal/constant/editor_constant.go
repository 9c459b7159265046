package constant

const (
	// Edit operation kinds echoed into the local command history.
	EditOperationAdd     = "agregar"
	EditOperationModify  = "modificar"
	EditOperationDelete  = "eliminar"
	EditOperationReplace = "reemplazar"
	EditOperationGeneral = "general"
)
