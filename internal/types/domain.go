package types

// ------------------------------
// Core Domain Types
// ------------------------------

// View names one of the projections ProvStore derives from a stored
// document.
type View string

const (
	// ViewData keeps entities, agents and their direct relations.
	ViewData View = "data"
	// ViewProcess keeps activities and their direct relations.
	ViewProcess View = "process"
	// ViewResponsibility keeps agents and delegation relations.
	ViewResponsibility View = "responsibility"
)

// Valid reports whether v names a view the service serves. Retrieval
// ignores invalid views and returns the full document, so this gate keeps
// unknown values out of request paths.
func (v View) Valid() bool {
	switch v {
	case ViewData, ViewProcess, ViewResponsibility:
		return true
	}
	return false
}

// GetOptions narrows a document retrieval to a derived form. The zero
// value requests the document as stored.
type GetOptions struct {
	// Flattened asks for the single-bundle rendering with all bundle
	// contents merged into the document.
	Flattened bool
	// View selects a provenance-specific projection. Values outside the
	// View constants are ignored.
	View View
}
