package provstore

import "github.com/openprovenance/provstore-go/internal/types"

// Public type aliases so SDK consumers can import only the provstore package.
type (
	// Responses
	DocumentMeta = types.DocumentMeta

	// Retrieval options
	GetOptions = types.GetOptions
	View       = types.View
)

// Views the store can derive from a stored document.
const (
	ViewData           = types.ViewData
	ViewProcess        = types.ViewProcess
	ViewResponsibility = types.ViewResponsibility
)

// Errors re-exported in errors.go
