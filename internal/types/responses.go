package types

// ------------------------------
// Response Types
// ------------------------------

// SubmitDocumentResponse carries the id the service assigned to a newly
// stored document. The full resource body is larger; only the id is part
// of the contract here.
type SubmitDocumentResponse struct {
	ID int `json:"id"`
}

// DocumentMeta is the metadata record kept alongside a stored document
// (owner, visibility, timestamps, view counters). The service extends this
// shape without notice, so it stays an open mapping.
type DocumentMeta map[string]any
