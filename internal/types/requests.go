package types

import "github.com/openprovenance/provstore-go/prov"

// ------------------------------
// Request Types
// ------------------------------

// SubmitDocumentRequest is the payload for POST documents/. Content
// serializes as the PROV-JSON container of the document.
type SubmitDocumentRequest struct {
	Content *prov.Document `json:"content"`
	Public  bool           `json:"public"`
	RecID   string         `json:"rec_id"`
}

// AddBundleRequest is the payload for POST documents/{id}/bundles/.
type AddBundleRequest struct {
	Content *prov.Document `json:"content"`
	RecID   string         `json:"rec_id"`
}
