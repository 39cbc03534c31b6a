// Package provstore provides a client for the ProvStore API, the online
// repository for provenance documents. The public Go API centres around
// the Client type, which exposes SubmitDocument, GetDocument,
// GetDocumentRaw, GetDocumentMeta, AddBundle and DeleteDocument against a
// store deployment; documents travel as PROV-JSON containers wrapped in
// prov.Document.
//
// Construction follows the usual functional-option shape:
//
//	c, err := provstore.New("", provstore.WithCredentials("alice", "key"))
//	if err != nil { ... }
//	id, err := c.SubmitDocument(ctx, doc, "my-document", false)
//
// An empty base URL selects the public deployment at DefaultBaseURL.
// Failures map onto a small sentinel set (ErrUnauthorized, ErrBadRequest,
// ErrNotFound) wrapped in *HTTPError, so callers can branch with errors.Is
// while keeping the raw status and body for diagnostics. The store answers
// missing documents with either 404 or 422; both surface as ErrNotFound.
package provstore
