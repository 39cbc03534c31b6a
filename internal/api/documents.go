package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openprovenance/provstore-go/internal/types"
	"github.com/openprovenance/provstore-go/prov"
)

// SubmitDocument stores a new provenance document and returns the id the
// service assigned to it.
func SubmitDocument(ctx context.Context, httpClient *http.Client, baseURL string, req types.SubmitDocumentRequest) (int, error) {
	body, err := do(ctx, httpClient, baseURL, "", "documents/", req)
	if err != nil {
		return 0, err
	}
	var sr types.SubmitDocumentResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return 0, err
	}
	return sr.ID, nil
}

// GetDocument retrieves a document in PROV-JSON form and decodes it.
func GetDocument(ctx context.Context, httpClient *http.Client, baseURL string, docID int, flattened bool, view types.View) (*prov.Document, error) {
	body, err := do(ctx, httpClient, baseURL, "", documentPath(docID, "", flattened, view), nil)
	if err != nil {
		return nil, err
	}
	return prov.FromJSON(body)
}

// GetDocumentRaw retrieves a document rendered in the given format and
// returns the body verbatim. An empty format selects the service default,
// PROV-JSON.
func GetDocumentRaw(ctx context.Context, httpClient *http.Client, baseURL string, docID int, format string, flattened bool, view types.View) ([]byte, error) {
	return do(ctx, httpClient, baseURL, "", documentPath(docID, format, flattened, view), nil)
}

// GetDocumentMeta retrieves the metadata record kept alongside a document.
func GetDocumentMeta(ctx context.Context, httpClient *http.Client, baseURL string, docID int) (types.DocumentMeta, error) {
	body, err := do(ctx, httpClient, baseURL, "", fmt.Sprintf("documents/%d/", docID), nil)
	if err != nil {
		return nil, err
	}
	var meta types.DocumentMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// DeleteDocument removes a document and everything stored under it.
func DeleteDocument(ctx context.Context, httpClient *http.Client, baseURL string, docID int) error {
	_, err := do(ctx, httpClient, baseURL, http.MethodDelete, fmt.Sprintf("documents/%d/", docID), nil)
	return err
}
