package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openprovenance/provstore-go/internal/types"
)

// AddBundle attaches a named bundle to an existing document. The service
// response body carries no information the SDK needs, so success is a nil
// error.
func AddBundle(ctx context.Context, httpClient *http.Client, baseURL string, docID int, req types.AddBundleRequest) error {
	_, err := do(ctx, httpClient, baseURL, "", fmt.Sprintf("documents/%d/bundles/", docID), req)
	return err
}
