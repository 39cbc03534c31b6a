package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openprovenance/provstore-go/internal/types"
)

// do executes a single API request and returns the raw response body.
// Every endpoint funnels through here so the service conventions live in
// one place: JSON Accept/Content-Type headers on every call, POST when a
// payload is present and GET otherwise (an explicit method wins), and
// non-2xx statuses classified through types.NewHTTPError. A 2xx response
// with an empty body yields an empty byte slice and a nil error.
func do(ctx context.Context, httpClient *http.Client, baseURL, method, path string, payload any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(data)
	}
	if method == "" {
		method = http.MethodGet
		if payload != nil {
			method = http.MethodPost
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, baseURL+path, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, types.NewHTTPError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// documentPath builds the retrieval path for a stored document:
//
//	documents/{id}[/flattened][/views/{view}].{ext}
//
// The extension defaults to json. Views outside the known set add no
// segment, matching the service's behaviour of ignoring them.
func documentPath(docID int, format string, flattened bool, view types.View) string {
	ext := format
	if ext == "" {
		ext = "json"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "documents/%d", docID)
	if flattened {
		b.WriteString("/flattened")
	}
	if view.Valid() {
		fmt.Fprintf(&b, "/views/%s", view)
	}
	b.WriteString("." + ext)
	return b.String()
}
