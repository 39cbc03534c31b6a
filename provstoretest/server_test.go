package provstoretest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, payload map[string]any, header http.Header) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_SubmitAndGet(t *testing.T) {
	fake := NewServer()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/documents/", map[string]any{
		"content": map[string]any{"entity": map[string]any{"ex:e1": map[string]any{}}},
		"public":  true,
		"rec_id":  "doc-1",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "doc-1", created["document_name"])

	getResp, err := http.Get(srv.URL + "/documents/1.json")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	body := decodeBody(t, getResp)
	assert.Contains(t, body, "entity")
	assert.Equal(t, 1, fake.DocumentCount())
}

func TestServer_SubmitRejectsMissingContent(t *testing.T) {
	fake := NewServer()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/documents/", map[string]any{"rec_id": "doc-1"}, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := http.Post(srv.URL+"/documents/", "application/json", strings.NewReader("{bad json"))
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestServer_GetUnknownDocument(t *testing.T) {
	fake := NewServer()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/documents/99.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ProvnRendering(t *testing.T) {
	fake := NewServer()
	id := fake.SeedDocument(map[string]any{
		"prefix": map[string]any{"ex": "http://example.org/"},
		"entity": map[string]any{"ex:e1": map[string]any{}, "ex:e2": map[string]any{}},
	}, "doc-1", true)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	resp, err := http.Get(fmt.Sprintf("%s/documents/%d.provn", srv.URL, id))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	provn := buf.String()
	assert.True(t, strings.HasPrefix(provn, "document\n"), provn)
	assert.Contains(t, provn, "prefix ex <http://example.org/>")
	assert.Contains(t, provn, "entity(ex:e1)")
	assert.Contains(t, provn, "endDocument")
}

func TestServer_UnsupportedFormat(t *testing.T) {
	fake := NewServer()
	id := fake.SeedDocument(map[string]any{"entity": map[string]any{}}, "doc-1", true)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	resp, err := http.Get(fmt.Sprintf("%s/documents/%d.ttl", srv.URL, id))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_MetaAndDelete(t *testing.T) {
	fake := NewServer()
	id := fake.SeedDocument(map[string]any{"entity": map[string]any{}}, "doc-meta", false)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	metaResp, err := http.Get(fmt.Sprintf("%s/documents/%d/", srv.URL, id))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, metaResp.StatusCode)
	meta := decodeBody(t, metaResp)
	assert.Equal(t, "doc-meta", meta["document_name"])
	assert.Equal(t, false, meta["public"])
	assert.Equal(t, float64(0), meta["bundles_count"])

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/documents/%d/", srv.URL, id), nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	assert.Equal(t, 0, fake.DocumentCount())

	// Second delete answers 404.
	again, err := http.DefaultClient.Do(req.Clone(req.Context()))
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestServer_Bundles(t *testing.T) {
	fake := NewServer()
	id := fake.SeedDocument(map[string]any{
		"entity": map[string]any{"ex:e1": map[string]any{}},
	}, "doc-1", true)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	bundleURL := fmt.Sprintf("%s/documents/%d/bundles/", srv.URL, id)
	resp := postJSON(t, bundleURL, map[string]any{
		"content": map[string]any{"entity": map[string]any{"ex:b1": map[string]any{}}},
		"rec_id":  "ex:bundle1",
	}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Bundle shows up in the document and in the flattened rendering.
	getResp, err := http.Get(fmt.Sprintf("%s/documents/%d.json", srv.URL, id))
	require.NoError(t, err)
	body := decodeBody(t, getResp)
	bundleSection, ok := body["bundle"].(map[string]any)
	require.True(t, ok, "bundle section missing: %v", body)
	assert.Contains(t, bundleSection, "ex:bundle1")

	flatResp, err := http.Get(fmt.Sprintf("%s/documents/%d/flattened.json", srv.URL, id))
	require.NoError(t, err)
	flat := decodeBody(t, flatResp)
	assert.NotContains(t, flat, "bundle")
	entities, ok := flat["entity"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, entities, "ex:e1")
	assert.Contains(t, entities, "ex:b1")

	// Duplicate bundle identifiers are rejected.
	dup := postJSON(t, bundleURL, map[string]any{
		"content": map[string]any{"entity": map[string]any{}},
		"rec_id":  "ex:bundle1",
	}, nil)
	defer dup.Body.Close()
	assert.Equal(t, http.StatusBadRequest, dup.StatusCode)

	// Unknown parent answers 404.
	missing := postJSON(t, srv.URL+"/documents/999/bundles/", map[string]any{
		"content": map[string]any{"entity": map[string]any{}},
		"rec_id":  "ex:other",
	}, nil)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestServer_AuthEnforcement(t *testing.T) {
	fake := NewServer(WithAPIKey("alice", "secret"))
	privateID := fake.SeedDocument(map[string]any{"entity": map[string]any{}}, "private-doc", false)
	publicID := fake.SeedDocument(map[string]any{"entity": map[string]any{}}, "public-doc", true)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	authHeader := http.Header{"Authorization": []string{"ApiKey alice:secret"}}

	// Writes require the key.
	anon := postJSON(t, srv.URL+"/documents/", map[string]any{
		"content": map[string]any{"entity": map[string]any{}},
	}, nil)
	defer anon.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)

	authed := postJSON(t, srv.URL+"/documents/", map[string]any{
		"content": map[string]any{"entity": map[string]any{}},
	}, authHeader)
	defer authed.Body.Close()
	assert.Equal(t, http.StatusCreated, authed.StatusCode)

	// Private reads require the key; public reads do not.
	resp, err := http.Get(fmt.Sprintf("%s/documents/%d.json", srv.URL, privateID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	pubResp, err := http.Get(fmt.Sprintf("%s/documents/%d.json", srv.URL, publicID))
	require.NoError(t, err)
	defer pubResp.Body.Close()
	assert.Equal(t, http.StatusOK, pubResp.StatusCode)

	// Wrong key is rejected.
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/documents/%d.json", srv.URL, privateID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "ApiKey alice:wrong")
	wrong, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer wrong.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
}

func TestServer_ViewPathsServeDocument(t *testing.T) {
	fake := NewServer()
	id := fake.SeedDocument(map[string]any{"entity": map[string]any{"ex:e1": map[string]any{}}}, "doc-1", true)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	for _, path := range []string{
		fmt.Sprintf("/documents/%d/views/data.json", id),
		fmt.Sprintf("/documents/%d/views/process.json", id),
		fmt.Sprintf("/documents/%d/flattened/views/responsibility.json", id),
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
