// Package provstoretest provides an in-memory stand-in for the ProvStore
// REST API covering the surface the provstore client consumes. It is meant
// for tests:
//
//	fake := provstoretest.NewServer()
//	srv := httptest.NewServer(fake)
//	defer srv.Close()
//	c, _ := provstore.New(srv.URL)
//
// Documents and bundles live in memory with sequential integer ids.
// PROV-JSON is served from the stored containers; provn is a minimal
// rendering of prefixes and entity names, and any other format answers
// 422, mirroring how the real store reports conversions it cannot do.
// Views are accepted in paths but not computed; the stored document is
// returned as-is.
package provstoretest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Server implements http.Handler for the fake store.
type Server struct {
	mu     sync.Mutex
	nextID int
	docs   map[int]*document

	username string
	apiKey   string

	router *mux.Router
}

type document struct {
	id        int
	recID     string
	public    bool
	content   map[string]any
	bundles   map[string]map[string]any
	createdAt time.Time
}

// Option configures a Server during construction.
type Option func(*Server)

// WithAPIKey requires the ProvStore "ApiKey {username}:{key}" header for
// writes and for reading private documents. Public documents stay readable
// anonymously, like on the real store.
func WithAPIKey(username, key string) Option {
	return func(s *Server) {
		s.username = username
		s.apiKey = key
	}
}

// NewServer builds a fake store. Without options every request is allowed.
func NewServer(opts ...Option) *Server {
	s := &Server{
		nextID: 1,
		docs:   make(map[int]*document),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	router.HandleFunc("/documents/", s.handleSubmit).Methods("POST")
	router.HandleFunc("/documents/{id:[0-9]+}/", s.handleMeta).Methods("GET")
	router.HandleFunc("/documents/{id:[0-9]+}/", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/documents/{id:[0-9]+}/bundles/", s.handleAddBundle).Methods("POST")
	router.HandleFunc("/documents/{id:[0-9]+}.{ext}", s.handleGet).Methods("GET")
	router.HandleFunc("/documents/{id:[0-9]+}/flattened.{ext}", s.handleGet).Methods("GET")
	router.HandleFunc("/documents/{id:[0-9]+}/views/{view}.{ext}", s.handleGet).Methods("GET")
	router.HandleFunc("/documents/{id:[0-9]+}/flattened/views/{view}.{ext}", s.handleGet).Methods("GET")
	s.router = router

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SeedDocument stores a document directly, bypassing HTTP, and returns its
// id. Useful for read-only test flows.
func (s *Server) SeedDocument(content map[string]any, recID string, public bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store(content, recID, public)
}

// DocumentCount reports how many documents the fake currently holds.
func (s *Server) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// store inserts a document. Caller holds s.mu.
func (s *Server) store(content map[string]any, recID string, public bool) int {
	id := s.nextID
	s.nextID++
	s.docs[id] = &document{
		id:        id,
		recID:     recID,
		public:    public,
		content:   content,
		bundles:   make(map[string]map[string]any),
		createdAt: time.Now().UTC(),
	}
	return id
}

func (s *Server) authorized(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == "ApiKey "+s.username+":"+s.apiKey
}

// --------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------

type submitPayload struct {
	Content map[string]any `json:"content"`
	Public  bool           `json:"public"`
	RecID   string         `json:"rec_id"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	// Numbers stay json.Number so large integer attributes survive
	// storage and re-serving intact.
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload submitPayload
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	s.mu.Lock()
	id := s.store(payload.Content, payload.RecID, payload.Public)
	doc := s.docs[id]
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":            doc.id,
		"document_name": doc.recID,
		"public":        doc.public,
		"created_at":    doc.createdAt.Format(time.RFC3339),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])
	ext := vars["ext"]
	flattened := strings.Contains(r.URL.Path, "/flattened")

	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if !doc.public && !s.authorized(r) {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	container := doc.container()
	if flattened {
		container = doc.flattenedContainer()
	}
	recID := doc.recID
	s.mu.Unlock()

	switch ext {
	case "json":
		writeJSON(w, http.StatusOK, container)
	case "provn":
		w.Header().Set("Content-Type", "text/provenance-notation")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(provnRendering(container)))
	default:
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("cannot convert %q to %s", recID, ext))
	}
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if !doc.public && !s.authorized(r) {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	meta := map[string]any{
		"id":            doc.id,
		"document_name": doc.recID,
		"public":        doc.public,
		"created_at":    doc.createdAt.Format(time.RFC3339),
		"bundles_count": len(doc.bundles),
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, meta)
}

type bundlePayload struct {
	Content map[string]any `json:"content"`
	RecID   string         `json:"rec_id"`
}

func (s *Server) handleAddBundle(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload bundlePayload
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if payload.RecID == "" {
		writeError(w, http.StatusBadRequest, "rec_id is required")
		return
	}

	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if _, exists := doc.bundles[payload.RecID]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "bundle identifier already in use")
		return
	}
	doc.bundles[payload.RecID] = payload.Content
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	s.mu.Lock()
	_, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	delete(s.docs, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// --------------------------------------------------------------------
// Document renderings
// --------------------------------------------------------------------

// container returns the stored document with bundles added via the API
// folded into its "bundle" section. Caller holds s.mu.
func (d *document) container() map[string]any {
	if len(d.bundles) == 0 {
		return d.content
	}
	out := make(map[string]any, len(d.content)+1)
	for k, v := range d.content {
		out[k] = v
	}
	bundleSection := make(map[string]any)
	if cur, ok := out["bundle"].(map[string]any); ok {
		for k, v := range cur {
			bundleSection[k] = v
		}
	}
	for recID, b := range d.bundles {
		bundleSection[recID] = b
	}
	out["bundle"] = bundleSection
	return out
}

// flattenedContainer merges every bundle's sections into the top level and
// drops the bundle section, approximating the store's flattened rendering.
// Caller holds s.mu.
func (d *document) flattenedContainer() map[string]any {
	out := make(map[string]any, len(d.content))
	for k, v := range d.content {
		if k == "bundle" {
			continue
		}
		out[k] = v
	}
	for _, bundle := range d.bundles {
		for section, records := range bundle {
			recs, ok := records.(map[string]any)
			if !ok {
				continue
			}
			merged := make(map[string]any, len(recs))
			if cur, ok := out[section].(map[string]any); ok {
				for k, v := range cur {
					merged[k] = v
				}
			}
			for k, v := range recs {
				merged[k] = v
			}
			out[section] = merged
		}
	}
	return out
}

// provnRendering produces a minimal PROV-N form: prefix declarations and
// entity names, enough for clients that only check the envelope.
func provnRendering(container map[string]any) string {
	var b strings.Builder
	b.WriteString("document\n")
	if prefixes, ok := container["prefix"].(map[string]any); ok {
		for _, k := range sortedKeys(prefixes) {
			fmt.Fprintf(&b, "  prefix %s <%v>\n", k, prefixes[k])
		}
	}
	if entities, ok := container["entity"].(map[string]any); ok {
		for _, k := range sortedKeys(entities) {
			fmt.Fprintf(&b, "  entity(%s)\n", k)
		}
	}
	b.WriteString("endDocument\n")
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --------------------------------------------------------------------
// Response helpers
// --------------------------------------------------------------------

type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}
