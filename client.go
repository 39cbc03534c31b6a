package provstore

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openprovenance/provstore-go/internal/api"
	"github.com/openprovenance/provstore-go/internal/types"
	"github.com/openprovenance/provstore-go/prov"
)

// DefaultBaseURL is the public ProvStore deployment at Southampton.
const DefaultBaseURL = "https://provenance.ecs.soton.ac.uk/store/api/v0/"

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to one ProvStore deployment. It is immutable after New and
// safe for concurrent use.
type Client struct {
	baseURL  string
	username string
	apiKey   string
	http     *http.Client
}

// New constructs a Client for the ProvStore API at baseURL. An empty
// baseURL selects DefaultBaseURL; a missing trailing slash is added so
// endpoint paths append cleanly. Credentials and transport behaviour come
// in via functional options.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	// Wrap HTTP transport to automatically add the Authorization header
	c.wrapTransportWithAPIKey()

	return c, nil
}

// BaseURL returns the normalised base URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// wrapTransportWithAPIKey wraps the HTTP client's transport to add the
// ProvStore Authorization header to all requests. Clients without an API
// key stay anonymous; public documents are readable without one.
func (c *Client) wrapTransportWithAPIKey() {
	if c.apiKey == "" {
		return
	}
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &apiKeyTransport{
		base:     baseTransport,
		username: c.username,
		apiKey:   c.apiKey,
	}
}

// apiKeyTransport wraps an http.RoundTripper to add the Authorization
// header in the store's "ApiKey {username}:{key}" shape. The username may
// be empty; the header keeps the same shape either way.
type apiKeyTransport struct {
	base     http.RoundTripper
	username string
	apiKey   string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "ApiKey "+t.username+":"+t.apiKey)
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Document operations - delegated to internal/api
// --------------------------------------------------------------------

// SubmitDocument stores doc under identifier and returns the id the store
// assigned to it. The identifier travels as the document's rec_id; public
// controls whether the document is readable without credentials.
func (c *Client) SubmitDocument(ctx context.Context, doc *prov.Document, identifier string, public bool) (int, error) {
	id, err := api.SubmitDocument(ctx, c.http, c.baseURL, types.SubmitDocumentRequest{
		Content: doc,
		Public:  public,
		RecID:   identifier,
	})
	observe("submit_document", err)
	return id, err
}

// GetDocument retrieves the document with the given id in PROV-JSON form
// and decodes it. A nil opts requests the document as stored; opts can
// narrow the retrieval to the flattened rendering or one of the store's
// views.
func (c *Client) GetDocument(ctx context.Context, docID int, opts *GetOptions) (*prov.Document, error) {
	var flattened bool
	var view View
	if opts != nil {
		flattened = opts.Flattened
		view = opts.View
	}
	doc, err := api.GetDocument(ctx, c.http, c.baseURL, docID, flattened, view)
	observe("get_document", err)
	return doc, err
}

// GetDocumentRaw retrieves the document rendered in the given format
// (provn, xml, ...) and returns the response body verbatim. An empty
// format selects PROV-JSON. Whether a format is available for a given
// document is decided server-side.
func (c *Client) GetDocumentRaw(ctx context.Context, docID int, format string, opts *GetOptions) ([]byte, error) {
	var flattened bool
	var view View
	if opts != nil {
		flattened = opts.Flattened
		view = opts.View
	}
	body, err := api.GetDocumentRaw(ctx, c.http, c.baseURL, docID, format, flattened, view)
	observe("get_document_raw", err)
	return body, err
}

// GetDocumentMeta retrieves the metadata record the store keeps alongside
// a document.
func (c *Client) GetDocumentMeta(ctx context.Context, docID int) (DocumentMeta, error) {
	meta, err := api.GetDocumentMeta(ctx, c.http, c.baseURL, docID)
	observe("get_document_meta", err)
	return meta, err
}

// AddBundle attaches bundle to the document with the given id under the
// bundle identifier. Success is a nil error.
func (c *Client) AddBundle(ctx context.Context, docID int, bundle *prov.Document, identifier string) error {
	err := api.AddBundle(ctx, c.http, c.baseURL, docID, types.AddBundleRequest{
		Content: bundle,
		RecID:   identifier,
	})
	observe("add_bundle", err)
	return err
}

// DeleteDocument removes the document with the given id, along with its
// bundles. Success is a nil error.
func (c *Client) DeleteDocument(ctx context.Context, docID int) error {
	err := api.DeleteDocument(ctx, c.http, c.baseURL, docID)
	observe("delete_document", err)
	return err
}
