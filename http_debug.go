package provstore

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport provides detailed HTTP request/response logging for
// debugging client issues: malformed payloads, authorization failures,
// unexpected status codes from a store deployment.
//
// Enable it with WithDebugLogging(true), or set PROVSTORE_DEBUG=true (or
// DEBUG=true) in the environment to switch it on without code changes.
//
// Dumps include full bodies, so provenance content and the ApiKey header
// end up in the logs. Keep it out of production environments.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}

	if debugLoggingRequested() {
		if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		if debugLoggingRequested() {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if debugLoggingRequested() {
		if respDump, err := httputil.DumpResponse(resp, true); err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

// debugLoggingRequested checks if HTTP debug logging should be enabled.
// PROVSTORE_DEBUG targets this SDK alone; DEBUG is honoured as the broader
// convention. Both compare against "true" (case-sensitive).
func debugLoggingRequested() bool {
	return os.Getenv("PROVSTORE_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
