package provstore

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve_CountsAttemptsAndFailures(t *testing.T) {
	observe("test_operation", nil)
	observe("test_operation", errors.New("boom"))

	if got := testutil.ToFloat64(requestsTotal.WithLabelValues("test_operation")); got != 2 {
		t.Fatalf("requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(requestFailuresTotal.WithLabelValues("test_operation")); got != 1 {
		t.Fatalf("request_failures_total = %v, want 1", got)
	}
}
