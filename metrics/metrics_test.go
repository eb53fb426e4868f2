package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounterIsStableAcrossCalls(t *testing.T) {
	c1 := Counter("test_counter_stable")
	c2 := Counter("test_counter_stable")
	c1.Add(1)
	c2.Add(1)
	if got := testutil.ToFloat64(c1); got != 2 {
		t.Fatalf("got %v, want 2 (both handles share one collector)", got)
	}
}

func TestHistogramDefaultBuckets(t *testing.T) {
	h := Histogram("test_hist_default", nil)
	h.Observe(1.5)
}

func TestHTTPHandlerServes(t *testing.T) {
	Counter("test_counter_for_handler").Add(1)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	HTTPHandler().ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}
