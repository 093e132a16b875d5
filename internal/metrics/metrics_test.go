package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)

	Recorder{}.RecordMutation("deal", "vote")
	ObserveHTTPRequest(http.MethodGet, "/deals", http.StatusOK, time.Now())

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"dealflow_mutations_total", "dealflow_http_requests_total", "dealflow_http_request_duration_seconds"} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestRecorder(t *testing.T) {
	c := MutationsTotal.WithLabelValues("comment", "create")
	before := testutil.ToFloat64(c)

	Recorder{}.RecordMutation("comment", "create")
	Recorder{}.RecordMutation("comment", "create")

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("mutations delta = %v, want 2", got)
	}
}

func TestObserveHTTPRequest_Unmatched(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(c)

	ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Now())

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("unmatched delta = %v, want 1", got)
	}
}
