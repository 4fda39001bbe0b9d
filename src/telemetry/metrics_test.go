package telemetry

import (
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m.Packets.WithLabelValues("Single", "Single").Inc()

	if got := testutil.ToFloat64(m.Packets.WithLabelValues("Single", "Single")); got != 1 {
		t.Fatalf("packets should be 1, not %v", got)
	}

	// a second set on the same registry collides
	if _, err := NewMetrics(reg); err == nil {
		t.Fatal("registering twice should fail")
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m.Errors.WithLabelValues("Malformed").Add(3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := ioutil.ReadAll(rec.Body)
	if !strings.Contains(string(body), `meshwire_decode_errors_total{kind="Malformed"} 3`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestBuildInfo(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m.SetBuildInfo("0.1.0", "deadbeef")

	if got := testutil.ToFloat64(m.buildInfo.WithLabelValues("0.1.0", "deadbeef")); got != 1 {
		t.Fatalf("build_info should be 1, not %v", got)
	}
}
