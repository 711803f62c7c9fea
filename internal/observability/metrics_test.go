package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/complaints", http.MethodPost, 201, 15*time.Millisecond)
	m.RecordRequest("/api/complaints", http.MethodPost, 201, 5*time.Millisecond)
	m.RecordError("/api/complaints/:id", http.MethodGet, "NOT_FOUND")
	m.RecordAssignment("strict")
	m.RecordAssignment("none")
	m.RecordAssignment("strict")

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/complaints", http.MethodPost, "201")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/complaints/:id", http.MethodGet, "NOT_FOUND")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.assignments.WithLabelValues("strict")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.assignments.WithLabelValues("none")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
		m.RecordError("/", http.MethodGet, "X")
		m.RecordAssignment("fuzzy")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordAssignment("fuzzy")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `complaint_service_assignment_outcomes_total{kind="fuzzy"} 1`))
}
