package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWithRegistry_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry("test", reg)

	m.SamplesEvaluated.Add(3)
	m.Rejections.WithLabelValues("trine").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.SamplesEvaluated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("trine")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["test_search_samples_evaluated_total"])
	assert.True(t, names["test_search_rejections_total"])
}

func TestRecordSample(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.SamplesEvaluated)
	acceptedBefore := testutil.ToFloat64(DefaultMetrics.CandidatesAccepted)
	padBefore := testutil.ToFloat64(DefaultMetrics.Rejections.WithLabelValues("padekyata"))

	RecordSample("")
	RecordSample("padekyata")

	assert.Equal(t, before+2, testutil.ToFloat64(DefaultMetrics.SamplesEvaluated))
	assert.Equal(t, acceptedBefore+1, testutil.ToFloat64(DefaultMetrics.CandidatesAccepted))
	assert.Equal(t, padBefore+1, testutil.ToFloat64(DefaultMetrics.Rejections.WithLabelValues("padekyata")))
}

func TestRecordAttempt(t *testing.T) {
	found := DefaultMetrics.AttemptsTotal.WithLabelValues("primary", "found")
	empty := DefaultMetrics.AttemptsTotal.WithLabelValues("primary", "empty")
	f0, e0 := testutil.ToFloat64(found), testutil.ToFloat64(empty)

	RecordAttempt("primary", 2, 10*time.Millisecond)
	RecordAttempt("primary", 0, 10*time.Millisecond)

	assert.Equal(t, f0+1, testutil.ToFloat64(found))
	assert.Equal(t, e0+1, testutil.ToFloat64(empty))
}

func TestRecordEphemerisCall(t *testing.T) {
	errs := DefaultMetrics.EphemerisErrors.WithLabelValues("sunrise_sunset")
	before := testutil.ToFloat64(errs)

	RecordEphemerisCall("sunrise_sunset", time.Millisecond, nil)
	RecordEphemerisCall("sunrise_sunset", time.Millisecond, errors.New("polar"))

	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}

func TestStreamOpened(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ActiveStreams)
	done := StreamOpened()
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.ActiveStreams))
	done()
	assert.Equal(t, before, testutil.ToFloat64(DefaultMetrics.ActiveStreams))
}

func TestHTTPCode(t *testing.T) {
	assert.Equal(t, "2xx", httpCode(200))
	assert.Equal(t, "4xx", httpCode(422))
	assert.Equal(t, "5xx", httpCode(503))
}
