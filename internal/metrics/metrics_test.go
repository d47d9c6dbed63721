package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()
	require.NotNil(t, m)
	assert.NotNil(t, m.ActivationsTotal)
	assert.NotNil(t, m.RefreshesTotal)
	assert.NotNil(t, m.PersistFailuresTotal)
	assert.NotNil(t, m.ActiveProfile)
	assert.NotNil(t, m.Registry())
}

func TestActiveProfile_StartsAtMinusOne(t *testing.T) {
	m := New()
	assert.Equal(t, float64(-1), testutil.ToFloat64(m.ActiveProfile))
}

func TestCounters(t *testing.T) {
	m := New()

	m.ActivationsTotal.WithLabelValues("success").Inc()
	m.ActivationsTotal.WithLabelValues("error").Inc()
	m.ActivationsTotal.WithLabelValues("success").Inc()
	m.RefreshesTotal.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ActivationsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActivationsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RefreshesTotal))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ActivationsTotal.WithLabelValues("success").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "proxytoggle_activations_total")
	assert.Contains(t, rec.Body.String(), "proxytoggle_refreshes_total")
}
