package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"TurnipSentinel/internal/model"
)

func TestRecordPrediction(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	var result model.Result
	result.AddWave("RRR22RRR333R", model.Prediction{})
	result.ThirdPeriod[model.SlotWed1] = &model.Prediction{}
	m.RecordPrediction("api", 0.002, &result)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeasibleHypotheses.WithLabelValues("wave")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FeasibleHypotheses.WithLabelValues("falling")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.UnexplainedWeeks))

	m.RecordPrediction("api", 0.001, &model.Result{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnexplainedWeeks))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FeasibleHypotheses.WithLabelValues("wave")))
}

func TestRecordObservation(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())
	m.RecordObservation("telegram", "set", 3)
	m.RecordObservation("telegram", "set", 4)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ObservationsTotal.WithLabelValues("telegram", "set")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ObservedSlots))
}

func TestHandler(t *testing.T) {
	DefaultMetrics.RecordCommand("/predict")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `turnip_sentinel_bot_commands_total{command="/predict"}`)
}
