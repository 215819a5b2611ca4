// Package forecast ties the prediction engine to the week's observation
// book, the history recorder and the metrics.
package forecast

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"TurnipSentinel/internal/metrics"
	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/recorder"
	"TurnipSentinel/internal/strategy"
	"TurnipSentinel/internal/week"
)

// Service is safe for concurrent use; the week manager and recorder do
// their own locking and the engine is pure.
type Service struct {
	Week     *week.Manager
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics

	preset string
	params model.Parameters
}

// NewService creates a Service predicting with params, labelled presetName.
func NewService(presetName string, params model.Parameters, wm *week.Manager, rec recorder.Recorder, m *metrics.Metrics) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Service{
		Week:     wm,
		Recorder: rec,
		Metrics:  m,
		preset:   presetName,
		params:   params,
	}
}

// Preset is the label of the configured parameter set.
func (s *Service) Preset() string { return s.preset }

// Params returns a copy of the configured parameters.
func (s *Service) Params() model.Parameters { return s.params.Clone() }

// Predict runs the engine on series with the configured parameters.
func (s *Service) Predict(trigger string, series model.Series) model.Result {
	return s.PredictWith(trigger, s.preset, s.params, series)
}

// PredictWith runs the engine with explicit parameters, recording the run.
func (s *Service) PredictWith(trigger, presetName string, params model.Parameters, series model.Series) model.Result {
	start := time.Now()
	result := strategy.Predict(params, series)
	elapsed := time.Since(start)

	s.Metrics.RecordPrediction(trigger, elapsed.Seconds(), &result)
	log.Debug().
		Str("trigger", trigger).
		Str("preset", presetName).
		Int("observed", series.Count()).
		Int("feasible", result.Feasible()).
		Dur("elapsed", elapsed).
		Msg("prediction complete")

	if err := s.Recorder.RecordPrediction(&recorder.PredictionEvent{
		Trigger:   trigger,
		Preset:    presetName,
		Tolerance: params.Tolerance,
		Series:    series,
		Result:    result,
	}); err != nil {
		log.Error().Err(err).Msg("record prediction")
	}
	return result
}

// PredictWeek predicts the current week's observations.
func (s *Service) PredictWeek(trigger string) (model.Series, model.Result) {
	series := s.Week.Series()
	return series, s.Predict(trigger, series)
}

// Observe records a price for the current week.
func (s *Service) Observe(source string, slot model.Slot, price int) (model.Series, error) {
	series, err := s.Week.Set(slot, price)
	if err != nil {
		return series, err
	}
	s.afterChange(source, "set", slot, &price, series)
	return series, nil
}

// Forget clears a price from the current week.
func (s *Service) Forget(source string, slot model.Slot) (model.Series, error) {
	series, err := s.Week.Clear(slot)
	if err != nil {
		return series, err
	}
	s.afterChange(source, "clear", slot, nil, series)
	return series, nil
}

// ReplaceWeek overwrites every slot of the current week.
func (s *Service) ReplaceWeek(source string, series model.Series) error {
	if err := s.Week.Replace(series); err != nil {
		return err
	}
	s.Metrics.RecordObservation(source, "replace", series.Count())
	for slot := model.SlotSun; slot < model.SlotCount; slot++ {
		if v, ok := series.Get(slot); ok {
			s.recordObservation(source, slot, &v)
		}
	}
	return nil
}

// ResetWeek archives the current week and starts an empty one.
func (s *Service) ResetWeek() (model.Series, error) {
	startedAt := s.Week.State().StartedAt
	prev, err := s.Week.Reset()
	if err != nil {
		return prev, fmt.Errorf("reset week: %w", err)
	}
	s.Metrics.RecordObservation("scheduler", "reset", 0)
	if prev.Count() > 0 {
		if err := s.Recorder.RecordWeek(&recorder.WeekEvent{
			StartedAt: startedAt,
			EndedAt:   time.Now(),
			Series:    prev,
		}); err != nil {
			log.Error().Err(err).Msg("archive week")
		}
	}
	return prev, nil
}

// History returns up to limit archived weeks, most recent first.
func (s *Service) History(limit int) ([]recorder.WeekEvent, error) {
	return s.Recorder.RecentWeeks(limit)
}

func (s *Service) afterChange(source, action string, slot model.Slot, price *int, series model.Series) {
	s.Metrics.RecordObservation(source, action, series.Count())
	s.recordObservation(source, slot, price)
}

func (s *Service) recordObservation(source string, slot model.Slot, price *int) {
	if err := s.Recorder.RecordObservation(&recorder.ObservationEvent{
		Slot:   slot,
		Price:  price,
		Source: source,
	}); err != nil {
		log.Error().Err(err).Str("slot", slot.String()).Msg("record observation")
	}
}
