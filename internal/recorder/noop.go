package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordObservation(_ *ObservationEvent) error { return nil }
func (n *NoopRecorder) RecordPrediction(_ *PredictionEvent) error   { return nil }
func (n *NoopRecorder) RecordWeek(_ *WeekEvent) error               { return nil }
func (n *NoopRecorder) RecentWeeks(_ int) ([]WeekEvent, error)      { return nil, nil }
func (n *NoopRecorder) Close() error                                { return nil }
