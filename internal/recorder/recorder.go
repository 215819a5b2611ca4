package recorder

import (
	"time"

	"TurnipSentinel/internal/model"
)

// ObservationEvent records one change to the week's observation book.
type ObservationEvent struct {
	Slot   model.Slot
	Price  *int   // nil when the price was cleared
	Source string // "telegram", "api"
}

// PredictionEvent records one prediction run and its outcome.
type PredictionEvent struct {
	Trigger   string // "command", "report", "api"
	Preset    string
	Tolerance int
	Series    model.Series
	Result    model.Result
}

// WeekEvent archives the observations of a finished week.
type WeekEvent struct {
	StartedAt time.Time
	EndedAt   time.Time
	Series    model.Series
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordObservation(evt *ObservationEvent) error
	RecordPrediction(evt *PredictionEvent) error
	RecordWeek(evt *WeekEvent) error
	RecentWeeks(limit int) ([]WeekEvent, error)
	Close() error
}
