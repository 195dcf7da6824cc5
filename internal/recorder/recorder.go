package recorder

import (
	"time"

	"DailyChart/internal/model"
)

// RunRecord holds everything about one rendered chart.
type RunRecord struct {
	Series     *model.Series
	OutputPath string
	RenderedAt time.Time
}

// RunSummary is a stored chart run as read back from history.
type RunSummary struct {
	ID         int64
	Ticker     string
	Source     string
	StartDate  string
	EndDate    string
	BarCount   int
	OutputPath string
	RenderedAt time.Time
}

// Recorder persists chart run history.
type Recorder interface {
	RecordRun(run *RunRecord) error
	Close() error
}
