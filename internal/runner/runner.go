package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"DailyChart/internal/chart"
	"DailyChart/internal/collector"
	"DailyChart/internal/recorder"
)

// Request is one chart to draw.
type Request struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// Result describes a finished run.
type Result struct {
	Path     string
	Bars     int
	Source   string
	Duration time.Duration
}

// Runner executes the fetch, transform and render pipeline.
type Runner struct {
	Collector *collector.Collector
	Renderer  *chart.Renderer
	Viewer    chart.Viewer
	Recorder  recorder.Recorder
	OutputDir string
	Logger    *zap.Logger
}

// Run draws one chart. Recording failures are logged; every other failure aborts the run.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	began := time.Now()

	series, err := r.Collector.Collect(ctx, req.Ticker, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", req.Ticker, err)
	}

	path, err := r.Renderer.WriteFile(r.OutputDir, series)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Ticker, err)
	}
	r.Logger.Info("chart written", zap.String("ticker", req.Ticker), zap.String("path", path))

	if err := r.Recorder.RecordRun(&recorder.RunRecord{
		Series:     series,
		OutputPath: path,
		RenderedAt: time.Now(),
	}); err != nil {
		r.Logger.Error("record run", zap.String("ticker", req.Ticker), zap.Error(err))
	}

	// A viewer failure is not fatal: the chart is already written.
	if err := r.Viewer.Open(path); err != nil {
		r.Logger.Warn("open chart", zap.String("path", path), zap.Error(err))
	}

	return &Result{
		Path:     path,
		Bars:     len(series.Bars),
		Source:   series.Source,
		Duration: time.Since(began),
	}, nil
}
