package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"DailyChart/internal/config"
	"DailyChart/internal/runner"
)

// Pipeline runs one chart request.
type Pipeline interface {
	Run(ctx context.Context, req runner.Request) (*runner.Result, error)
}

// Scheduler re-renders a chart on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline Pipeline
	Args     config.Args
	Logger   *zap.Logger
	Ctx      context.Context
	Now      func() time.Time
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
// A tick that fires while the previous render is still running is skipped.
func NewScheduler(ctx context.Context, p Pipeline, args config.Args, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl)),
		),
		Pipeline: p,
		Args:     args,
		Logger:   logger,
		Ctx:      ctx,
		Now:      time.Now,
	}
}

// Register adds the render job.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.renderTask); err != nil {
		return fmt.Errorf("register render task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.String("ticker", s.Args.Ticker))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// Request builds the request for a tick at now. A trailing default range moves with the clock.
func (s *Scheduler) Request(now time.Time) runner.Request {
	req := runner.Request{Ticker: s.Args.Ticker, Start: s.Args.Start, End: s.Args.End}
	if s.Args.Relative {
		req.Start, req.End = config.DefaultRange(now)
	}
	return req
}

// RunNow executes the render task immediately.
func (s *Scheduler) RunNow() {
	s.renderTask()
}

func (s *Scheduler) renderTask() {
	req := s.Request(s.Now())
	s.Logger.Info("running scheduled render", zap.String("ticker", req.Ticker))

	res, err := s.Pipeline.Run(s.Ctx, req)
	if err != nil {
		s.Logger.Error("scheduled render", zap.String("ticker", req.Ticker), zap.Error(err))
		return
	}
	s.Logger.Info("scheduled render done",
		zap.String("path", res.Path),
		zap.Int("bars", res.Bars),
		zap.Duration("took", res.Duration))
}

// cronLogger routes cron's own messages, such as skipped ticks, to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
