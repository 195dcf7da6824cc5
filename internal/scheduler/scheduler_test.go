package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"DailyChart/internal/config"
	"DailyChart/internal/runner"
)

type recordingPipeline struct {
	mu   sync.Mutex
	reqs []runner.Request
	err  error
}

func (p *recordingPipeline) Run(_ context.Context, req runner.Request) (*runner.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqs = append(p.reqs, req)
	if p.err != nil {
		return nil, p.err
	}
	return &runner.Result{Path: req.Ticker + "_dailychart.html", Bars: 1}, nil
}

// blockingPipeline holds every run until release is closed.
type blockingPipeline struct {
	release  chan struct{}
	started  atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (p *blockingPipeline) Run(_ context.Context, req runner.Request) (*runner.Result, error) {
	p.started.Add(1)
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		m := p.maxSeen.Load()
		if n <= m || p.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	<-p.release
	return &runner.Result{Path: req.Ticker + "_dailychart.html"}, nil
}

func (p *recordingPipeline) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reqs)
}

func TestScheduler_RelativeRangeFollowsClock(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.Local)
	args, err := config.ParseArgs([]string{"aapl"}, now.AddDate(0, 0, -7))
	require.NoError(t, err)

	p := &recordingPipeline{}
	s := NewScheduler(context.Background(), p, args, zap.NewNop())
	s.Now = func() time.Time { return now }
	s.RunNow()

	require.Equal(t, 1, p.count())
	assert.Equal(t, "AAPL", p.reqs[0].Ticker)
	assert.True(t, p.reqs[0].End.Equal(now))
	assert.True(t, p.reqs[0].Start.Equal(now.AddDate(0, 0, -config.DefaultLookbackDays)))
}

func TestScheduler_FixedRange(t *testing.T) {
	args, err := config.ParseArgs([]string{"MSFT", "2023-1-5", "2023-2-1"}, time.Now())
	require.NoError(t, err)

	s := NewScheduler(context.Background(), &recordingPipeline{}, args, zap.NewNop())
	req := s.Request(time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local))
	assert.Equal(t, args.Start, req.Start)
	assert.Equal(t, args.End, req.End)
}

func TestScheduler_RegisterInvalidSpec(t *testing.T) {
	s := NewScheduler(context.Background(), &recordingPipeline{}, config.Args{Ticker: "AAPL"}, zap.NewNop())
	assert.Error(t, s.Register("every tuesday"))
}

func TestScheduler_FailingRunKeepsScheduling(t *testing.T) {
	p := &recordingPipeline{err: errors.New("network down")}
	s := NewScheduler(context.Background(), p, config.Args{Ticker: "AAPL", Relative: true}, zap.NewNop())
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	assert.Eventually(t, func() bool { return p.count() >= 2 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestScheduler_SlowRunSkipsOverlappingTicks(t *testing.T) {
	p := &blockingPipeline{release: make(chan struct{})}
	s := NewScheduler(context.Background(), p, config.Args{Ticker: "AAPL", Relative: true}, zap.NewNop())
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	require.Eventually(t, func() bool { return p.started.Load() == 1 }, 5*time.Second, 20*time.Millisecond)

	// At least two more ticks fire while the first render is blocked.
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), p.started.Load())

	close(p.release)
	s.Stop()
	assert.Equal(t, int32(1), p.maxSeen.Load())
}
