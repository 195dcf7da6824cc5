package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"DailyChart/internal/chart"
	"DailyChart/internal/collector"
	"DailyChart/internal/config"
	"DailyChart/internal/logger"
	"DailyChart/internal/recorder"
	"DailyChart/internal/runner"
	"DailyChart/internal/scheduler"
)

const failureMessage = "Something wrong with your arguments, try again."

// newFetcher is replaced in tests.
var newFetcher = collector.New

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// failures are reported on stdout and the process still exits 0
	_ = execute(ctx, os.Args, os.Stdout)
}

// execute runs the command line. Any failure is reported with one fixed message.
func execute(ctx context.Context, argv []string, stdout io.Writer) error {
	err := newCommand(stdout).Run(ctx, argv)
	if err != nil {
		fmt.Fprintln(stdout, failureMessage)
	}
	return err
}

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "dailychart",
		Usage:     "Draw an interactive daily candlestick chart for a stock",
		ArgsUsage: "TICKER [START END]  (dates as YYYY-M-D, default range is the last 30 days)",
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "configs/config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("Data source (%s, %s, %s)", config.ProviderStooq, config.ProviderYahoo, config.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"o"},
				Usage:   "Directory the chart file is written to",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "Do not open the chart in the default browser",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite file recording chart history",
			},
			&cli.StringFlag{
				Name:  "watch",
				Usage: "Re-render on this cron `SPEC` (with seconds field) until interrupted",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Debug logging",
			},
		},
		Action: chartAction,
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("source") {
		cfg.DataSource.Provider = cmd.String("source")
	}
	if cmd.IsSet("out-dir") {
		cfg.Output.Dir = cmd.String("out-dir")
	}
	if cmd.Bool("no-open") {
		cfg.Output.OpenBrowser = false
	}
	if cmd.IsSet("db") {
		cfg.Database.SQLitePath = cmd.String("db")
	}
	if cmd.IsSet("watch") {
		cfg.Schedule.WatchCron = cmd.String("watch")
	}
	if cmd.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func chartAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.ShowAppHelp(cmd)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stderr sync fails on some terminals

	if err := run(ctx, cmd.Root().Writer, cfg, cmd.Args().Slice(), log); err != nil {
		log.Error("dailychart failed", zap.Error(err))
		return err
	}
	return nil
}

func run(ctx context.Context, stdout io.Writer, cfg *config.Config, positional []string, log *zap.Logger) error {
	args, err := config.ParseArgs(positional, time.Now())
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	log.Debug("data source selected", zap.String("source", fetcher.Name()))

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	var viewer chart.Viewer = chart.NoopViewer{}
	if cfg.Output.OpenBrowser {
		viewer = chart.BrowserViewer{}
	}

	r := &runner.Runner{
		Collector: collector.NewCollector(fetcher, log),
		Renderer:  chart.NewRenderer(cfg.Output.Width, cfg.Output.Height),
		Viewer:    viewer,
		Recorder:  rec,
		OutputDir: cfg.Output.Dir,
		Logger:    log,
	}

	res, err := r.Run(ctx, runner.Request{Ticker: args.Ticker, Start: args.Start, End: args.End})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Path)

	if cfg.Schedule.WatchCron == "" {
		return nil
	}

	// the first render already opened the viewer; later renders refresh the file in place
	r.Viewer = chart.NoopViewer{}
	sched := scheduler.NewScheduler(ctx, r, args, log)
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	log.Info("watching, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.WatchCron))
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	return nil
}
