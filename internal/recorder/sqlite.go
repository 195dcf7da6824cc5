package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists chart runs and their bars to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			source      TEXT,
			start_date  TEXT,
			end_date    TEXT,
			bar_count   INTEGER,
			output_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ticker_ts ON chart_runs(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS daily_bars (
			run_id INTEGER NOT NULL REFERENCES chart_runs(id),
			date   TEXT NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			status TEXT,
			median REAL,
			height REAL,
			PRIMARY KEY (run_id, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and all of its bars in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := run.Series
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO chart_runs
		(timestamp, ticker, source, start_date, end_date, bar_count, output_path)
		VALUES (?,?,?,?,?,?,?)`,
		run.RenderedAt.Unix(), s.Ticker, s.Source,
		s.Start.Format(dateLayout), s.End.Format(dateLayout),
		len(s.Bars), run.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO daily_bars
		(run_id, date, open, high, low, close, volume, status, median, height)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare bars: %w", err)
	}
	defer stmt.Close()

	for _, b := range s.Bars {
		if _, err := stmt.Exec(runID, b.Date.Format(dateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume,
			b.Status.String(), b.Median, b.Height,
		); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Date.Format(dateLayout), err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, ticker, source, start_date, end_date, bar_count, output_path
		FROM chart_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var rs RunSummary
		var ts int64
		if err := rows.Scan(&rs.ID, &ts, &rs.Ticker, &rs.Source, &rs.StartDate, &rs.EndDate, &rs.BarCount, &rs.OutputPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.RenderedAt = time.Unix(ts, 0)
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}

// BarStatuses returns the stored status of each bar of a run, oldest first.
func (r *SQLiteRecorder) BarStatuses(runID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT status FROM daily_bars WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
