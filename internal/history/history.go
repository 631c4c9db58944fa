package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"composition-converter/internal/composition"
	"composition-converter/internal/logging"
	"composition-converter/internal/metrics"
)

// Default timeout for journal operations
const defaultTimeout = 5 * time.Second

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

// Journal stores conversion history.
type Journal struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (creating if needed) the journal at dbPath. The parent
// directory must exist and be writable.
func New(ctx context.Context, dbPath string) (*Journal, error) {
	logging.Info("History journal path: %s", dbPath)

	if err := diagnosePermissions(dbPath); err != nil {
		logging.Warn("History journal permission diagnostics: %v", err)
	}

	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history journal: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close history journal after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to history journal: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, dbPath: dbPath}

	if err := j.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close history journal after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logging.Info("History journal ready at %s", dbPath)
	return j, nil
}

func (j *Journal) initialize(ctx context.Context) error {
	start := time.Now()
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		resolution_factor REAL NOT NULL,
		framerate_factor REAL NOT NULL,
		clips INTEGER NOT NULL DEFAULT 0,
		transforms INTEGER NOT NULL DEFAULT 0,
		durations INTEGER NOT NULL DEFAULT 0,
		custom_durations INTEGER NOT NULL DEFAULT 0,
		paths_updated INTEGER NOT NULL DEFAULT 0,
		text_components INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_created ON conversions(created_at);
	CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status);
	`
	_, err := j.db.ExecContext(ctx, schema)
	recordQuery("initialize_schema", start, err)
	return err
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.dbPath
}

// Record stores an entry and returns its id.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	result, err := j.db.ExecContext(ctx, `
	INSERT INTO conversions (
		input_path, output_path, resolution_factor, framerate_factor,
		clips, transforms, durations, custom_durations, paths_updated,
		text_components, warnings, status, error, duration_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.InputPath, e.OutputPath, e.ResolutionFactor, e.FramerateFactor,
		e.Clips, e.Transforms, e.Durations, e.CustomDurations, e.PathsUpdated,
		e.TextComponents, e.Warnings, e.Status, nullString(e.Error), e.DurationMS, created.Unix(),
	)
	recordQuery("record", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to record conversion: %w", err)
	}
	return result.LastInsertId()
}

// RecordConversion journals the outcome of one conversion. It is safe to
// call on a nil Journal. Failures are logged and never returned, so the
// journal cannot fail a conversion.
func (j *Journal) RecordConversion(ctx context.Context, opts composition.Options, summary *composition.Summary, convErr error, elapsed time.Duration) {
	if j == nil {
		return
	}
	if _, err := j.Record(ctx, NewEntry(opts, summary, convErr, elapsed)); err != nil {
		logging.Warn("History journal: %v", err)
	}
}

// List returns the most recent entries, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := j.db.QueryContext(ctx, `
	SELECT id, input_path, output_path, resolution_factor, framerate_factor,
		clips, transforms, durations, custom_durations, paths_updated,
		text_components, warnings, status, error, duration_ms, created_at
	FROM conversions
	ORDER BY created_at DESC, id DESC
	LIMIT ?`, limit)
	if err != nil {
		recordQuery("list", start, err)
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errText sql.NullString
		var created int64
		if err := rows.Scan(
			&e.ID, &e.InputPath, &e.OutputPath, &e.ResolutionFactor, &e.FramerateFactor,
			&e.Clips, &e.Transforms, &e.Durations, &e.CustomDurations, &e.PathsUpdated,
			&e.TextComponents, &e.Warnings, &e.Status, &errText, &e.DurationMS, &created,
		); err != nil {
			recordQuery("list", start, err)
			return nil, err
		}
		e.Error = errText.String
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	err = rows.Err()
	recordQuery("list", start, err)
	return entries, err
}

// Counts returns the number of successful and failed entries.
func (j *Journal) Counts(ctx context.Context) (succeeded, failed int, err error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	err = j.db.QueryRowContext(ctx, `
	SELECT
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status != ? THEN 1 ELSE 0 END), 0)
	FROM conversions`, StatusSuccess, StatusSuccess).Scan(&succeeded, &failed)
	recordQuery("stats", start, err)
	return succeeded, failed, err
}

// JournalStats implements metrics.StatsSource.
func (j *Journal) JournalStats(ctx context.Context) (metrics.Stats, error) {
	succeeded, failed, err := j.Counts(ctx)
	if err != nil {
		return metrics.Stats{}, err
	}
	return metrics.Stats{Succeeded: succeeded, Failed: failed}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// recordQuery records metrics for a journal query
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.HistoryQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.HistoryQueryDuration.WithLabelValues(operation).Observe(duration)
}

// diagnosePermissions logs details that explain common open failures.
func diagnosePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat history directory: %w", err)
	}
	logging.Debug("History directory: %s (mode: %v)", dir, dirInfo.Mode())

	if info, err := os.Stat(dbPath); err == nil {
		logging.Debug("History journal exists: %s (mode: %v, size: %d bytes)", dbPath, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("History journal is read-only! Mode: %v", info.Mode())
		}
	}

	walPath := dbPath + "-wal"
	if walInfo, err := os.Stat(walPath); err == nil && walInfo.Mode().Perm()&0o200 == 0 {
		logging.Warn("WAL file is read-only! Mode: %v - this will cause write failures", walInfo.Mode())
		if chmodErr := os.Chmod(walPath, 0o600); chmodErr != nil {
			logging.Error("Failed to fix WAL file permissions: %v", chmodErr)
		} else {
			logging.Info("Fixed WAL file permissions")
		}
	}
	return nil
}
