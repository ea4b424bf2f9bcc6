// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mindgym-app/mindgym/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// StorageError wraps persistence failures so callers can detect them and
// degrade to safe defaults instead of crashing.
type StorageError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr("create data dir", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open db", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS performances (
			id TEXT PRIMARY KEY,
			task TEXT NOT NULL,
			score INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			metrics TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_score INTEGER NOT NULL,
			streak INTEGER NOT NULL,
			tasks_completed INTEGER NOT NULL,
			last_activity TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS task_averages (
			task TEXT PRIMARY KEY,
			average REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS daily_challenges (
			id TEXT PRIMARY KEY,
			day TEXT NOT NULL UNIQUE,
			tasks TEXT NOT NULL,
			completed INTEGER NOT NULL,
			completed_tasks TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_performances_task ON performances(task);`,
		`CREATE INDEX IF NOT EXISTS idx_performances_completed_at ON performances(completed_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return storageErr("migrate", err)
		}
	}
	return nil
}

// AppendPerformance stores one completed session record.
func (s *Store) AppendPerformance(ctx context.Context, perf model.UserPerformance) error {
	metrics, err := model.EncodeMetrics(perf.Metrics)
	if err != nil {
		return storageErr("append performance", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO performances (id, task, score, completed_at, metrics) VALUES (?, ?, ?, ?, ?)`,
		perf.ID,
		string(perf.Task),
		perf.Score,
		perf.CompletedAt.Format(time.RFC3339Nano),
		string(metrics),
	)
	return storageErr("append performance", err)
}

// ListPerformances returns the full history in insertion order.
func (s *Store) ListPerformances(ctx context.Context) ([]model.UserPerformance, error) {
	return s.listPerformances(ctx,
		`SELECT id, task, score, completed_at, metrics FROM performances ORDER BY rowid ASC`)
}

// ListPerformancesByTask returns the history for one task in insertion order.
func (s *Store) ListPerformancesByTask(ctx context.Context, task model.TaskType) ([]model.UserPerformance, error) {
	return s.listPerformances(ctx,
		`SELECT id, task, score, completed_at, metrics FROM performances WHERE task = ? ORDER BY rowid ASC`,
		string(task))
}

func (s *Store) listPerformances(ctx context.Context, query string, args ...any) ([]model.UserPerformance, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list performances", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.UserPerformance
	for rows.Next() {
		var (
			perf        model.UserPerformance
			task        string
			completedAt string
			metrics     string
		)
		if err := rows.Scan(&perf.ID, &task, &perf.Score, &completedAt, &metrics); err != nil {
			return nil, storageErr("list performances", err)
		}
		perf.Task = model.TaskType(task)
		parsed, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, storageErr("list performances", err)
		}
		perf.CompletedAt = parsed
		decoded, err := model.DecodeMetrics(perf.Task, []byte(metrics))
		if err != nil {
			return nil, storageErr("list performances", err)
		}
		perf.Metrics = decoded
		result = append(result, perf)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list performances", err)
	}
	return result, nil
}

// GetStats loads the persisted user stats. The second return value is false
// when no stats row exists yet; the caller decides the default.
func (s *Store) GetStats(ctx context.Context) (model.UserStats, bool, error) {
	var (
		stats        model.UserStats
		lastActivity string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT total_score, streak, tasks_completed, last_activity FROM user_stats WHERE id = 1`)
	err := row.Scan(&stats.TotalScore, &stats.Streak, &stats.TasksCompleted, &lastActivity)
	if err == sql.ErrNoRows {
		return model.UserStats{}, false, nil
	}
	if err != nil {
		return model.UserStats{}, false, storageErr("get stats", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, lastActivity)
	if err != nil {
		return model.UserStats{}, false, storageErr("get stats", err)
	}
	stats.LastActivity = parsed

	stats.Averages = make(map[model.TaskType]float64, len(model.AllTasks))
	for _, t := range model.AllTasks {
		stats.Averages[t] = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT task, average FROM task_averages`)
	if err != nil {
		return model.UserStats{}, false, storageErr("get stats", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var (
			task string
			avg  float64
		)
		if err := rows.Scan(&task, &avg); err != nil {
			return model.UserStats{}, false, storageErr("get stats", err)
		}
		stats.Averages[model.TaskType(task)] = avg
	}
	if err := rows.Err(); err != nil {
		return model.UserStats{}, false, storageErr("get stats", err)
	}
	return stats, true, nil
}

// PutStats persists the user stats and per-task averages atomically.
func (s *Store) PutStats(ctx context.Context, stats model.UserStats) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("put stats", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_stats (id, total_score, streak, tasks_completed, last_activity)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			total_score = excluded.total_score,
			streak = excluded.streak,
			tasks_completed = excluded.tasks_completed,
			last_activity = excluded.last_activity`,
		stats.TotalScore,
		stats.Streak,
		stats.TasksCompleted,
		stats.LastActivity.Format(time.RFC3339Nano),
	)
	if err != nil {
		return storageErr("put stats", err)
	}
	for task, avg := range stats.Averages {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO task_averages (task, average) VALUES (?, ?)
			 ON CONFLICT(task) DO UPDATE SET average = excluded.average`,
			string(task), avg)
		if err != nil {
			return storageErr("put stats", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return storageErr("put stats", err)
	}
	return nil
}

// GetChallenge loads the challenge for a local calendar day (YYYY-MM-DD).
// The second return value is false when none exists.
func (s *Store) GetChallenge(ctx context.Context, day string) (model.DailyChallenge, bool, error) {
	var (
		ch             model.DailyChallenge
		tasks          string
		completed      int
		completedTasks string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, day, tasks, completed, completed_tasks FROM daily_challenges WHERE day = ?`, day)
	err := row.Scan(&ch.ID, &ch.Day, &tasks, &completed, &completedTasks)
	if err == sql.ErrNoRows {
		return model.DailyChallenge{}, false, nil
	}
	if err != nil {
		return model.DailyChallenge{}, false, storageErr("get challenge", err)
	}
	if err := json.Unmarshal([]byte(tasks), &ch.Tasks); err != nil {
		return model.DailyChallenge{}, false, storageErr("get challenge", err)
	}
	ch.CompletedTasks = []model.TaskType{}
	if err := json.Unmarshal([]byte(completedTasks), &ch.CompletedTasks); err != nil {
		return model.DailyChallenge{}, false, storageErr("get challenge", err)
	}
	ch.Completed = completed != 0
	if err := ch.Validate(); err != nil {
		return model.DailyChallenge{}, false, err
	}
	return ch, true, nil
}

// UpsertChallenge stores or replaces the challenge for its day.
func (s *Store) UpsertChallenge(ctx context.Context, ch model.DailyChallenge) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	tasks, err := json.Marshal(ch.Tasks)
	if err != nil {
		return storageErr("upsert challenge", err)
	}
	completedTasks, err := json.Marshal(ch.CompletedTasks)
	if err != nil {
		return storageErr("upsert challenge", err)
	}
	completed := 0
	if ch.Completed {
		completed = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO daily_challenges (id, day, tasks, completed, completed_tasks)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
			id = excluded.id,
			tasks = excluded.tasks,
			completed = excluded.completed,
			completed_tasks = excluded.completed_tasks`,
		ch.ID, ch.Day, string(tasks), completed, string(completedTasks))
	return storageErr("upsert challenge", err)
}

// Clear wipes all persisted data.
func (s *Store) Clear(ctx context.Context) error {
	for _, table := range []string{"performances", "user_stats", "task_averages", "daily_challenges"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return storageErr("clear", err)
		}
	}
	return nil
}
