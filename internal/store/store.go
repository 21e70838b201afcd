// Package store keeps the turn journal of the running process in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verte-zerg/hdgdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryDSN is an in-process database that disappears on Close.
const MemoryDSN = ":memory:"

// Store wraps SQLite access for journal data.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
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

// OpenMemory opens an empty in-memory journal.
func OpenMemory() (*Store, error) {
	return Open(MemoryDSN)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			freq45 INTEGER NOT NULL,
			freq90 INTEGER NOT NULL,
			freq180 INTEGER NOT NULL,
			delay_ms INTEGER NOT NULL,
			shift_after INTEGER NOT NULL,
			shift_amount INTEGER NOT NULL,
			initial_heading INTEGER NOT NULL,
			round_to INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			session_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			direction TEXT NOT NULL,
			angle INTEGER NOT NULL,
			from_heading INTEGER NOT NULL,
			to_heading INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS shifts (
			id INTEGER PRIMARY KEY,
			session_id INTEGER NOT NULL,
			after_turn INTEGER NOT NULL,
			from_heading INTEGER NOT NULL,
			to_heading INTEGER NOT NULL,
			applied_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_session ON shifts(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BeginSession records the settings of a newly started session and returns its id.
func (s *Store) BeginSession(ctx context.Context, startedAt time.Time, cfg model.Config) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, freq45, freq90, freq180, delay_ms, shift_after, shift_amount, initial_heading, round_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt.Format(time.RFC3339Nano),
		cfg.Frequency45,
		cfg.Frequency90,
		cfg.Frequency180,
		cfg.DelayMs,
		cfg.ShiftAfterTurns,
		cfg.ShiftAmount,
		cfg.InitialHeading,
		cfg.RoundToNearest,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertTurn stores a completed turn.
func (s *Store) InsertTurn(ctx context.Context, rec model.TurnRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, seq, direction, angle, from_heading, to_heading, elapsed_ms, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Seq,
		rec.Direction.String(),
		rec.Angle,
		rec.FromHeading,
		rec.ToHeading,
		rec.ElapsedMs,
		rec.CompletedAt.Format(time.RFC3339Nano),
	)
	return err
}

// InsertShift stores an applied heading shift.
func (s *Store) InsertShift(ctx context.Context, rec model.ShiftRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (session_id, after_turn, from_heading, to_heading, applied_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.AfterTurn,
		rec.FromHeading,
		rec.ToHeading,
		rec.AppliedAt.Format(time.RFC3339Nano),
	)
	return err
}

// RecordEvent journals the controller events that carry results: completed
// turns and applied shifts. Other event types are ignored.
func (s *Store) RecordEvent(ctx context.Context, sessionID int64, ev model.Event) error {
	switch ev.Type {
	case model.EventTurnCompleted:
		rec := model.TurnRecord{
			SessionID:   sessionID,
			Seq:         ev.TurnCount,
			Direction:   ev.Turn.Direction,
			Angle:       ev.Turn.Angle,
			FromHeading: ev.FromHeading,
			ToHeading:   ev.ToHeading,
			ElapsedMs:   ev.Elapsed.Milliseconds(),
			CompletedAt: ev.At,
		}
		if err := s.InsertTurn(ctx, rec); err != nil {
			return fmt.Errorf("failed to journal turn %d: %w", ev.TurnCount, err)
		}
	case model.EventShiftApplied:
		rec := model.ShiftRecord{
			SessionID:   sessionID,
			AfterTurn:   ev.TurnCount,
			FromHeading: ev.FromHeading,
			ToHeading:   ev.ToHeading,
			AppliedAt:   ev.At,
		}
		if err := s.InsertShift(ctx, rec); err != nil {
			return fmt.Errorf("failed to journal shift: %w", err)
		}
	}
	return nil
}

// DeleteSession drops a session and everything journaled for it.
func (s *Store) DeleteSession(ctx context.Context, sessionID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for _, stmt := range []string{
		`DELETE FROM turns WHERE session_id = ?`,
		`DELETE FROM shifts WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err = tx.ExecContext(ctx, stmt, sessionID); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// ListTurns returns the turns of a session in completion order.
func (s *Store) ListTurns(ctx context.Context, sessionID int64) ([]model.TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, seq, direction, angle, from_heading, to_heading, elapsed_ms, completed_at
		 FROM turns
		 WHERE session_id = ?
		 ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TurnRecord
	for rows.Next() {
		var rec model.TurnRecord
		var direction, completedAt string
		if err := rows.Scan(&rec.SessionID, &rec.Seq, &direction, &rec.Angle, &rec.FromHeading, &rec.ToHeading, &rec.ElapsedMs, &completedAt); err != nil {
			return nil, err
		}
		rec.Direction, err = parseDirection(direction)
		if err != nil {
			return nil, err
		}
		rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListShifts returns the shifts of a session in the order they were applied.
func (s *Store) ListShifts(ctx context.Context, sessionID int64) ([]model.ShiftRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, after_turn, from_heading, to_heading, applied_at
		 FROM shifts
		 WHERE session_id = ?
		 ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ShiftRecord
	for rows.Next() {
		var rec model.ShiftRecord
		var appliedAt string
		if err := rows.Scan(&rec.SessionID, &rec.AfterTurn, &rec.FromHeading, &rec.ToHeading, &appliedAt); err != nil {
			return nil, err
		}
		rec.AppliedAt, err = time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AngleBreakdown aggregates a session's turns per angle and direction.
func (s *Store) AngleBreakdown(ctx context.Context, sessionID int64) ([]model.AngleAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT angle, direction, COUNT(*), SUM(elapsed_ms), MIN(elapsed_ms), MAX(elapsed_ms)
		 FROM turns
		 WHERE session_id = ?
		 GROUP BY angle, direction
		 ORDER BY angle ASC, direction ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.AngleAggregate
	for rows.Next() {
		var agg model.AngleAggregate
		var direction string
		if err := rows.Scan(&agg.Angle, &direction, &agg.Count, &agg.TotalMs, &agg.BestMs, &agg.WorstMs); err != nil {
			return nil, err
		}
		agg.Direction, err = parseDirection(direction)
		if err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func parseDirection(s string) (model.Direction, error) {
	switch s {
	case "left":
		return model.Left, nil
	case "right":
		return model.Right, nil
	default:
		return model.Left, fmt.Errorf("unknown direction %q", s)
	}
}
