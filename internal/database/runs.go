package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrDuplicateRun = errors.New("run already recorded")
)

// Run is one journaled generation attempt sequence.
type Run struct {
	ID           string
	CreatedAt    time.Time
	InputPath    string
	SampleWidth  int
	SampleHeight int
	PatternSize  int
	OutputWidth  int
	OutputHeight int
	Wrap         string
	Seed         uint64
	Retries      int
	Attempts     int
	Border       bool
	Status       string
	Error        string
	Digest       string
}

const runColumns = `id, created_at, input_path, sample_width, sample_height, pattern_size,
	output_width, output_height, wrap, seed, retries, attempts, border, status, error, digest`

// RecordRun inserts run. A missing ID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (d *Database) RecordRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := d.db.Exec(
		d.qb.Build(`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.CreatedAt, run.InputPath, run.SampleWidth, run.SampleHeight, run.PatternSize,
		run.OutputWidth, run.OutputHeight, run.Wrap, int64(run.Seed), run.Retries, run.Attempts,
		run.Border, run.Status, run.Error, run.Digest,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRun, run.ID)
		}
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (d *Database) GetRun(id string) (*Run, error) {
	row := d.db.QueryRow(d.qb.Build(`SELECT `+runColumns+` FROM runs WHERE id = ?`), id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (d *Database) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountRuns returns the total number of journaled runs.
func (d *Database) CountRuns() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run  Run
		seed int64
	)
	err := s.Scan(
		&run.ID, &run.CreatedAt, &run.InputPath, &run.SampleWidth, &run.SampleHeight, &run.PatternSize,
		&run.OutputWidth, &run.OutputHeight, &run.Wrap, &seed, &run.Retries, &run.Attempts,
		&run.Border, &run.Status, &run.Error, &run.Digest,
	)
	if err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)
	return &run, nil
}
