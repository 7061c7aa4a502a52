package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/minepenge/minepenge/pkg/domain"
)

// defaultRunsLimit caps ListRuns when the filter has no limit
const defaultRunsLimit = 20

var runColumns = []string{"id", "started_at", "finished_at", "status", "accepted", "new_articles",
	"duplicates", "total", "error"}

var sourceColumns = []string{"run_id", "source", "found", "known", "validated", "processed", "too_short",
	"wrong_language", "low_relevance", "failed", "error"}

// RunRepository keeps the history of harvest runs
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// runSourceSQL is a source report row with its run id
type runSourceSQL struct {
	RunID string `db:"run_id"`
	domain.SourceReport
}

// SaveRun inserts or replaces a run together with its source reports
func (r *RunRepository) SaveRun(ctx context.Context, run domain.Run) error {
	if run.ID == "" {
		return errors.New("save run: empty run id")
	}
	started := run.StartedAt.UTC()
	var finished *time.Time
	if run.FinishedAt != nil {
		f := run.FinishedAt.UTC()
		finished = &f
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		err := r.saveRunTx(ctx, run, started, finished)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save run %s: %w", run.ID, err)}
		}
		return nil
	})
}

func (r *RunRepository) saveRunTx(ctx context.Context, run domain.Run, started time.Time, finished *time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO runs (id, started_at, finished_at, status, accepted, new_articles, duplicates, total, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			status = excluded.status,
			accepted = excluded.accepted,
			new_articles = excluded.new_articles,
			duplicates = excluded.duplicates,
			total = excluded.total,
			error = excluded.error
	`
	if _, err := tx.ExecContext(ctx, query, run.ID, started, finished, string(run.Status), run.Accepted, run.New,
		run.Duplicates, run.Total, run.Error); err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_sources WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clear run sources: %w", err)
	}

	for i, s := range run.Sources {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_sources (run_id, position, source, found, known, validated, processed, too_short,
				wrong_language, low_relevance, failed, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, s.Source, s.Found, s.Known, s.Validated, s.Processed, s.TooShort, s.WrongLang,
			s.LowRelevant, s.Failed, s.Error)
		if err != nil {
			return fmt.Errorf("insert run source %s: %w", s.Source, err)
		}
	}

	return tx.Commit()
}

// GetRun returns a run by id, sql.ErrNoRows is wrapped if it doesn't exist
func (r *RunRepository) GetRun(ctx context.Context, id string) (domain.Run, error) {
	query, args, err := sq.Select(runColumns...).From("runs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Run{}, fmt.Errorf("build run query: %w", err)
	}

	var run domain.Run
	if err := r.db.GetContext(ctx, &run, query, args...); err != nil {
		return domain.Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	runs := []domain.Run{run}
	if err := r.attachSources(ctx, runs); err != nil {
		return domain.Run{}, err
	}
	return runs[0], nil
}

// LastRun returns the most recently started run, false if there are no runs yet
func (r *RunRepository) LastRun(ctx context.Context) (domain.Run, bool, error) {
	runs, err := r.ListRuns(ctx, domain.RunFilter{Limit: 1})
	if err != nil {
		return domain.Run{}, false, err
	}
	if len(runs) == 0 {
		return domain.Run{}, false, nil
	}
	return runs[0], true, nil
}

// ListRuns returns runs matching the filter, newest first
func (r *RunRepository) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.Run, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultRunsLimit
	}

	qb := sq.Select(runColumns...).From("runs").OrderBy("started_at DESC", "id").Limit(uint64(limit))
	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": string(filter.Status)})
	}
	if !filter.Since.IsZero() {
		qb = qb.Where(sq.GtOrEq{"started_at": filter.Since.UTC()})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	var runs []domain.Run
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	if err := r.attachSources(ctx, runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// attachSources loads source reports for all given runs with one query
func (r *RunRepository) attachSources(ctx context.Context, runs []domain.Run) error {
	if len(runs) == 0 {
		return nil
	}
	ids := make([]string, len(runs))
	byID := make(map[string]int, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
		byID[run.ID] = i
		runs[i].Sources = []domain.SourceReport{}
	}

	query, args, err := sq.Select(sourceColumns...).From("run_sources").
		Where(sq.Eq{"run_id": ids}).OrderBy("run_id", "position").ToSql()
	if err != nil {
		return fmt.Errorf("build run sources query: %w", err)
	}

	var rows []runSourceSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get run sources: %w", err)
	}
	for _, row := range rows {
		i := byID[row.RunID]
		runs[i].Sources = append(runs[i].Sources, row.SourceReport)
	}
	return nil
}

// DeleteRunsBefore removes runs started before the given time and returns how many were removed
func (r *RunRepository) DeleteRunsBefore(ctx context.Context, before time.Time) (int64, error) {
	// foreign_keys pragma is per connection, so sources are removed explicitly
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM run_sources WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)", before.UTC()); err != nil {
		return 0, fmt.Errorf("delete run sources: %w", err)
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get affected rows: %w", err)
	}
	return n, nil
}
