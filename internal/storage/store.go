package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-task-catalog/catalog"
	"github.com/goliatone/go-task-catalog/task"
)

// Store implements catalog.Store on top of bun.
type Store struct {
	db  bun.IDB
	now func() time.Time
}

var _ catalog.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created and updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a Store using db. db may be a *bun.DB or a bun.Tx.
func NewStore(db bun.IDB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// timestamp returns the current time in UTC at microsecond precision, the
// finest precision every supported driver keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Store) Find(ctx context.Context, q catalog.Query) ([]task.Task, error) {
	var rows []taskRow

	query := s.db.NewSelect().Model(&rows)
	query = applyCriteria(query, criteriaFor(q.Predicate)...)
	query = applyCriteria(query, orderBy(q.Order))
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	out := make([]task.Task, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toTask()
		if err != nil {
			return nil, fmt.Errorf("decode task %d: %w", rows[i].ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, p catalog.Predicate) (int, error) {
	query := s.db.NewSelect().Model((*taskRow)(nil))
	query = applyCriteria(query, criteriaFor(p)...)
	return query.Count(ctx)
}

func (s *Store) FindByID(ctx context.Context, id int64) (task.Task, bool, error) {
	row := new(taskRow)
	err := s.db.NewSelect().
		Model(row).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, err
	}

	t, err := row.toTask()
	if err != nil {
		return task.Task{}, false, fmt.Errorf("decode task %d: %w", id, err)
	}
	return t, true, nil
}

// Create inserts t and returns it with its assigned id and timestamps.
func (s *Store) Create(ctx context.Context, t task.Task) (task.Task, error) {
	now := s.timestamp()
	t.ID = 0
	t.CreatedAt = now
	t.UpdatedAt = now

	row := newTaskRow(t)
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return task.Task{}, err
	}

	t.ID = row.ID
	return t, nil
}

// Save overwrites every mutable column of t and refreshes its update
// timestamp. The creation timestamp is never written.
func (s *Store) Save(ctx context.Context, t task.Task) (task.Task, error) {
	t.UpdatedAt = s.timestamp()

	row := newTaskRow(t)
	res, err := s.db.NewUpdate().
		Model(row).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return task.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.Task{}, fmt.Errorf("save task %d: %w", t.ID, sql.ErrNoRows)
	}
	return t, nil
}

func (s *Store) Destroy(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().
		Model((*taskRow)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}
