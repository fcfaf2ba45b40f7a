package catalog

import (
	"context"
	"time"

	"github.com/goliatone/go-task-catalog/task"
)

// Order selects the sort order of Find results. Ties on the creation
// timestamp are broken by id in the same direction.
type Order int

const (
	// OrderNewestFirst sorts by creation time descending.
	OrderNewestFirst Order = iota
	// OrderOldestFirst sorts by creation time ascending.
	OrderOldestFirst
)

// Predicate restricts a query. Nil fields do not filter. Date bounds are
// inclusive.
type Predicate struct {
	Status      *task.Status
	Priority    *task.Priority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Query is a predicate plus ordering and an optional window. A zero Limit
// returns every matching row.
type Query struct {
	Predicate Predicate
	Order     Order
	Offset    int
	Limit     int
}

// Store is the relational store behind the Repository. Implementations
// assign ids and timestamps on Create and refresh the update timestamp on
// Save.
type Store interface {
	Find(ctx context.Context, q Query) ([]task.Task, error)
	Count(ctx context.Context, p Predicate) (int, error)
	// FindByID reports found=false with a nil error when no row matches.
	FindByID(ctx context.Context, id int64) (task.Task, bool, error)
	Create(ctx context.Context, t task.Task) (task.Task, error)
	Save(ctx context.Context, t task.Task) (task.Task, error)
	Destroy(ctx context.Context, id int64) error
}

// PredicateFor converts a filter into a store predicate.
func PredicateFor(f task.Filter) Predicate {
	var p Predicate
	if s, ok := f.Status(); ok {
		p.Status = &s
	}
	if pr, ok := f.Priority(); ok {
		p.Priority = &pr
	}
	if from, ok := f.CreatedFrom(); ok {
		p.CreatedFrom = &from
	}
	if to, ok := f.CreatedTo(); ok {
		p.CreatedTo = &to
	}
	return p
}
