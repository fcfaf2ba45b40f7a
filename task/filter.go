package task

import (
	"math"
	"time"
)

const (
	// DefaultLimit is the page size used when a page is requested without a limit.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Filter is an immutable list query: optional status, priority, creation day
// bounds and pagination. Build it with NewFilter.
type Filter struct {
	status      *Status
	priority    *Priority
	createdFrom *time.Time
	createdTo   *time.Time
	page        int
	limit       int
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithStatus restricts the list to one status.
func WithStatus(s Status) FilterOption {
	return func(f *Filter) { f.status = &s }
}

// WithPriority restricts the list to one priority.
func WithPriority(p Priority) FilterOption {
	return func(f *Filter) { f.priority = &p }
}

// CreatedFrom sets the inclusive lower bound, floored to the start of its UTC day.
func CreatedFrom(t time.Time) FilterOption {
	return func(f *Filter) {
		v := StartOfDay(t)
		f.createdFrom = &v
	}
}

// CreatedTo sets the inclusive upper bound, ceiled to 23:59:59.999 of its UTC day.
func CreatedTo(t time.Time) FilterOption {
	return func(f *Filter) {
		v := EndOfDay(t)
		f.createdTo = &v
	}
}

// WithPage requests a 1-based page. A zero limit selects DefaultLimit; a zero
// page leaves the filter unpaginated and drops the limit.
func WithPage(page, limit int) FilterOption {
	return func(f *Filter) {
		f.page = page
		f.limit = limit
	}
}

// NewFilter builds a validated filter.
func NewFilter(opts ...FilterOption) (Filter, error) {
	var f Filter
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	switch {
	case f.page == 0:
		f.limit = 0
	case f.limit == 0:
		f.limit = DefaultLimit
	}
	if err := f.validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func (f Filter) validate() error {
	verr := &ValidationError{Fields: map[string]string{}}
	if f.status != nil && !f.status.Valid() {
		verr.Fields["status"] = "must be a valid value"
	}
	if f.priority != nil && !f.priority.Valid() {
		verr.Fields["priority"] = "must be a valid value"
	}
	if f.createdFrom != nil && f.createdTo != nil && f.createdFrom.After(*f.createdTo) {
		verr.Fields["createdFrom"] = "must not be after createdTo"
	}
	if f.page < 0 {
		verr.Fields["page"] = "must be no less than 1"
	}
	if f.page > 0 && (f.limit < 1 || f.limit > MaxLimit) {
		verr.Fields["limit"] = "must be between 1 and 100"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Status returns the status constraint.
func (f Filter) Status() (Status, bool) {
	if f.status == nil {
		return "", false
	}
	return *f.status, true
}

// Priority returns the priority constraint.
func (f Filter) Priority() (Priority, bool) {
	if f.priority == nil {
		return "", false
	}
	return *f.priority, true
}

// CreatedFrom returns the normalized lower bound.
func (f Filter) CreatedFrom() (time.Time, bool) {
	if f.createdFrom == nil {
		return time.Time{}, false
	}
	return *f.createdFrom, true
}

// CreatedTo returns the normalized upper bound.
func (f Filter) CreatedTo() (time.Time, bool) {
	if f.createdTo == nil {
		return time.Time{}, false
	}
	return *f.createdTo, true
}

// Paginated reports whether a page was requested.
func (f Filter) Paginated() bool { return f.page > 0 }

// Page returns the 1-based page, 0 when unpaginated.
func (f Filter) Page() int { return f.page }

// Limit returns the page size, 0 when unpaginated.
func (f Filter) Limit() int { return f.limit }

// Offset returns the row offset of the requested page.
func (f Filter) Offset() int {
	if f.page <= 0 {
		return 0
	}
	return (f.page - 1) * f.limit
}

// StartOfDay floors t to 00:00:00 UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay ceils t to 23:59:59.999 UTC.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// Pagination describes one page of a collection.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination derives page metadata from the total row count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ListResult is the result of a list query. Pagination is nil for
// unpaginated queries.
type ListResult struct {
	Tasks      []Info      `json:"tasks"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
