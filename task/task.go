package task

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Task is a catalog record: the fields shared by every kind plus a kind
// specific payload. Links between tasks are raw ids, never pointers.
type Task struct {
	ID          int64
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	Deadline    *time.Time
	AssigneeID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Details Details
}

// Details is the sealed set of kind payloads. Only types in this package
// implement it.
type Details interface {
	Kind() Kind
	validate() error
	clone() Details
}

// Plain is the payload of a regular task. It has no fields.
type Plain struct{}

// Subtask hangs off a parent task.
type Subtask struct {
	ParentID int64    `json:"parentId"`
	Labels   []string `json:"labels"`
	// Assignee is a free text display label kept for older clients. It is
	// unrelated to Task.AssigneeID.
	Assignee *string `json:"assignee"`
}

// Bug carries reproduction details.
type Bug struct {
	Severity         Severity `json:"severity"`
	Environment      string   `json:"environment"`
	StepsToReproduce string   `json:"stepsToReproduce"`
}

// Story is an estimated unit of user facing work.
type Story struct {
	StoryPoints int     `json:"storyPoints"`
	EpicLink    *string `json:"epicLink"`
}

// Epic groups other tasks.
type Epic struct {
	ChildrenIDs []int64 `json:"childrenIds"`
	Color       *string `json:"color"`
}

func (Plain) Kind() Kind   { return KindTask }
func (Subtask) Kind() Kind { return KindSubtask }
func (Bug) Kind() Kind     { return KindBug }
func (Story) Kind() Kind   { return KindStory }
func (Epic) Kind() Kind    { return KindEpic }

func (Plain) validate() error { return nil }

func (d Subtask) validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ParentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&d.Labels, validation.Each(validation.Required)),
		validation.Field(&d.Assignee, validation.NilOrNotEmpty),
	)
}

func (d Bug) validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Severity, validation.Required, validation.In(SeverityMinor, SeverityMajor, SeverityCritical)),
		validation.Field(&d.Environment, validation.Required),
		validation.Field(&d.StepsToReproduce, validation.Required),
	)
}

func (d Story) validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.StoryPoints, validation.Min(0)),
		validation.Field(&d.EpicLink, validation.NilOrNotEmpty),
	)
}

func (d Epic) validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ChildrenIDs, validation.Each(validation.Required, validation.Min(int64(1)))),
		validation.Field(&d.Color, validation.NilOrNotEmpty),
	)
}

func (d Plain) clone() Details { return d }

func (d Subtask) clone() Details {
	d.Labels = cloneSlice(d.Labels)
	d.Assignee = clonePtr(d.Assignee)
	return d
}

func (d Bug) clone() Details { return d }

func (d Story) clone() Details {
	d.EpicLink = clonePtr(d.EpicLink)
	return d
}

func (d Epic) clone() Details {
	d.ChildrenIDs = cloneSlice(d.ChildrenIDs)
	d.Color = clonePtr(d.Color)
	return d
}

// Kind returns the discriminant of t. A task without details is a plain task.
func (t Task) Kind() Kind {
	if t.Details == nil {
		return KindTask
	}
	return t.Details.Kind()
}

// Validate checks the shared fields and the kind payload.
func (t Task) Validate() error {
	kind := t.Kind()
	out := &ValidationError{Kind: kind, Fields: map[string]string{}}

	base := struct {
		Title    string   `json:"title"`
		Status   Status   `json:"status"`
		Priority Priority `json:"priority"`
		Assignee *int64   `json:"assigneeId"`
	}{t.Title, t.Status, t.Priority, t.AssigneeID}

	err := validation.ValidateStruct(&base,
		validation.Field(&base.Title, validation.Required),
		validation.Field(&base.Status, validation.Required, validation.In(StatusTodo, StatusInProgress, StatusReview, StatusDone)),
		validation.Field(&base.Priority, validation.Required, validation.In(PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent)),
		validation.Field(&base.Assignee, validation.NilOrNotEmpty, validation.Min(int64(1))),
	)
	if err := mergeValidation(out, toValidationError(kind, err)); err != nil {
		return err
	}

	if t.Details != nil {
		if err := mergeValidation(out, toValidationError(kind, t.Details.validate())); err != nil {
			return err
		}
	}

	if len(out.Fields) > 0 {
		return out
	}
	return nil
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	out := t
	out.Description = clonePtr(t.Description)
	out.Deadline = clonePtr(t.Deadline)
	out.AssigneeID = clonePtr(t.AssigneeID)
	if t.Details != nil {
		out.Details = t.Details.clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
