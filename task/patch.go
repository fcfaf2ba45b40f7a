package task

import (
	"bytes"
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Patch is a tri-state update field: absent, explicit null, or a value.
// The zero value is absent.
type Patch[T any] struct {
	set   bool
	null  bool
	value T
}

// Set returns a patch carrying v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{set: true, value: v}
}

// Null returns a patch that clears the field.
func Null[T any]() Patch[T] {
	return Patch[T]{set: true, null: true}
}

// IsSet reports whether the field was supplied, including as null.
func (p Patch[T]) IsSet() bool { return p.set }

// IsNull reports whether the field was supplied as an explicit null.
func (p Patch[T]) IsNull() bool { return p.set && p.null }

// Get returns the value and true when the field carries a value.
func (p Patch[T]) Get() (T, bool) {
	if !p.set || p.null {
		var zero T
		return zero, false
	}
	return p.value, true
}

// UnmarshalJSON is only invoked for keys present in the document, which is
// what separates absent from null.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.null = true
		var zero T
		p.value = zero
		return nil
	}
	p.null = false
	return json.Unmarshal(data, &p.value)
}

// MarshalJSON renders null for both absent and null; pair with omitempty
// semantics at the caller if absent fields must be dropped.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.set || p.null {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

func (p Patch[T]) ptr() *T {
	v, ok := p.Get()
	if !ok {
		return nil
	}
	return &v
}

// UpdateTaskData is a partial update. Absent fields keep their stored value,
// explicit null clears nullable fields.
type UpdateTaskData struct {
	Title       Patch[string]    `json:"title"`
	Description Patch[string]    `json:"description"`
	Status      Patch[Status]    `json:"status"`
	Priority    Patch[Priority]  `json:"priority"`
	Deadline    Patch[time.Time] `json:"deadline"`
	AssigneeID  Patch[int64]     `json:"assigneeId"`

	ParentID Patch[int64]    `json:"parentId"`
	Labels   Patch[[]string] `json:"labels"`
	Assignee Patch[string]   `json:"assignee"`

	Severity         Patch[Severity] `json:"severity"`
	Environment      Patch[string]   `json:"environment"`
	StepsToReproduce Patch[string]   `json:"stepsToReproduce"`

	StoryPoints Patch[int]    `json:"storyPoints"`
	EpicLink    Patch[string] `json:"epicLink"`

	ChildrenIDs Patch[[]int64] `json:"childrenIds"`
	Color       Patch[string]  `json:"color"`
}

// Empty reports whether no field was supplied.
func (u UpdateTaskData) Empty() bool {
	return len(u.supplied()) == 0
}

// supplied maps each supplied field to the kind that owns it ("" for base
// fields) and whether it may be null.
func (u UpdateTaskData) supplied() map[string]patchField {
	out := map[string]patchField{}
	add := func(name string, set, null bool, owner Kind, nullable bool) {
		if set {
			out[name] = patchField{null: null, owner: owner, nullable: nullable}
		}
	}
	add("title", u.Title.IsSet(), u.Title.IsNull(), "", false)
	add("description", u.Description.IsSet(), u.Description.IsNull(), "", true)
	add("status", u.Status.IsSet(), u.Status.IsNull(), "", false)
	add("priority", u.Priority.IsSet(), u.Priority.IsNull(), "", false)
	add("deadline", u.Deadline.IsSet(), u.Deadline.IsNull(), "", true)
	add("assigneeId", u.AssigneeID.IsSet(), u.AssigneeID.IsNull(), "", true)
	add("parentId", u.ParentID.IsSet(), u.ParentID.IsNull(), KindSubtask, false)
	add("labels", u.Labels.IsSet(), u.Labels.IsNull(), KindSubtask, true)
	add("assignee", u.Assignee.IsSet(), u.Assignee.IsNull(), KindSubtask, true)
	add("severity", u.Severity.IsSet(), u.Severity.IsNull(), KindBug, false)
	add("environment", u.Environment.IsSet(), u.Environment.IsNull(), KindBug, false)
	add("stepsToReproduce", u.StepsToReproduce.IsSet(), u.StepsToReproduce.IsNull(), KindBug, false)
	add("storyPoints", u.StoryPoints.IsSet(), u.StoryPoints.IsNull(), KindStory, false)
	add("epicLink", u.EpicLink.IsSet(), u.EpicLink.IsNull(), KindStory, true)
	add("childrenIds", u.ChildrenIDs.IsSet(), u.ChildrenIDs.IsNull(), KindEpic, true)
	add("color", u.Color.IsSet(), u.Color.IsNull(), KindEpic, true)
	return out
}

type patchField struct {
	null     bool
	nullable bool
	owner    Kind
}

// Validate checks the supplied values without knowing the target task: nulls
// on required fields and out of domain values. Kind compatibility is checked
// by Apply.
func (u UpdateTaskData) Validate() error {
	verr := &ValidationError{Fields: map[string]string{}}
	for name, f := range u.supplied() {
		if f.null && !f.nullable {
			verr.Fields[name] = "cannot be null"
		}
	}

	values := struct {
		Title       *string   `json:"title"`
		Status      *Status   `json:"status"`
		Priority    *Priority `json:"priority"`
		AssigneeID  *int64    `json:"assigneeId"`
		ParentID    *int64    `json:"parentId"`
		Severity    *Severity `json:"severity"`
		StoryPoints *int      `json:"storyPoints"`
	}{
		Title:       u.Title.ptr(),
		Status:      u.Status.ptr(),
		Priority:    u.Priority.ptr(),
		AssigneeID:  u.AssigneeID.ptr(),
		ParentID:    u.ParentID.ptr(),
		Severity:    u.Severity.ptr(),
		StoryPoints: u.StoryPoints.ptr(),
	}

	err := validation.ValidateStruct(&values,
		validation.Field(&values.Title, validation.NilOrNotEmpty),
		validation.Field(&values.Status, validation.In(StatusTodo, StatusInProgress, StatusReview, StatusDone)),
		validation.Field(&values.Priority, validation.In(PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent)),
		validation.Field(&values.AssigneeID, validation.Min(int64(1))),
		validation.Field(&values.ParentID, validation.NilOrNotEmpty, validation.Min(int64(1))),
		validation.Field(&values.Severity, validation.NilOrNotEmpty, validation.In(SeverityMinor, SeverityMajor, SeverityCritical)),
		validation.Field(&values.StoryPoints, validation.Min(0)),
	)
	if err := mergeValidation(verr, toValidationError("", err)); err != nil {
		return err
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Apply returns a copy of t with the supplied fields applied. t is not
// modified. The result is fully validated.
func (u UpdateTaskData) Apply(t Task) (Task, error) {
	if err := u.Validate(); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			verr.Kind = t.Kind()
		}
		return Task{}, err
	}

	kind := t.Kind()
	verr := &ValidationError{Kind: kind, Fields: map[string]string{}}
	for name, f := range u.supplied() {
		if f.owner != "" && f.owner != kind {
			verr.Fields[name] = "not allowed for kind " + string(kind)
		}
	}
	if len(verr.Fields) > 0 {
		return Task{}, verr
	}

	out := t.Clone()
	applyValue(&out.Title, u.Title)
	applyNullable(&out.Description, u.Description)
	applyValue(&out.Status, u.Status)
	applyValue(&out.Priority, u.Priority)
	applyNullable(&out.Deadline, u.Deadline)
	if out.Deadline != nil {
		out.Deadline = normalizeTime(out.Deadline)
	}
	applyNullable(&out.AssigneeID, u.AssigneeID)

	switch d := out.Details.(type) {
	case Subtask:
		applyValue(&d.ParentID, u.ParentID)
		if u.Labels.IsSet() {
			d.Labels = nil
			if v, ok := u.Labels.Get(); ok {
				d.Labels = cloneSlice(v)
			}
		}
		applyNullable(&d.Assignee, u.Assignee)
		out.Details = d
	case Bug:
		applyValue(&d.Severity, u.Severity)
		applyValue(&d.Environment, u.Environment)
		applyValue(&d.StepsToReproduce, u.StepsToReproduce)
		out.Details = d
	case Story:
		applyValue(&d.StoryPoints, u.StoryPoints)
		applyNullable(&d.EpicLink, u.EpicLink)
		out.Details = d
	case Epic:
		if u.ChildrenIDs.IsSet() {
			d.ChildrenIDs = nil
			if v, ok := u.ChildrenIDs.Get(); ok {
				d.ChildrenIDs = cloneSlice(v)
			}
		}
		applyNullable(&d.Color, u.Color)
		out.Details = d
	}

	if err := out.Validate(); err != nil {
		return Task{}, err
	}
	return out, nil
}

func applyValue[T any](dst *T, p Patch[T]) {
	if v, ok := p.Get(); ok {
		*dst = v
	}
}

func applyNullable[T any](dst **T, p Patch[T]) {
	if !p.IsSet() {
		return
	}
	if p.IsNull() {
		*dst = nil
		return
	}
	v, _ := p.Get()
	*dst = &v
}
