package task

import "time"

// Info is the uniform projection of a task. Base fields are always present;
// kind specific fields are only set for their own kind.
type Info struct {
	ID          int64      `json:"id"`
	Kind        Kind       `json:"kind"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  *int64     `json:"assigneeId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// subtask
	ParentID *int64   `json:"parentId,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Assignee *string  `json:"assignee,omitempty"`

	// bug
	Severity         *Severity `json:"severity,omitempty"`
	Environment      *string   `json:"environment,omitempty"`
	StepsToReproduce *string   `json:"stepsToReproduce,omitempty"`

	// story
	StoryPoints *int    `json:"storyPoints,omitempty"`
	EpicLink    *string `json:"epicLink,omitempty"`

	// epic
	ChildrenIDs []int64 `json:"childrenIds,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Describe projects t into its Info shape.
func (t Task) Describe() Info {
	c := t.Clone()
	info := Info{
		ID:          c.ID,
		Kind:        c.Kind(),
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Priority:    c.Priority,
		Deadline:    c.Deadline,
		AssigneeID:  c.AssigneeID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	switch d := c.Details.(type) {
	case Subtask:
		info.ParentID = &d.ParentID
		info.Labels = d.Labels
		info.Assignee = d.Assignee
	case Bug:
		info.Severity = &d.Severity
		info.Environment = &d.Environment
		info.StepsToReproduce = &d.StepsToReproduce
	case Story:
		info.StoryPoints = &d.StoryPoints
		info.EpicLink = d.EpicLink
	case Epic:
		info.ChildrenIDs = d.ChildrenIDs
		info.Color = d.Color
	}

	return info.Normalize()
}

// Normalize returns info with its times in UTC and empty id or label lists
// set to nil, the form it takes after any round trip through a cache.
func (i Info) Normalize() Info {
	i.CreatedAt = i.CreatedAt.UTC()
	i.UpdatedAt = i.UpdatedAt.UTC()
	if i.Deadline != nil {
		d := i.Deadline.UTC()
		i.Deadline = &d
	}
	if len(i.Labels) == 0 {
		i.Labels = nil
	}
	if len(i.ChildrenIDs) == 0 {
		i.ChildrenIDs = nil
	}
	return i
}

// FromInfo rebuilds a validated task from its projection. Fields belonging to
// another kind are rejected.
func FromInfo(info Info) (Task, error) {
	kind := info.Kind
	if kind == "" {
		kind = KindTask
	}
	if !kind.Valid() {
		return Task{}, fieldError(kind, "kind", "must be a valid value")
	}

	details, err := buildDetails(kind, detailFields{
		ParentID:         info.ParentID,
		Labels:           info.Labels,
		Assignee:         info.Assignee,
		Severity:         info.Severity,
		Environment:      info.Environment,
		StepsToReproduce: info.StepsToReproduce,
		StoryPoints:      info.StoryPoints,
		EpicLink:         info.EpicLink,
		ChildrenIDs:      info.ChildrenIDs,
		Color:            info.Color,
	})
	if err != nil {
		return Task{}, err
	}

	t := Task{
		ID:          info.ID,
		Title:       info.Title,
		Description: info.Description,
		Status:      info.Status,
		Priority:    info.Priority,
		Deadline:    info.Deadline,
		AssigneeID:  info.AssigneeID,
		CreatedAt:   info.CreatedAt,
		UpdatedAt:   info.UpdatedAt,
		Details:     details,
	}.Clone()

	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// detailFields is the flat set of kind specific inputs shared by FromInfo and
// New.
type detailFields struct {
	ParentID         *int64
	Labels           []string
	Assignee         *string
	Severity         *Severity
	Environment      *string
	StepsToReproduce *string
	StoryPoints      *int
	EpicLink         *string
	ChildrenIDs      []int64
	Color            *string
}

// present returns the json names of the kind specific fields that were set.
func (f detailFields) present() map[string]Kind {
	out := map[string]Kind{}
	if f.ParentID != nil {
		out["parentId"] = KindSubtask
	}
	if f.Labels != nil {
		out["labels"] = KindSubtask
	}
	if f.Assignee != nil {
		out["assignee"] = KindSubtask
	}
	if f.Severity != nil {
		out["severity"] = KindBug
	}
	if f.Environment != nil {
		out["environment"] = KindBug
	}
	if f.StepsToReproduce != nil {
		out["stepsToReproduce"] = KindBug
	}
	if f.StoryPoints != nil {
		out["storyPoints"] = KindStory
	}
	if f.EpicLink != nil {
		out["epicLink"] = KindStory
	}
	if f.ChildrenIDs != nil {
		out["childrenIds"] = KindEpic
	}
	if f.Color != nil {
		out["color"] = KindEpic
	}
	return out
}

func buildDetails(kind Kind, f detailFields) (Details, error) {
	verr := &ValidationError{Kind: kind, Fields: map[string]string{}}
	for name, owner := range f.present() {
		if owner != kind {
			verr.Fields[name] = "not allowed for kind " + string(kind)
		}
	}

	required := func(name string, ok bool) {
		if !ok {
			verr.Fields[name] = "cannot be blank"
		}
	}

	var details Details
	switch kind {
	case KindTask:
		details = Plain{}
	case KindSubtask:
		required("parentId", f.ParentID != nil)
		d := Subtask{Labels: cloneSlice(f.Labels), Assignee: clonePtr(f.Assignee)}
		if f.ParentID != nil {
			d.ParentID = *f.ParentID
		}
		details = d
	case KindBug:
		required("severity", f.Severity != nil)
		required("environment", f.Environment != nil)
		required("stepsToReproduce", f.StepsToReproduce != nil)
		d := Bug{}
		if f.Severity != nil {
			d.Severity = *f.Severity
		}
		if f.Environment != nil {
			d.Environment = *f.Environment
		}
		if f.StepsToReproduce != nil {
			d.StepsToReproduce = *f.StepsToReproduce
		}
		details = d
	case KindStory:
		required("storyPoints", f.StoryPoints != nil)
		d := Story{EpicLink: clonePtr(f.EpicLink)}
		if f.StoryPoints != nil {
			d.StoryPoints = *f.StoryPoints
		}
		details = d
	case KindEpic:
		details = Epic{ChildrenIDs: cloneSlice(f.ChildrenIDs), Color: clonePtr(f.Color)}
	default:
		return nil, fieldError(kind, "kind", "must be a valid value")
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return details, nil
}
