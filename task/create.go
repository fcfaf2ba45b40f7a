package task

import "time"

// CreateTaskData is the pre-parsed payload for creating a task. Kind specific
// fields must only be set for their own kind.
type CreateTaskData struct {
	Kind        Kind       `json:"kind"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  *int64     `json:"assigneeId"`

	ParentID *int64   `json:"parentId"`
	Labels   []string `json:"labels"`
	Assignee *string  `json:"assignee"`

	Severity         *Severity `json:"severity"`
	Environment      *string   `json:"environment"`
	StepsToReproduce *string   `json:"stepsToReproduce"`

	StoryPoints *int    `json:"storyPoints"`
	EpicLink    *string `json:"epicLink"`

	ChildrenIDs []int64 `json:"childrenIds"`
	Color       *string `json:"color"`
}

// New builds and validates an unsaved task from data. Status and priority
// default to todo and medium. The returned task has no id or timestamps.
func New(data CreateTaskData) (Task, error) {
	kind := data.Kind
	if kind == "" {
		kind = KindTask
	}
	if !kind.Valid() {
		return Task{}, fieldError(kind, "kind", "must be a valid value")
	}

	details, err := buildDetails(kind, detailFields{
		ParentID:         data.ParentID,
		Labels:           data.Labels,
		Assignee:         data.Assignee,
		Severity:         data.Severity,
		Environment:      data.Environment,
		StepsToReproduce: data.StepsToReproduce,
		StoryPoints:      data.StoryPoints,
		EpicLink:         data.EpicLink,
		ChildrenIDs:      data.ChildrenIDs,
		Color:            data.Color,
	})
	if err != nil {
		return Task{}, err
	}

	t := Task{
		Title:       data.Title,
		Description: clonePtr(data.Description),
		Status:      data.Status,
		Priority:    data.Priority,
		Deadline:    normalizeTime(data.Deadline),
		AssigneeID:  clonePtr(data.AssigneeID),
		Details:     details,
	}
	if t.Status == "" {
		t.Status = DefaultStatus
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}

	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
