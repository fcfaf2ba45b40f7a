package storage

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-task-catalog/task"
)

// taskRow is the single table layout shared by every kind. Columns of other
// kinds stay NULL.
type taskRow struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Kind        string     `bun:"kind,notnull"`
	Title       string     `bun:"title,notnull"`
	Description *string    `bun:"description"`
	Status      string     `bun:"status,notnull"`
	Priority    string     `bun:"priority,notnull"`
	Deadline    *time.Time `bun:"deadline"`
	AssigneeID  *int64     `bun:"assignee_id"`

	ParentID *int64   `bun:"parent_id"`
	Labels   []string `bun:"labels,type:text"`
	Assignee *string  `bun:"assignee"`

	Severity         *string `bun:"severity"`
	Environment      *string `bun:"environment"`
	StepsToReproduce *string `bun:"steps_to_reproduce"`

	StoryPoints *int    `bun:"story_points"`
	EpicLink    *string `bun:"epic_link"`

	ChildrenIDs []int64 `bun:"children_ids,type:text"`
	Color       *string `bun:"color"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func newTaskRow(t task.Task) *taskRow {
	info := t.Describe()

	row := &taskRow{
		ID:               info.ID,
		Kind:             string(info.Kind),
		Title:            info.Title,
		Description:      info.Description,
		Status:           string(info.Status),
		Priority:         string(info.Priority),
		Deadline:         info.Deadline,
		AssigneeID:       info.AssigneeID,
		ParentID:         info.ParentID,
		Labels:           info.Labels,
		Assignee:         info.Assignee,
		Environment:      info.Environment,
		StepsToReproduce: info.StepsToReproduce,
		StoryPoints:      info.StoryPoints,
		EpicLink:         info.EpicLink,
		ChildrenIDs:      info.ChildrenIDs,
		Color:            info.Color,
		CreatedAt:        info.CreatedAt,
		UpdatedAt:        info.UpdatedAt,
	}
	if info.Severity != nil {
		severity := string(*info.Severity)
		row.Severity = &severity
	}
	return row
}

// toTask rebuilds the domain task, validating it on the way out.
func (r *taskRow) toTask() (task.Task, error) {
	info := task.Info{
		ID:               r.ID,
		Kind:             task.Kind(r.Kind),
		Title:            r.Title,
		Description:      r.Description,
		Status:           task.Status(r.Status),
		Priority:         task.Priority(r.Priority),
		Deadline:         utcPtr(r.Deadline),
		AssigneeID:       r.AssigneeID,
		ParentID:         r.ParentID,
		Labels:           r.Labels,
		Assignee:         r.Assignee,
		Environment:      r.Environment,
		StepsToReproduce: r.StepsToReproduce,
		StoryPoints:      r.StoryPoints,
		EpicLink:         r.EpicLink,
		ChildrenIDs:      r.ChildrenIDs,
		Color:            r.Color,
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}
	if r.Severity != nil {
		severity := task.Severity(*r.Severity)
		info.Severity = &severity
	}
	return task.FromInfo(info)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
