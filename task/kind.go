package task

// Kind discriminates the closed set of task variants.
type Kind string

const (
	KindTask    Kind = "task"
	KindSubtask Kind = "subtask"
	KindBug     Kind = "bug"
	KindStory   Kind = "story"
	KindEpic    Kind = "epic"
)

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindTask, KindSubtask, KindBug, KindStory, KindEpic}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTask, KindSubtask, KindBug, KindStory, KindEpic:
		return true
	}
	return false
}

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Priority ranks tasks for scheduling.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Severity grades the impact of a bug.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

const (
	DefaultStatus   = StatusTodo
	DefaultPriority = PriorityMedium
)
