// Package task defines the catalog's task model.
//
// # Kinds
//
// Every task shares the same base fields (title, status, priority, deadline,
// assignee reference, timestamps) and carries one kind specific payload:
//
//   - Plain   (kind "task")    no extra fields
//   - Subtask (kind "subtask") parent id, ordered labels, legacy assignee label
//   - Bug     (kind "bug")     severity, environment, steps to reproduce
//   - Story   (kind "story")   story points, optional epic link
//   - Epic    (kind "epic")    optional children ids, optional color
//
// The set is closed: Details has an unexported method so only this package can
// add payload types.
//
// # Projection
//
// Task.Describe returns an Info, a flat shape tagged by kind. Only the fields of
// the task's own kind are populated, and FromInfo rejects fields from other
// kinds, so
//
//	t2, _ := task.FromInfo(t.Describe())
//	t2.Describe() // equal to t.Describe()
//
// # Partial updates
//
// UpdateTaskData uses Patch[T] to distinguish an absent field (left as is) from
// an explicit null (cleared) and a value (replaced). Patch implements
// json.Unmarshaler, so decoding a JSON body yields the right state per key.
//
// # Filters
//
// Filter is immutable and built with NewFilter. Creation bounds are normalized
// to whole UTC days.
package task
