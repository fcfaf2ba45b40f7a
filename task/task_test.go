package task

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func validPayloads() map[Kind]CreateTaskData {
	deadline := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	return map[Kind]CreateTaskData{
		KindTask: {
			Kind:        KindTask,
			Title:       "Write release notes",
			Description: ptr("for 1.4"),
			Status:      StatusInProgress,
			Priority:    PriorityHigh,
			Deadline:    &deadline,
			AssigneeID:  ptr(int64(7)),
		},
		KindSubtask: {
			Kind:     KindSubtask,
			Title:    "Draft changelog",
			ParentID: ptr(int64(1)),
			Labels:   []string{"docs", "release"},
			Assignee: ptr("jo"),
		},
		KindBug: {
			Kind:             KindBug,
			Title:            "Crash on login",
			Severity:         ptr(SeverityCritical),
			Environment:      ptr("prod"),
			StepsToReproduce: ptr("open app; log in"),
		},
		KindStory: {
			Kind:        KindStory,
			Title:       "Export to CSV",
			StoryPoints: ptr(5),
			EpicLink:    ptr("EPIC-3"),
		},
		KindEpic: {
			Kind:        KindEpic,
			Title:       "Reporting",
			ChildrenIDs: []int64{3, 4},
			Color:       ptr("#ff8800"),
		},
	}
}

func TestNew_RoundTripPerKind(t *testing.T) {
	for kind, payload := range validPayloads() {
		t.Run(string(kind), func(t *testing.T) {
			built, err := New(payload)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			info := built.Describe()
			if info.Kind != kind {
				t.Fatalf("expected kind %q, got %q", kind, info.Kind)
			}
			if info.Title != payload.Title {
				t.Errorf("expected title %q, got %q", payload.Title, info.Title)
			}
			if !reflect.DeepEqual(info.Labels, payload.Labels) {
				t.Errorf("expected labels %v, got %v", payload.Labels, info.Labels)
			}
			if !reflect.DeepEqual(info.ChildrenIDs, payload.ChildrenIDs) {
				t.Errorf("expected children %v, got %v", payload.ChildrenIDs, info.ChildrenIDs)
			}
			if !reflect.DeepEqual(info.StoryPoints, payload.StoryPoints) {
				t.Errorf("expected story points %v, got %v", payload.StoryPoints, info.StoryPoints)
			}
			if !reflect.DeepEqual(info.Severity, payload.Severity) {
				t.Errorf("expected severity %v, got %v", payload.Severity, info.Severity)
			}

			rebuilt, err := FromInfo(info)
			if err != nil {
				t.Fatalf("FromInfo() error = %v", err)
			}
			if !reflect.DeepEqual(rebuilt.Describe(), info) {
				t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", info, rebuilt.Describe())
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	built, err := New(CreateTaskData{Title: "No kind"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if built.Kind() != KindTask {
		t.Errorf("expected kind task, got %q", built.Kind())
	}
	if built.Status != StatusTodo {
		t.Errorf("expected default status todo, got %q", built.Status)
	}
	if built.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %q", built.Priority)
	}
	if built.Description != nil || built.Deadline != nil || built.AssigneeID != nil {
		t.Errorf("expected nil optional fields, got %+v", built)
	}
}

func TestNew_StoryPointsBoundary(t *testing.T) {
	_, err := New(CreateTaskData{Kind: KindStory, Title: "s", StoryPoints: ptr(-1)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["storyPoints"]; !ok {
		t.Errorf("expected storyPoints violation, got %v", verr.Fields)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}

	if _, err := New(CreateTaskData{Kind: KindStory, Title: "s", StoryPoints: ptr(0)}); err != nil {
		t.Errorf("expected zero story points to be valid, got %v", err)
	}
}

func TestNew_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		data  CreateTaskData
		field string
	}{
		{"missing title", CreateTaskData{}, "title"},
		{"unknown kind", CreateTaskData{Kind: "chore", Title: "x"}, "kind"},
		{"bad status", CreateTaskData{Title: "x", Status: "blocked"}, "status"},
		{"bad priority", CreateTaskData{Title: "x", Priority: "whenever"}, "priority"},
		{"story without points", CreateTaskData{Kind: KindStory, Title: "x"}, "storyPoints"},
		{"subtask without parent", CreateTaskData{Kind: KindSubtask, Title: "x"}, "parentId"},
		{"bug without severity", CreateTaskData{Kind: KindBug, Title: "x", Environment: ptr("e"), StepsToReproduce: ptr("s")}, "severity"},
		{"bug without environment", CreateTaskData{Kind: KindBug, Title: "x", Severity: ptr(SeverityMinor), StepsToReproduce: ptr("s")}, "environment"},
		{"bug with blank steps", CreateTaskData{Kind: KindBug, Title: "x", Severity: ptr(SeverityMinor), Environment: ptr("e"), StepsToReproduce: ptr("")}, "stepsToReproduce"},
		{"bug with unknown severity", CreateTaskData{Kind: KindBug, Title: "x", Severity: ptr(Severity("meh")), Environment: ptr("e"), StepsToReproduce: ptr("s")}, "severity"},
		{"field from another kind", CreateTaskData{Kind: KindTask, Title: "x", StoryPoints: ptr(3)}, "storyPoints"},
		{"epic with zero child", CreateTaskData{Kind: KindEpic, Title: "x", ChildrenIDs: []int64{0}}, "childrenIds.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.data)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected violation on %q, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestDescribe_NoFieldLeakage(t *testing.T) {
	built, err := New(validPayloads()[KindBug])
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	info := built.Describe()
	if info.ParentID != nil || info.Labels != nil || info.StoryPoints != nil || info.ChildrenIDs != nil || info.Color != nil || info.EpicLink != nil {
		t.Errorf("bug projection carries fields of other kinds: %+v", info)
	}
}

func TestDescribe_DoesNotAlias(t *testing.T) {
	built, err := New(validPayloads()[KindSubtask])
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	info := built.Describe()
	info.Labels[0] = "mutated"

	again := built.Describe()
	if again.Labels[0] != "docs" {
		t.Errorf("projection aliases task storage, got %v", again.Labels)
	}
}

func TestUpdate_StatusOnly(t *testing.T) {
	built, err := New(validPayloads()[KindTask])
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	updated, err := UpdateTaskData{Status: Set(StatusDone)}.Apply(built)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if updated.Status != StatusDone {
		t.Errorf("expected status done, got %q", updated.Status)
	}
	if updated.Title != built.Title || updated.Priority != built.Priority {
		t.Errorf("unexpected change: %+v", updated)
	}
	if updated.Description == nil || *updated.Description != *built.Description {
		t.Errorf("description changed: %v", updated.Description)
	}
	if built.Status != StatusInProgress {
		t.Errorf("Apply mutated its input")
	}
}

func TestUpdate_NullClearsDeadline(t *testing.T) {
	built, err := New(validPayloads()[KindTask])
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	updated, err := UpdateTaskData{Deadline: Null[time.Time]()}.Apply(built)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if updated.Deadline != nil {
		t.Errorf("expected deadline cleared, got %v", updated.Deadline)
	}
	if updated.AssigneeID == nil || *updated.AssigneeID != 7 {
		t.Errorf("assignee changed: %v", updated.AssigneeID)
	}
}

func TestUpdate_Rejections(t *testing.T) {
	story, err := New(validPayloads()[KindStory])
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name  string
		patch UpdateTaskData
		field string
	}{
		{"null title", UpdateTaskData{Title: Null[string]()}, "title"},
		{"empty title", UpdateTaskData{Title: Set("")}, "title"},
		{"negative points", UpdateTaskData{StoryPoints: Set(-1)}, "storyPoints"},
		{"null points", UpdateTaskData{StoryPoints: Null[int]()}, "storyPoints"},
		{"other kind field", UpdateTaskData{Color: Set("red")}, "color"},
		{"bad status", UpdateTaskData{Status: Set(Status("blocked"))}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.patch.Apply(story)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected violation on %q, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestUpdate_KindFields(t *testing.T) {
	sub, err := New(validPayloads()[KindSubtask])
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	updated, err := UpdateTaskData{Labels: Null[[]string](), Assignee: Set("sam")}.Apply(sub)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	info := updated.Describe()
	if info.Labels != nil {
		t.Errorf("expected labels cleared, got %v", info.Labels)
	}
	if info.Assignee == nil || *info.Assignee != "sam" {
		t.Errorf("expected assignee label sam, got %v", info.Assignee)
	}
	if *info.ParentID != 1 {
		t.Errorf("parent changed: %d", *info.ParentID)
	}
}

func TestPatch_UnmarshalJSON(t *testing.T) {
	var u UpdateTaskData
	body := []byte(`{"status":"done","deadline":null}`)
	if err := json.Unmarshal(body, &u); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}

	if v, ok := u.Status.Get(); !ok || v != StatusDone {
		t.Errorf("expected status done, got %v %v", v, ok)
	}
	if !u.Deadline.IsNull() {
		t.Error("expected deadline to be explicit null")
	}
	if u.Title.IsSet() || u.Description.IsSet() {
		t.Error("expected absent fields to stay unset")
	}
	if u.Empty() {
		t.Error("expected non-empty patch")
	}
}

func TestInfo_Normalize(t *testing.T) {
	zone := time.FixedZone("EST", -5*60*60)
	deadline := time.Date(2024, 5, 10, 7, 0, 0, 0, zone)
	info := Info{
		Kind:        KindSubtask,
		CreatedAt:   time.Date(2024, 5, 1, 4, 0, 0, 0, zone),
		UpdatedAt:   time.Date(2024, 5, 1, 5, 0, 0, 0, zone),
		Deadline:    &deadline,
		Labels:      []string{},
		ChildrenIDs: []int64{},
	}

	got := info.Normalize()

	want := Info{
		Kind:      KindSubtask,
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Deadline:  ptr(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if info.Deadline.Location() != zone {
		t.Error("Normalize() must not modify the receiver's deadline")
	}
}

func TestDescribe_EmptyLabelsAreNil(t *testing.T) {
	payload := validPayloads()[KindSubtask]
	payload.Labels = []string{}

	built, err := New(payload)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if info := built.Describe(); info.Labels != nil {
		t.Errorf("expected nil labels, got %#v", info.Labels)
	}
}
