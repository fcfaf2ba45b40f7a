package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-task-catalog/task"
)

// TaskCreator is the write side of the catalog used to seed fixtures.
type TaskCreator interface {
	Create(ctx context.Context, data task.CreateTaskData) (task.Info, error)
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadTasks reads a JSON array of create payloads.
func LoadTasks(t testing.TB, path string) []task.CreateTaskData {
	t.Helper()

	var payloads []task.CreateTaskData
	LoadFixtureJSON(t, path, &payloads)
	return payloads
}

// SeedTasks creates every payload in order and returns the stored tasks.
func SeedTasks(t testing.TB, creator TaskCreator, payloads []task.CreateTaskData) []task.Info {
	t.Helper()

	out := make([]task.Info, 0, len(payloads))
	for i, p := range payloads {
		info, err := creator.Create(context.Background(), p)
		if err != nil {
			t.Fatalf("failed to seed task %d (%q): %v", i, p.Title, err)
		}
		out = append(out, info)
	}
	return out
}

// WriteFile writes content to name inside a per-test temporary directory
// and returns the full path.
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}
