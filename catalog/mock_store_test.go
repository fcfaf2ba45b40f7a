package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-task-catalog/task"
)

// mockStore is an in-memory Store that records calls and can be told to
// fail a given operation.
type mockStore struct {
	mu     sync.Mutex
	rows   map[int64]task.Task
	nextID int64
	now    time.Time
	calls  []string
	failOp string
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{
		rows: make(map[int64]task.Task),
		now:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) recordCall(op string) error {
	m.calls = append(m.calls, op)
	if m.failOp == op {
		return m.err
	}
	return nil
}

func (m *mockStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockStore) countCalls(op string) int {
	n := 0
	for _, call := range m.getCalls() {
		if call == op {
			n++
		}
	}
	return n
}

func (m *mockStore) clearCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *mockStore) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOp = op
	m.err = err
}

// seed inserts t directly, bypassing the call log. Each seeded row is one
// minute newer than the previous one.
func (m *mockStore) seed(t task.Task) task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(t)
}

func (m *mockStore) insert(t task.Task) task.Task {
	m.nextID++
	m.now = m.now.Add(time.Minute)
	t.ID = m.nextID
	t.CreatedAt = m.now
	t.UpdatedAt = m.now
	m.rows[t.ID] = t.Clone()
	return t.Clone()
}

func (m *mockStore) Find(_ context.Context, q Query) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recordCall("find"); err != nil {
		return nil, err
	}

	var out []task.Task
	for _, row := range m.rows {
		if matches(q.Predicate, row) {
			out = append(out, row.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if q.Order == OrderOldestFirst {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		if q.Order == OrderOldestFirst {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})

	if q.Offset >= len(out) {
		return []task.Task{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *mockStore) Count(_ context.Context, p Predicate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recordCall("count"); err != nil {
		return 0, err
	}

	n := 0
	for _, row := range m.rows {
		if matches(p, row) {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) FindByID(_ context.Context, id int64) (task.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recordCall("find_by_id"); err != nil {
		return task.Task{}, false, err
	}

	row, ok := m.rows[id]
	if !ok {
		return task.Task{}, false, nil
	}
	return row.Clone(), true, nil
}

func (m *mockStore) Create(_ context.Context, t task.Task) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recordCall("create"); err != nil {
		return task.Task{}, err
	}
	return m.insert(t), nil
}

func (m *mockStore) Save(_ context.Context, t task.Task) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recordCall("save"); err != nil {
		return task.Task{}, err
	}

	m.now = m.now.Add(time.Second)
	t.UpdatedAt = m.now
	m.rows[t.ID] = t.Clone()
	return t.Clone(), nil
}

func (m *mockStore) Destroy(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recordCall("destroy"); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func matches(p Predicate, t task.Task) bool {
	if p.Status != nil && t.Status != *p.Status {
		return false
	}
	if p.Priority != nil && t.Priority != *p.Priority {
		return false
	}
	if p.CreatedFrom != nil && t.CreatedAt.Before(*p.CreatedFrom) {
		return false
	}
	if p.CreatedTo != nil && t.CreatedAt.After(*p.CreatedTo) {
		return false
	}
	return true
}

// recordingMetrics counts repository events.
type recordingMetrics struct {
	mu           sync.Mutex
	hits         map[string]int
	misses       map[string]int
	invalidated  map[string]int
	storeFailure map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		hits:         map[string]int{},
		misses:       map[string]int{},
		invalidated:  map[string]int{},
		storeFailure: map[string]int{},
	}
}

func (r *recordingMetrics) CacheHit(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits[entry]++
}

func (r *recordingMetrics) CacheMiss(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[entry]++
}

func (r *recordingMetrics) Invalidated(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated[scope]++
}

func (r *recordingMetrics) StoreFailed(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeFailure[op]++
}
