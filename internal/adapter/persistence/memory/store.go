// Package memory is a process-local implementation of the repository interfaces. It backs the
// workflow scenario tests and STORE_DRIVER=memory deployments.
package memory

import (
	"encoding/json"
	"sort"
	"sync"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

// Store holds every collection behind one lock, so multi-document writes are atomic.
type Store struct {
	mu sync.RWMutex

	users         table[entities.User]
	proposals     table[entities.Proposal]
	projects      table[entities.Project]
	tasks         table[entities.Task]
	timesheets    table[entities.Timesheet]
	timeRequests  table[entities.TimeRequest]
	deliverables  table[entities.Deliverable]
	submissions   table[entities.Submission]
	invoices      table[entities.Invoice]
	payments      table[entities.Payment]
	notifications table[entities.Notification]
	activities    table[entities.Activity]
	outbox        table[entities.OutboxEvent]

	numbers  map[string]string
	counters map[string]int64
}

func New() *Store {
	return &Store{
		users:         newTable(func(u *entities.User) string { return u.UID }, func(u *entities.User) *int64 { return &u.Version }),
		proposals:     newTable(func(p *entities.Proposal) string { return p.ID }, func(p *entities.Proposal) *int64 { return &p.Version }),
		projects:      newTable(func(p *entities.Project) string { return p.ID }, func(p *entities.Project) *int64 { return &p.Version }),
		tasks:         newTable(func(t *entities.Task) string { return t.ID }, func(t *entities.Task) *int64 { return &t.Version }),
		timesheets:    newTable(func(t *entities.Timesheet) string { return t.ID }, nil),
		timeRequests:  newTable(func(t *entities.TimeRequest) string { return t.ID }, func(t *entities.TimeRequest) *int64 { return &t.Version }),
		deliverables:  newTable(func(d *entities.Deliverable) string { return d.ID }, func(d *entities.Deliverable) *int64 { return &d.Version }),
		submissions:   newTable(func(s *entities.Submission) string { return s.ID }, func(s *entities.Submission) *int64 { return &s.Version }),
		invoices:      newTable(func(i *entities.Invoice) string { return i.ID }, func(i *entities.Invoice) *int64 { return &i.Version }),
		payments:      newTable(func(p *entities.Payment) string { return p.ID }, func(p *entities.Payment) *int64 { return &p.Version }),
		notifications: newTable(func(n *entities.Notification) string { return n.ID }, nil),
		activities:    newTable(func(a *entities.Activity) string { return a.ID }, nil),
		outbox:        newTable(func(e *entities.OutboxEvent) string { return e.ID }, nil),
		numbers:       map[string]string{},
		counters:      map[string]int64{},
	}
}

// table is one collection. It does no locking of its own.
type table[T any] struct {
	rows    map[string]T
	id      func(*T) string
	version func(*T) *int64
}

func newTable[T any](id func(*T) string, version func(*T) *int64) table[T] {
	return table[T]{rows: map[string]T{}, id: id, version: version}
}

func (t *table[T]) create(v T) (T, error) {
	key := t.id(&v)
	if _, ok := t.rows[key]; ok {
		var zero T
		return zero, interfaces.ErrConflict
	}
	t.rows[key] = clone(v)
	return clone(v), nil
}

func (t *table[T]) get(id string) T {
	return clone(t.rows[id])
}

func (t *table[T]) exists(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) put(v T) {
	t.rows[t.id(&v)] = clone(v)
}

// update writes v with its version bumped, provided the stored version still equals v's.
func (t *table[T]) update(v T) (T, error) {
	var zero T
	key := t.id(&v)
	stored, ok := t.rows[key]
	if !ok {
		return zero, interfaces.ErrConflict
	}
	if t.version != nil {
		if *t.version(&stored) != *t.version(&v) {
			return zero, interfaces.ErrConflict
		}
		*t.version(&v) = *t.version(&v) + 1
	}
	t.rows[key] = clone(v)
	return clone(v), nil
}

func (t *table[T]) delete(id string) {
	delete(t.rows, id)
}

func (t *table[T]) list(match func(T) bool) []T {
	out := make([]T, 0)
	for _, k := range sortedKeys(t.rows) {
		v := t.rows[k]
		if match == nil || match(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

func sortedKeys[T any](rows map[string]T) []string {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clone deep-copies v through its JSON form so callers never share slices or maps with the store.
func clone[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic("memory: clone marshal: " + err.Error())
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		panic("memory: clone unmarshal: " + err.Error())
	}
	return out
}
