package persistence

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"cartify_backend/internal/shared/model"
)

// EntryState is the pending operation of a tracked entity.
type EntryState int

const (
	Detached EntryState = iota
	Unchanged
	Added
	Modified
	Deleted
)

func (s EntryState) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "detached"
	}
}

// Entry is one tracked entity and its pending operation.
type Entry struct {
	entity   any
	state    EntryState
	snapshot map[string]any
	excluded []string
}

// Entity returns the tracked pointer.
func (e *Entry) Entity() any { return e.entity }

// State returns the pending operation.
func (e *Entry) State() EntryState { return e.state }

// SetState rewrites the pending operation. Interceptors use it to turn deletes into updates.
func (e *Entry) SetState(s EntryState) { e.state = s }

// ExcludeFromWrite keeps the named struct fields out of the UPDATE issued for this entry.
func (e *Entry) ExcludeFromWrite(fields ...string) {
	for _, f := range fields {
		if !slices.Contains(e.excluded, f) {
			e.excluded = append(e.excluded, f)
		}
	}
}

// Excluded returns the fields kept out of the write.
func (e *Entry) Excluded() []string { return e.excluded }

// ChangeTracker records the entities a unit of work has read or staged.
// It is not safe for concurrent use; a unit of work belongs to a single request.
type ChangeTracker struct {
	entries  []*Entry
	byEntity map[any]*Entry
	identity map[string]*Entry
}

// NewChangeTracker returns an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		byEntity: make(map[any]*Entry),
		identity: make(map[string]*Entry),
	}
}

// Entry returns the tracking entry of entity, or nil.
func (t *ChangeTracker) Entry(entity any) *Entry {
	return t.byEntity[entity]
}

// Add stages an insert. Re-adding a removed entity cancels the removal.
func (t *ChangeTracker) Add(entity any) {
	if e, ok := t.byEntity[entity]; ok {
		if e.state == Deleted {
			e.state = Modified
		}
		return
	}
	t.track(entity, Added)
}

// Update stages an update of every column. An entity staged for insert stays an insert.
func (t *ChangeTracker) Update(entity any) {
	if e, ok := t.byEntity[entity]; ok {
		if e.state != Added {
			e.state = Modified
		}
		return
	}
	t.track(entity, Modified)
}

// Remove stages a delete. Removing an entity that was only staged for insert forgets it.
func (t *ChangeTracker) Remove(entity any) {
	e, ok := t.byEntity[entity]
	if !ok {
		t.track(entity, Deleted)
		return
	}
	if e.state == Added {
		t.detach(e)
		return
	}
	e.state = Deleted
}

// Attach starts tracking an entity loaded from the store. When an entity with the same
// identity is already tracked, that instance is returned instead.
func (t *ChangeTracker) Attach(entity any) any {
	if id, ok := identityOf(entity); ok {
		if e, found := t.identity[id]; found {
			return e.entity
		}
	}
	if e, ok := t.byEntity[entity]; ok {
		return e.entity
	}
	t.track(entity, Unchanged)
	return entity
}

// DetectChanges marks unchanged entries whose column values differ from their snapshot.
func (t *ChangeTracker) DetectChanges() {
	for _, e := range t.entries {
		if e.state != Unchanged || e.snapshot == nil {
			continue
		}
		if !reflect.DeepEqual(e.snapshot, snapshotOf(e.entity)) {
			e.state = Modified
		}
	}
}

// Entries returns the entries with a pending operation, in staging order.
func (t *ChangeTracker) Entries() []*Entry {
	var out []*Entry
	for _, e := range t.entries {
		switch e.state {
		case Added, Modified, Deleted:
			out = append(out, e)
		}
	}
	return out
}

// HasChanges reports whether anything is pending.
func (t *ChangeTracker) HasChanges() bool {
	return len(t.Entries()) > 0
}

// AcceptChanges is called after a successful commit.
func (t *ChangeTracker) AcceptChanges() {
	for _, e := range slices.Clone(t.entries) {
		switch e.state {
		case Deleted:
			t.detach(e)
		case Added, Modified:
			e.state = Unchanged
			e.excluded = nil
			e.snapshot = snapshotOf(e.entity)
			if id, ok := identityOf(e.entity); ok {
				t.identity[id] = e
			}
		}
	}
}

func (t *ChangeTracker) track(entity any, state EntryState) *Entry {
	e := &Entry{entity: entity, state: state}
	if state == Unchanged {
		e.snapshot = snapshotOf(entity)
	}
	t.entries = append(t.entries, e)
	t.byEntity[entity] = e
	if id, ok := identityOf(entity); ok {
		if _, exists := t.identity[id]; !exists {
			t.identity[id] = e
		}
	}
	return e
}

func (t *ChangeTracker) detach(e *Entry) {
	e.state = Detached
	delete(t.byEntity, e.entity)
	if id, ok := identityOf(e.entity); ok && t.identity[id] == e {
		delete(t.identity, id)
	}
	t.entries = slices.DeleteFunc(t.entries, func(x *Entry) bool { return x == e })
}

func identityOf(entity any) (string, bool) {
	k, ok := entity.(model.Keyed)
	if !ok {
		return "", false
	}
	v, set := k.KeyValue()
	if !set {
		return "", false
	}
	return fmt.Sprintf("%s#%v", reflect.TypeOf(entity).String(), v), true
}

var timeType = reflect.TypeFor[time.Time]()

// snapshotOf copies the column fields of a struct pointer. Navigation fields
// (struct pointers, struct slices, nested structs) are skipped; embedded structs are flattened.
func snapshotOf(entity any) map[string]any {
	v := reflect.Indirect(reflect.ValueOf(entity))
	if v.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]any)
	collectColumns(v, out)
	return out
}

func collectColumns(v reflect.Value, out map[string]any) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			collectColumns(fv, out)
			continue
		}
		if isNavigation(f.Type) {
			continue
		}
		out[f.Name] = copyValue(fv)
	}
}

func isNavigation(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return t != timeType
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct && t.Elem() != timeType
	case reflect.Slice:
		el := t.Elem()
		if el.Kind() == reflect.Pointer {
			el = el.Elem()
		}
		return el.Kind() == reflect.Struct && el != timeType
	}
	return false
}

func copyValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v.Interface()
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(v.Elem())
		return p.Interface()
	case reflect.Slice:
		if v.IsNil() {
			return v.Interface()
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(s, v)
		return s.Interface()
	}
	return v.Interface()
}
