package persistence

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"cartify_backend/internal/shared/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Interceptor is invoked once per SaveChanges, after change detection and before any
// write is issued. Returning an error aborts the commit.
type Interceptor interface {
	SavingChanges(ctx context.Context, entries []*Entry, actor model.Actor) error
}

// UnitOfWork is one request-scoped transaction boundary. Repositories obtained from it
// share its change tracker, so writes staged across entity types commit together.
// It is not safe for concurrent use.
type UnitOfWork struct {
	db           *gorm.DB
	tracker      *ChangeTracker
	interceptors []Interceptor
	repositories map[string]any
}

// NewUnitOfWork returns a unit of work bound to db.
func NewUnitOfWork(db *gorm.DB, interceptors ...Interceptor) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		tracker:      NewChangeTracker(),
		interceptors: interceptors,
		repositories: make(map[string]any),
	}
}

// GetOrCreateRepository returns the repository for entity type E, creating it on first use.
// Repeated calls on the same unit of work return the same instance.
func GetOrCreateRepository[E model.Entity[K], K model.Key](u *UnitOfWork) *Repository[E, K] {
	name := entityName[E]()
	if r, ok := u.repositories[name]; ok {
		if repo, ok := r.(*Repository[E, K]); ok {
			return repo
		}
	}
	repo := newRepository[E, K](u.db, u.tracker)
	u.repositories[name] = repo
	return repo
}

// Changes exposes the change tracker for rows that have no single numeric key,
// such as join tables.
func (u *UnitOfWork) Changes() *ChangeTracker {
	return u.tracker
}

// SaveChanges runs the interceptors and writes every staged change in one transaction.
// It returns the number of affected rows. On error nothing is written and the staged
// changes are kept: entry states and the audit fields stamped by interceptors are
// rolled back to what they were before the call.
func (u *UnitOfWork) SaveChanges(ctx context.Context, actor model.Actor) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	u.tracker.DetectChanges()
	if !u.tracker.HasChanges() {
		return 0, nil
	}

	entries := u.tracker.Entries()
	saved := capture(entries)
	for _, ic := range u.interceptors {
		if err := ic.SavingChanges(ctx, entries, actor); err != nil {
			restore(saved)
			return 0, fmt.Errorf("saving changes: %w", err)
		}
	}

	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range u.tracker.Entries() {
			n, err := write(tx, e)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		restore(saved)
		return 0, err
	}

	u.tracker.AcceptChanges()
	return affected, nil
}

// entrySnapshot は SaveChanges 失敗時に戻すためのエントリの状態。
type entrySnapshot struct {
	entry    *Entry
	state    EntryState
	excluded []string
	audit    *model.Audit
	stamps   model.Audit
}

func capture(entries []*Entry) []entrySnapshot {
	out := make([]entrySnapshot, 0, len(entries))
	for _, e := range entries {
		snap := entrySnapshot{entry: e, state: e.state, excluded: slices.Clone(e.excluded)}
		if aud, ok := e.Entity().(model.Auditable); ok {
			snap.audit = aud.AuditInfo()
			snap.stamps = *snap.audit
		}
		out = append(out, snap)
	}
	return out
}

func restore(snaps []entrySnapshot) {
	for _, s := range snaps {
		s.entry.state = s.state
		s.entry.excluded = s.excluded
		if s.audit != nil {
			*s.audit = s.stamps
		}
	}
}

func write(tx *gorm.DB, e *Entry) (int64, error) {
	var res *gorm.DB
	switch e.State() {
	case Added:
		res = tx.Omit(clause.Associations).Create(e.Entity())
	case Modified:
		omit := append([]string{clause.Associations}, e.Excluded()...)
		res = tx.Model(e.Entity()).Select("*").Omit(omit...).Updates(e.Entity())
	case Deleted:
		res = tx.Delete(e.Entity())
	default:
		return 0, nil
	}
	return res.RowsAffected, res.Error
}

func entityName[E any]() string {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// Factory mints units of work that share a connection pool and interceptor chain.
type Factory struct {
	db           *gorm.DB
	interceptors []Interceptor
}

// NewFactory returns a Factory.
func NewFactory(db *gorm.DB, interceptors ...Interceptor) *Factory {
	return &Factory{db: db, interceptors: interceptors}
}

// New starts a unit of work.
func (f *Factory) New() *UnitOfWork {
	return NewUnitOfWork(f.db, f.interceptors...)
}
