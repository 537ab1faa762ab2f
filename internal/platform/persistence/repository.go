package persistence

import (
	"context"
	"reflect"

	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides staged writes and specification-aware reads for one entity type.
// E is the pointer type of the entity, e.g. *entity.Product.
//
// Every read excludes soft-deleted rows, on the root table and on each preloaded
// association, unless the repository was obtained through WithDeleted.
// Absence is reported as a nil entity and a nil error.
type Repository[E model.Entity[K], K model.Key] struct {
	db             *gorm.DB
	tracker        *ChangeTracker
	includeDeleted bool
}

func newRepository[E model.Entity[K], K model.Key](db *gorm.DB, tracker *ChangeTracker) *Repository[E, K] {
	return &Repository[E, K]{db: db, tracker: tracker}
}

// WithDeleted returns a view of the same repository that also sees soft-deleted rows.
// Writes staged through either view land in the same unit of work.
func (r *Repository[E, K]) WithDeleted() *Repository[E, K] {
	return &Repository[E, K]{db: r.db, tracker: r.tracker, includeDeleted: true}
}

// Add stages an insert.
func (r *Repository[E, K]) Add(entity E) {
	r.tracker.Add(entity)
}

// Update stages an update.
func (r *Repository[E, K]) Update(entity E) {
	r.tracker.Update(entity)
}

// Remove stages a delete. Audited entities are soft deleted at commit.
func (r *Repository[E, K]) Remove(entity E) {
	r.tracker.Remove(entity)
}

// GetByID loads an entity by primary key without related data. The result is tracked.
func (r *Repository[E, K]) GetByID(ctx context.Context, id K) (E, error) {
	var rows []E
	err := r.base(ctx).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		var zero E
		return zero, err
	}
	return r.attach(rows[0]), nil
}

// GetByIDSpec returns the first entity matching spec, with its includes and sort applied.
// The result is a read-only snapshot.
func (r *Repository[E, K]) GetByIDSpec(ctx context.Context, spec *specification.Specification[E]) (E, error) {
	return r.first(ctx, spec)
}

// GetSingle is GetByIDSpec for callers that intend to modify the result. The result is tracked.
func (r *Repository[E, K]) GetSingle(ctx context.Context, spec *specification.Specification[E]) (E, error) {
	e, err := r.first(ctx, spec)
	if err != nil || isNil(e) {
		return e, err
	}
	return r.attach(e), nil
}

// GetAll returns the matching entities in order. The results are read-only snapshots.
// A nil spec returns every non-deleted entity.
func (r *Repository[E, K]) GetAll(ctx context.Context, spec *specification.Specification[E]) ([]E, error) {
	var rows []E
	if err := r.compile(ctx, spec, false).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetAllTracked is GetAll for callers that intend to modify the results.
func (r *Repository[E, K]) GetAllTracked(ctx context.Context, spec *specification.Specification[E]) ([]E, error) {
	rows, err := r.GetAll(ctx, spec)
	if err != nil {
		return nil, err
	}
	for i, e := range rows {
		rows[i] = r.attach(e)
	}
	return rows, nil
}

// Count returns how many entities match the criteria of spec.
// Includes, sort and pagination are ignored.
func (r *Repository[E, K]) Count(ctx context.Context, spec *specification.Specification[E]) (int64, error) {
	var n int64
	if err := r.compile(ctx, spec, true).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether a non-deleted entity with the given primary key exists.
func (r *Repository[E, K]) Exists(ctx context.Context, id K) (bool, error) {
	var n int64
	err := r.base(ctx).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[E, K]) first(ctx context.Context, spec *specification.Specification[E]) (E, error) {
	var rows []E
	var zero E
	if err := r.compile(ctx, spec, false).Limit(1).Find(&rows).Error; err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, nil
	}
	return rows[0], nil
}

func (r *Repository[E, K]) compile(ctx context.Context, spec *specification.Specification[E], forCount bool) *gorm.DB {
	return Compile(r.base(ctx), spec, CompileOptions{
		IncludeDeleted: r.includeDeleted,
		ForCount:       forCount,
	})
}

func (r *Repository[E, K]) base(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx).Model(newEntity[E]())
	if !r.includeDeleted {
		q = q.Where(notDeleted())
	}
	return q
}

func (r *Repository[E, K]) attach(e E) E {
	return r.tracker.Attach(e).(E)
}

func newEntity[E any]() E {
	return reflect.New(reflect.TypeFor[E]().Elem()).Interface().(E)
}

func isNil[E any](e E) bool {
	v := reflect.ValueOf(e)
	return !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil())
}
