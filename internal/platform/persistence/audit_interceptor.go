package persistence

import (
	"context"
	"time"

	"cartify_backend/internal/shared/model"
)

// createdFields are written on insert only.
var createdFields = []string{"CreatedAtUtc", "CreatedBy"}

// AuditInterceptor stamps audit columns and turns deletes of audited entities into
// soft deletes. Entities without audit columns pass through untouched.
type AuditInterceptor struct {
	now func() time.Time
}

var _ Interceptor = (*AuditInterceptor)(nil)

// NewAuditInterceptor returns an interceptor using the wall clock.
func NewAuditInterceptor() *AuditInterceptor {
	return &AuditInterceptor{now: time.Now}
}

// WithClock replaces the clock. Used by tests.
func (a *AuditInterceptor) WithClock(now func() time.Time) *AuditInterceptor {
	a.now = now
	return a
}

// SavingChanges implements Interceptor.
func (a *AuditInterceptor) SavingChanges(ctx context.Context, entries []*Entry, actor model.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := a.now().UTC()
	who := actor.Identity()

	for _, e := range entries {
		aud, ok := e.Entity().(model.Auditable)
		if !ok {
			continue
		}
		info := aud.AuditInfo()

		switch e.State() {
		case Added:
			info.CreatedAtUtc = now
			info.CreatedBy = who
		case Modified:
			// updates to an already deleted entity still write, but do not advance the stamps
			if !info.IsDeleted() {
				info.UpdatedAtUtc = ptr(now)
				info.UpdatedBy = ptr(who)
			}
			e.ExcludeFromWrite(createdFields...)
		case Deleted:
			e.SetState(Modified)
			info.DeletedAtUtc = ptr(now)
			info.DeletedBy = ptr(who)
			e.ExcludeFromWrite(createdFields...)
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
