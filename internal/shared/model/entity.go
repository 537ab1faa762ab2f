// Package model defines the persistence capabilities shared by every catalog entity:
// numeric primary keys and the audit / soft-delete columns.
package model

import "time"

// Key is the set of primary key types an entity may use.
type Key interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Audit holds the created/updated/deleted stamps of an entity.
// CreatedAtUtc and CreatedBy are written once on insert and never again.
type Audit struct {
	CreatedAtUtc time.Time  `gorm:"not null"`
	CreatedBy    string     `gorm:"size:64;not null"`
	UpdatedAtUtc *time.Time
	UpdatedBy    *string    `gorm:"size:64"`
	DeletedAtUtc *time.Time `gorm:"index"`
	DeletedBy    *string    `gorm:"size:64"`
}

// Auditable is implemented by anything that carries Audit columns.
type Auditable interface {
	AuditInfo() *Audit
}

// AuditInfo returns the receiver so that embedding Audit makes a type Auditable.
func (a *Audit) AuditInfo() *Audit {
	return a
}

// IsDeleted reports whether the entity has been soft deleted.
func (a *Audit) IsDeleted() bool {
	return a.DeletedAtUtc != nil
}

// Keyed lets non-generic code read an entity's primary key.
// The second return value is false while the entity has not been persisted yet.
type Keyed interface {
	KeyValue() (any, bool)
}

// Base is embedded by every entity with a numeric primary key.
type Base[K Key] struct {
	ID    K     `gorm:"primaryKey"`
	Audit `gorm:"embedded"`
}

// GetID returns the primary key.
func (b *Base[K]) GetID() K {
	return b.ID
}

// KeyValue implements Keyed.
func (b *Base[K]) KeyValue() (any, bool) {
	var zero K
	return b.ID, b.ID != zero
}

// Entity is satisfied by pointers to structs that embed Base[K].
type Entity[K Key] interface {
	Auditable
	Keyed
	GetID() K
}
