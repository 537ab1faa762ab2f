// Package persistence implements the generic repository, unit of work and audit
// interception on top of gorm. Reads are described with specification.Specification
// and compiled into gorm queries here.
package persistence

import (
	"strings"

	"cartify_backend/internal/platform/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeletedAtColumn is the soft-delete marker column shared by every audited table.
const DeletedAtColumn = "deleted_at_utc"

// likeEscape は LIKE パターンのエスケープ文字。
// バックスラッシュは MySQL の文字列リテラル内で意味を持つため使わない。
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// notDeleted filters out soft-deleted rows of the statement's own table.
func notDeleted() clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: DeletedAtColumn},
		Value:  nil,
	}
}

// CompileOptions tunes how a specification is applied.
type CompileOptions struct {
	// IncludeDeleted disables the soft-delete filter on preloaded associations.
	IncludeDeleted bool
	// ForCount applies only the criteria.
	ForCount bool
}

// Compile applies spec to db in a fixed order: criteria, includes, ascending sort,
// descending sort, then offset and limit. A nil spec returns db unchanged.
func Compile[E any](db *gorm.DB, spec *specification.Specification[E], opts CompileOptions) *gorm.DB {
	if spec == nil {
		return db
	}

	q := db
	for _, c := range spec.Criteria() {
		q = q.Where(criterionExpr(c))
	}

	if opts.ForCount {
		return q
	}

	for _, path := range expandIncludes(spec.Includes()) {
		if opts.IncludeDeleted {
			q = q.Preload(path)
			continue
		}
		q = q.Preload(path, func(tx *gorm.DB) *gorm.DB {
			return tx.Where(notDeleted())
		})
	}

	if col := spec.OrderBy(); col != "" {
		q = q.Order(clause.OrderByColumn{Column: column(col)})
	}
	if col := spec.OrderByDesc(); col != "" {
		q = q.Order(clause.OrderByColumn{Column: column(col), Desc: true})
	}

	if spec.IsPaginated() {
		q = q.Offset(spec.Skip()).Limit(spec.Take())
	}
	return q
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func criterionExpr(c specification.Criterion) clause.Expression {
	switch c.Op {
	case specification.OpEqual:
		return clause.Eq{Column: column(c.Column), Value: c.Value}
	case specification.OpContainsFold:
		return clause.Expr{
			SQL:  "LOWER(?) LIKE ? ESCAPE '" + likeEscape + "'",
			Vars: []any{column(c.Column), "%" + escapeLike(c.Value.(string)) + "%"},
		}
	case specification.OpIn:
		return clause.IN{Column: column(c.Column), Values: c.Values}
	default:
		return clause.Expr{SQL: "1 = 1"}
	}
}

// escapeLike makes % and _ in s match literally.
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// expandIncludes turns "Products.Product.Brand" into its prefixes so that every hop
// of a nested include gets its own soft-delete filter. Order of first appearance is kept.
func expandIncludes(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		parts := strings.Split(p, ".")
		for i := range parts {
			prefix := strings.Join(parts[:i+1], ".")
			if _, ok := seen[prefix]; ok {
				continue
			}
			seen[prefix] = struct{}{}
			out = append(out, prefix)
		}
	}
	return out
}
