package specification

import "strings"

// Operator selects how a Criterion compares its column with its value.
type Operator int

const (
	// OpNone marks the trivial criterion that matches every row.
	OpNone Operator = iota
	// OpEqual matches rows whose column equals Value.
	OpEqual
	// OpContainsFold matches rows whose column contains Value, ignoring case.
	OpContainsFold
	// OpIn matches rows whose column is one of Values. An empty list matches nothing.
	OpIn
)

// Criterion is one storage-agnostic predicate over a single column.
type Criterion struct {
	Column string
	Op     Operator
	Value  any
	Values []any
}

// IsTrivial reports whether the criterion matches every row.
func (c Criterion) IsTrivial() bool {
	return c.Op == OpNone
}

// Equal matches rows where col equals v.
func Equal[E any](col Column[E], v any) Criterion {
	return Criterion{Column: string(col), Op: OpEqual, Value: v}
}

// OptionalEqual is Equal when v is set and the trivial criterion otherwise.
func OptionalEqual[E any, V any](col Column[E], v *V) Criterion {
	if v == nil {
		return Criterion{}
	}
	return Equal(col, *v)
}

// ContainsFold matches rows whose col contains keyword, case-insensitively.
// A blank keyword yields the trivial criterion.
func ContainsFold[E any](col Column[E], keyword string) Criterion {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Criterion{}
	}
	return Criterion{Column: string(col), Op: OpContainsFold, Value: strings.ToLower(keyword)}
}

// In matches rows whose col is one of values.
func In[E any, V any](col Column[E], values []V) Criterion {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Criterion{Column: string(col), Op: OpIn, Values: vs}
}
