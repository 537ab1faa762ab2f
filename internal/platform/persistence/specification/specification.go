// Package specification describes which subset of an entity collection a caller wants,
// in what order, with which related data and on which page. It holds no storage code;
// the persistence package compiles a Specification into a query.
package specification

// Column names a sortable or filterable field of entity type E.
type Column[E any] string

// Include names a relation of entity type E to load eagerly, e.g. "Brand" or
// "Products.Product". Entity packages declare these next to their types.
type Include[E any] string

// Specification is built once per request and consumed once by the query compiler.
type Specification[E any] struct {
	criteria    []Criterion
	includes    []string
	orderBy     string
	orderByDesc string
	skip        int
	take        int
	paginated   bool
}

// New returns a Specification whose criteria are the non-trivial members of criteria,
// ANDed together. With no criteria it selects everything.
func New[E any](criteria ...Criterion) *Specification[E] {
	s := &Specification[E]{}
	for _, c := range criteria {
		s.Where(c)
	}
	return s
}

// Where ANDs another criterion onto the specification. Trivial criteria are dropped.
func (s *Specification[E]) Where(c Criterion) *Specification[E] {
	if !c.IsTrivial() {
		s.criteria = append(s.criteria, c)
	}
	return s
}

// Criteria returns the ANDed criteria. An empty result means no filtering.
func (s *Specification[E]) Criteria() []Criterion {
	return s.criteria
}

// AddRelatedDataInclude registers a declared relation to load eagerly.
func (s *Specification[E]) AddRelatedDataInclude(inc Include[E]) *Specification[E] {
	return s.AddRelatedDataIncludePath(string(inc))
}

// AddRelatedDataIncludePath registers a relation by its dotted path.
func (s *Specification[E]) AddRelatedDataIncludePath(path string) *Specification[E] {
	if path != "" {
		s.includes = append(s.includes, path)
	}
	return s
}

// Includes returns the relation paths in registration order.
func (s *Specification[E]) Includes() []string {
	return s.includes
}

// AddOrderBy sets the ascending sort column. Only the first call has an effect.
func (s *Specification[E]) AddOrderBy(col Column[E]) *Specification[E] {
	if s.orderBy == "" {
		s.orderBy = string(col)
	}
	return s
}

// AddOrderByDesc sets the descending sort column. Only the first call has an effect.
func (s *Specification[E]) AddOrderByDesc(col Column[E]) *Specification[E] {
	if s.orderByDesc == "" {
		s.orderByDesc = string(col)
	}
	return s
}

// OrderBy returns the ascending sort column, or "" when unset.
func (s *Specification[E]) OrderBy() string {
	return s.orderBy
}

// OrderByDesc returns the descending sort column, or "" when unset.
func (s *Specification[E]) OrderByDesc() string {
	return s.orderByDesc
}

// ApplyPagination selects the 1-based page pageIndex of size pageSize.
// Calling it again replaces the previous page; values never accumulate.
func (s *Specification[E]) ApplyPagination(pageIndex, pageSize int) *Specification[E] {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	s.paginated = true
	s.take = pageSize
	s.skip = (pageIndex - 1) * pageSize
	return s
}

// Skip returns the number of rows to skip when paginated.
func (s *Specification[E]) Skip() int {
	return s.skip
}

// Take returns the page size when paginated.
func (s *Specification[E]) Take() int {
	return s.take
}

// IsPaginated reports whether ApplyPagination has been called.
func (s *Specification[E]) IsPaginated() bool {
	return s.paginated
}
