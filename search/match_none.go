package search

// MatchNoDocsQuery matches no documents. It is the rewrite result of an
// empty term list.
type MatchNoDocsQuery struct{}

// NewMatchNoDocsQuery creates a MatchNoDocsQuery.
func NewMatchNoDocsQuery() *MatchNoDocsQuery {
	return &MatchNoDocsQuery{}
}

// Boost implements Query.
func (q *MatchNoDocsQuery) Boost() float64 {
	return 1.0
}

// String implements Query.
func (q *MatchNoDocsQuery) String() string {
	return "MatchNoDocsQuery"
}

// Equal implements Query.
func (q *MatchNoDocsQuery) Equal(other Query) bool {
	_, ok := other.(*MatchNoDocsQuery)
	return ok
}

// Hash implements Query.
func (q *MatchNoDocsQuery) Hash() uint64 {
	h := newHasher()
	h.str("MatchNoDocsQuery")
	return h.sum()
}
