package search

// Occur specifies how a clause participates in a boolean query.
type Occur int

const (
	// OccurShould marks a clause that contributes to scoring but is not
	// mandatory (unless minimum-should-match demands it).
	OccurShould Occur = iota
	// OccurMust marks a clause that must match.
	OccurMust
	// OccurMustNot marks a clause that must not match.
	OccurMustNot
)

// String returns the name of the occurrence kind.
func (o Occur) String() string {
	switch o {
	case OccurShould:
		return "SHOULD"
	case OccurMust:
		return "MUST"
	case OccurMustNot:
		return "MUST_NOT"
	default:
		return "UNKNOWN"
	}
}
