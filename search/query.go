package search

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Query is the closed set of query variants understood by the execution
// layer: *TermQuery, *BooleanQuery, *MatchNoDocsQuery and
// *CommonTermsQuery. Execution dispatches over these concrete types; there
// is no open hierarchy.
//
// Equal and Hash form the cache-key contract: they are sensitive to every
// configuration field and, for term lists, to insertion order.
type Query interface {
	// String renders the query in a compact textual form.
	String() string
	// Boost returns the query's score multiplier (1.0 when unset).
	Boost() float64
	// Equal reports structural equality with another query.
	Equal(other Query) bool
	// Hash returns a hash consistent with Equal.
	Hash() uint64
}

// boostSuffix renders the "^boost" annotation, empty for the default boost.
func boostSuffix(boost float64) string {
	if boost == 1.0 {
		return ""
	}
	return "^" + strconv.FormatFloat(boost, 'g', -1, 64)
}

// hasher accumulates query fields into an xxhash digest. Strings are
// length-prefixed so field boundaries cannot alias.
type hasher struct {
	d *xxhash.Digest
}

func newHasher() hasher {
	return hasher{d: xxhash.New()}
}

func (h hasher) u64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.d.Write(buf[:])
}

func (h hasher) f64(v float64) {
	h.u64(math.Float64bits(v))
}

func (h hasher) boolean(v bool) {
	if v {
		h.u64(1)
	} else {
		h.u64(0)
	}
}

func (h hasher) str(s string) {
	h.u64(uint64(len(s)))
	_, _ = h.d.WriteString(s)
}

func (h hasher) sum() uint64 {
	return h.d.Sum64()
}
