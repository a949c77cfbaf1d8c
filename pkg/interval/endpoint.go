// Package interval implements sets of one-dimensional intervals with mixed
// open/closed boundaries: insertion with configurable merging, containment
// and overlap queries, gap synthesis against a query range, in-place gap
// creation and chaining of adjacent members.
package interval

// Endpoint is a single interval boundary: a value paired with a
// closed/open flag. A closed endpoint includes its value, an open endpoint
// excludes it. The value may be ±Inf. Endpoints are immutable; changing an
// interval boundary replaces the endpoint rather than mutating it.
type Endpoint struct {
	value  float64
	closed bool
}

func NewEndpoint(value float64, closed bool) Endpoint {
	return Endpoint{
		value:  value,
		closed: closed,
	}
}

// Closed returns a closed endpoint at v.
func Closed(v float64) Endpoint { return Endpoint{value: v, closed: true} }

// Open returns an open endpoint at v.
func Open(v float64) Endpoint { return Endpoint{value: v, closed: false} }

// Value returns the boundary value.
func (r Endpoint) Value() float64 { return r.value }

// IsClosed reports whether the boundary value belongs to the interval.
func (r Endpoint) IsClosed() bool { return r.closed }

// Equal reports whether value and closure both match.
func (r Endpoint) Equal(o Endpoint) bool {
	return r.value == o.value && r.closed == o.closed
}

// Inverted returns the endpoint with its closure flipped. Gap synthesis
// uses it to turn a member boundary into the facing gap boundary.
func (r Endpoint) Inverted() Endpoint {
	return Endpoint{value: r.value, closed: !r.closed}
}

// Compare orders endpoints: ascending by value, a closed endpoint before
// an open one at the same value. It returns -1 when r sorts before o, +1
// when after, 0 on equality.
func (r Endpoint) Compare(o Endpoint) int {
	switch {
	case r.value < o.value:
		return -1
	case r.value > o.value:
		return 1
	case r.closed == o.closed:
		return 0
	case r.closed:
		return -1
	default:
		return 1
	}
}

// lowerOf returns the numerically smaller of two endpoints; at equal
// values the closed one wins.
func lowerOf(e1, e2 Endpoint) Endpoint {
	switch {
	case e1.value < e2.value:
		return e1
	case e2.value < e1.value:
		return e2
	case e1.closed:
		return e1
	default:
		return e2
	}
}

// upperOf returns the numerically larger of two endpoints; at equal
// values the closed one wins.
func upperOf(e1, e2 Endpoint) Endpoint {
	switch {
	case e1.value > e2.value:
		return e1
	case e2.value > e1.value:
		return e2
	case e1.closed:
		return e1
	default:
		return e2
	}
}
