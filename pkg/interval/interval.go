package interval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultName labels intervals the caller did not name.
const DefaultName = "Not Specified"

var (
	// ErrInvalidSyntax reports a malformed interval string: wrong bracket
	// characters, a missing comma, a non-numeric endpoint value or a
	// degenerate point with an open end.
	ErrInvalidSyntax = errors.New("invalid interval syntax")

	// ErrInvalidInterval reports a construction or mutation that would
	// leave a degenerate point interval open on either end.
	ErrInvalidInterval = errors.New("invalid interval")
)

// Interval is a span of the one-dimensional number line bounded by two
// endpoints. The endpoints may be supplied in either order; Min and Max
// are derived on every access by comparing the two stored values, nothing
// about the ordering is persisted. An interval whose endpoints share a
// value is a degenerate point and must be closed on both ends; every
// constructor and setter enforces that and rejects a violating state
// without modifying the interval.
type Interval struct {
	a    Endpoint
	b    Endpoint
	name string
}

// New returns the interval spanning a and b, named DefaultName.
func New(a, b Endpoint) (*Interval, error) {
	return NewNamed(DefaultName, a, b)
}

// NewNamed returns the interval spanning a and b carrying a free-form
// name. The name is not part of interval identity; sets use it for
// removal by name only.
func NewNamed(name string, a, b Endpoint) (*Interval, error) {
	if err := validate(a, b); err != nil {
		return nil, err
	}
	return &Interval{a: a, b: b, name: name}, nil
}

func validate(a, b Endpoint) error {
	if a.value == b.value && !(a.closed && b.closed) {
		return fmt.Errorf("%w: degenerate point %s must be closed on both ends", ErrInvalidInterval, formatValue(a.value))
	}
	return nil
}

// Parse builds an interval from its canonical string form
// "<[|(><value>, <value><]|)>", e.g. "[1, 10)". A square bracket marks a
// closed end, a parenthesis an open end. Values are base-10 numbers or
// ±Infinity; whitespace around the comma is tolerated. The string never
// encodes which value is the smaller one, both orders parse.
func Parse(s string) (*Interval, error) {
	return ParseNamed(DefaultName, s)
}

// ParseNamed is Parse with an explicit name.
func ParseNamed(name, s string) (*Interval, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: %q is too short", ErrInvalidSyntax, s)
	}
	var aClosed, bClosed bool
	switch s[0] {
	case '[':
		aClosed = true
	case '(':
	default:
		return nil, fmt.Errorf("%w: %q must start with '[' or '('", ErrInvalidSyntax, s)
	}
	switch s[len(s)-1] {
	case ']':
		bClosed = true
	case ')':
	default:
		return nil, fmt.Errorf("%w: %q must end with ']' or ')'", ErrInvalidSyntax, s)
	}
	body := s[1 : len(s)-1]
	h := strings.IndexByte(body, ',')
	if h == -1 {
		return nil, fmt.Errorf("%w: no comma in %q", ErrInvalidSyntax, s)
	}
	av, err := parseValue(body[:h])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid value %q in %q", ErrInvalidSyntax, strings.TrimSpace(body[:h]), s)
	}
	bv, err := parseValue(body[h+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid value %q in %q", ErrInvalidSyntax, strings.TrimSpace(body[h+1:]), s)
	}
	ival, err := NewNamed(name, Endpoint{value: av, closed: aClosed}, Endpoint{value: bv, closed: bClosed})
	if err != nil {
		return nil, fmt.Errorf("%w: degenerate point in %q must be closed on both ends", ErrInvalidSyntax, s)
	}
	return ival, nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// ParseFloat also reads hexadecimal floats; the textual form carries
	// base-10 values and the Infinity words only.
	if strings.ContainsAny(s, "xX") {
		return 0, fmt.Errorf("%q is not a base-10 value", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("NaN is not an endpoint value")
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for
// initialization of well-known intervals and for tests.
func MustParse(s string) *Interval {
	ival, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ival
}

// IsValid reports whether s parses as an interval.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// A returns the first stored endpoint.
func (r *Interval) A() Endpoint { return r.a }

// B returns the second stored endpoint.
func (r *Interval) B() Endpoint { return r.b }

// Name returns the free-form label.
func (r *Interval) Name() string { return r.name }

// SetName replaces the free-form label.
func (r *Interval) SetName(name string) { r.name = name }

// Min returns the lower endpoint, derived by comparing the two stored
// values.
func (r *Interval) Min() Endpoint { return lowerOf(r.a, r.b) }

// Max returns the upper endpoint, derived by comparing the two stored
// values.
func (r *Interval) Max() Endpoint { return upperOf(r.a, r.b) }

// SetA replaces endpoint a. The change is rejected and the interval left
// unchanged when it would make a degenerate point open on either end.
func (r *Interval) SetA(e Endpoint) error {
	if err := validate(e, r.b); err != nil {
		return err
	}
	r.a = e
	return nil
}

// SetB replaces endpoint b, validating like SetA.
func (r *Interval) SetB(e Endpoint) error {
	if err := validate(r.a, e); err != nil {
		return err
	}
	r.b = e
	return nil
}

// SetMin replaces whichever of the two stored endpoints currently holds
// the minimum, validating against the other, unmodified endpoint.
func (r *Interval) SetMin(e Endpoint) error {
	if r.a.Equal(r.Min()) {
		return r.SetA(e)
	}
	return r.SetB(e)
}

// SetMax replaces whichever of the two stored endpoints currently holds
// the maximum, validating against the other, unmodified endpoint.
func (r *Interval) SetMax(e Endpoint) error {
	if r.a.Equal(r.Max()) {
		return r.SetA(e)
	}
	return r.SetB(e)
}

// Contains reports whether x lies inside the interval: below the maximum
// and above the minimum. An endpoint whose value equals a boundary counts
// only when both x and that boundary are closed, so the degenerate point
// [v, v] contains exactly the closed endpoint at v.
func (r *Interval) Contains(x Endpoint) bool {
	min, max := r.Min(), r.Max()
	belowMax := x.value < max.value || (x.value == max.value && x.closed && max.closed)
	aboveMin := x.value > min.value || (x.value == min.value && x.closed && min.closed)
	return belowMax && aboveMin
}

// ContainsValue reports whether the closed endpoint at v lies inside the
// interval.
func (r *Interval) ContainsValue(v float64) bool {
	return r.Contains(Closed(v))
}

// ContainsInterval reports whether both of o's endpoints lie inside r.
func (r *Interval) ContainsInterval(o *Interval) bool {
	return r.Contains(o.a) && r.Contains(o.b)
}

// Overlaps reports whether either interval contains an endpoint of the
// other. The check is symmetric. Two intervals sharing a boundary value
// overlap only when both facing ends are closed: [1, 5] overlaps [5, 10],
// [1, 5) does not overlap [5, 10).
func (r *Interval) Overlaps(o *Interval) bool {
	return r.Contains(o.a) || r.Contains(o.b) || o.Contains(r.a) || o.Contains(r.b)
}

// Equal reports whether the two intervals span the same range: minimum
// and maximum match in value and closure. Names are not compared.
func (r *Interval) Equal(o *Interval) bool {
	return r.Min().Equal(o.Min()) && r.Max().Equal(o.Max())
}

// Less orders intervals for sorting: ascending by minimum value, a closed
// minimum before an open one at the same value.
func (r *Interval) Less(o *Interval) bool {
	return r.Min().Compare(o.Min()) < 0
}

// Copy returns a deep copy of the interval.
func (r *Interval) Copy() *Interval {
	return &Interval{a: r.a, b: r.b, name: r.name}
}

// String returns the canonical form built from the derived minimum and
// maximum, e.g. "[1, 10)". Parse accepts everything String produces.
func (r *Interval) String() string {
	min, max := r.Min(), r.Max()
	lo, hi := "(", ")"
	if min.closed {
		lo = "["
	}
	if max.closed {
		hi = "]"
	}
	return fmt.Sprintf("%s%s, %s%s", lo, formatValue(min.value), formatValue(max.value), hi)
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
