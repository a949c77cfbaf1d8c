// Package ipgap computes the free address ranges inside an IP range
// from the claims recorded against it. A claim covers a single
// address, a prefix or an address range and carries a nipam route
// payload.
package ipgap

import (
	"fmt"
	"math/big"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/intervalset/pkg/interval"
	"github.com/henderiw/intervalset/pkg/nametable"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPGapTable interface {
	Get(name string) (table.Route, error)
	Claim(prefix string, d table.Route) error
	ClaimAddr(addr string, d table.Route) error
	ClaimRange(rng string, d table.Route) error
	Release(name string) error
	Update(name string, d table.Route) error

	Count() int
	Has(name string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	FreeRanges() []netipx.IPRange

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

func New(from, to netip.Addr) (IPGapTable, error) {
	return NewFromRange(netipx.IPRangeFrom(from, to))
}

func NewFromRange(ipRange netipx.IPRange) (IPGapTable, error) {
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("ip range from %s to %s is invalid", ipRange.From(), ipRange.To())
	}
	t, err := nametable.NewTable[claim](nil, nil)
	if err != nil {
		return nil, err
	}
	return &ipGapTable{
		table:   t,
		covered: interval.NewSet(interval.Options{MergeOnAdd: false}),
		ipRange: ipRange,
	}, nil
}

// claim pairs the route payload with the index interval its range
// covers within the table.
type claim struct {
	route table.Route
	ival  *interval.Interval
}

type ipGapTable struct {
	table nametable.Table[claim]
	// covered holds one closed index interval per claim, named by the
	// claim key.
	covered *interval.Set
	ipRange netipx.IPRange
}

func (r *ipGapTable) Get(name string) (table.Route, error) {
	c, err := r.table.Get(name)
	if err != nil {
		return table.Route{}, err
	}
	return c.route, nil
}

func (r *ipGapTable) Claim(prefix string, d table.Route) error {
	pfx, err := netip.ParsePrefix(prefix)
	if err != nil {
		return fmt.Errorf("ip prefix %s is invalid", prefix)
	}
	pfx = pfx.Masked()
	return r.claim(pfx.String(), netipx.RangeOfPrefix(pfx), d)
}

func (r *ipGapTable) ClaimAddr(addr string, d table.Route) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.claim(claimIP.String(), netipx.IPRangeFrom(claimIP, claimIP), d)
}

func (r *ipGapTable) ClaimRange(rng string, d table.Route) error {
	ipr, err := netipx.ParseIPRange(rng)
	if err != nil {
		return fmt.Errorf("ip range %s is invalid", rng)
	}
	return r.claim(ipr.String(), ipr, d)
}

func (r *ipGapTable) claim(name string, ipr netipx.IPRange, d table.Route) error {
	if !r.ipRange.Contains(ipr.From()) || !r.ipRange.Contains(ipr.To()) {
		return fmt.Errorf("ip range %s, does not fit in the range from %s to %s", ipr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	if !r.table.IsFree(name) {
		return fmt.Errorf("claim failed range %s already claimed", name)
	}
	from := calculateIndex(ipr.From(), r.ipRange.From())
	to := calculateIndex(ipr.To(), r.ipRange.From())
	ival, err := interval.NewNamed(name, interval.Closed(float64(from)), interval.Closed(float64(to)))
	if err != nil {
		return err
	}
	for _, member := range r.covered.GetAll() {
		if member.Overlaps(ival) {
			return fmt.Errorf("claim failed range %s overlaps claimed range %s", name, member.Name())
		}
	}
	if err := r.table.Claim(name, claim{route: d, ival: ival}); err != nil {
		return err
	}
	r.covered.Add(ival)
	return nil
}

func (r *ipGapTable) Release(name string) error {
	if _, err := r.table.Get(name); err != nil {
		return err
	}
	r.covered.RemoveByName(name)
	return r.table.Release(name)
}

func (r *ipGapTable) Update(name string, d table.Route) error {
	c, err := r.table.Get(name)
	if err != nil {
		return fmt.Errorf("update failed range %s not claimed", name)
	}
	return r.table.Update(name, claim{route: d, ival: c.ival})
}

func (r *ipGapTable) Count() int {
	return r.table.Count()
}

func (r *ipGapTable) Has(name string) bool {
	return r.table.Has(name)
}

func (r *ipGapTable) IsFree(addr string) bool {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	id := calculateIndex(claimIP, r.ipRange.From())
	return len(r.covered.GetContainingValue(float64(id))) == 0
}

func (r *ipGapTable) FindFree() (netip.Addr, error) {
	var addr netip.Addr

	free := r.FreeRanges()
	if len(free) == 0 {
		return addr, fmt.Errorf("no free addresses in the range from %s to %s", r.ipRange.From().String(), r.ipRange.To().String())
	}
	return free[0].From(), nil
}

// FreeRanges returns the unclaimed address ranges, lowest first.
func (r *ipGapTable) FreeRanges() []netipx.IPRange {
	last := calculateIndex(r.ipRange.To(), r.ipRange.From())
	span, err := interval.New(interval.Closed(0), interval.Closed(float64(last)))
	if err != nil {
		return nil
	}
	ranges := make([]netipx.IPRange, 0, r.covered.Count()+1)
	for _, gap := range r.covered.GapsWithin(span) {
		from := lowestIndex(gap)
		to := highestIndex(gap)
		// a gap strictly between two neighboring indexes covers nothing
		if from > to {
			continue
		}
		ranges = append(ranges, netipx.IPRangeFrom(
			calculateIPFromIndex(r.ipRange.From(), from),
			calculateIPFromIndex(r.ipRange.From(), to),
		))
	}
	return ranges
}

func (r *ipGapTable) GetAll() table.Routes {
	var routes table.Routes

	iter := r.table.Iterate()
	for iter.Next() {
		routes = append(routes, iter.Value().route)
	}
	return routes
}

func (r *ipGapTable) GetByLabel(selector labels.Selector) table.Routes {
	var routes table.Routes

	iter := r.table.Iterate()

	for iter.Next() {
		route := iter.Value().route
		if selector.Matches(route.Labels()) {
			routes = append(routes, route)
		}
	}

	return routes
}

func (r *ipGapTable) validateIP(addr string) (netip.Addr, error) {
	// Parse IP address
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimIP, nil
}

// lowestIndex returns the smallest index a gap covers; an open end
// excludes its own index.
func lowestIndex(gap *interval.Interval) int64 {
	min := gap.Min()
	id := int64(min.Value())
	if !min.IsClosed() {
		id++
	}
	return id
}

func highestIndex(gap *interval.Interval) int64 {
	max := gap.Max()
	id := int64(max.Value())
	if !max.IsClosed() {
		id--
	}
	return id
}

func calculateIndex(ip, start netip.Addr) int64 {
	// Calculate the index in the range
	return new(big.Int).Sub(ipToInt(ip), ipToInt(start)).Int64()
}

func ipToInt(ip netip.Addr) *big.Int {
	// Convert IP address to big integer
	bytes := ip.As16()
	ipInt := new(big.Int)
	ipInt.SetBytes(bytes[:])
	return ipInt
}

func calculateIPFromIndex(startIP netip.Addr, id int64) netip.Addr {
	// Calculate the IP address corresponding to the index
	ipInt := new(big.Int).Add(ipToInt(startIP), big.NewInt(id))
	// Convert the big.Int representing the IP address to a byte slice with length 16
	ipBytes := ipInt.Bytes()

	if len(ipBytes) < 16 {
		// If the byte slice is shorter than 16 bytes, pad it with leading zeros
		paddedBytes := make([]byte, 16-len(ipBytes))
		ipBytes = append(paddedBytes, ipBytes...)
	}

	// Convert the byte slice to a [16]byte
	var ip16 [16]byte
	copy(ip16[:], ipBytes)

	if startIP.Is4() {
		return netip.AddrFrom4(netip.AddrFrom16(ip16).As4())
	}
	return netip.AddrFrom16(ip16)
}
