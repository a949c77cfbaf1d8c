// Package bandtable manages named score bands: labeled, non-overlapping
// intervals claimed by name, with gap search over a query range and
// chaining of adjacent bands into a contiguous tier ladder.
package bandtable

import (
	"fmt"

	"github.com/henderiw/intervalset/pkg/interval"
	"github.com/henderiw/intervalset/pkg/nametable"
	"k8s.io/apimachinery/pkg/labels"
)

// Band is a named score range with label metadata.
type Band interface {
	Name() string
	Interval() *interval.Interval
	Labels() labels.Set
	String() string
}

type band struct {
	ival   *interval.Interval
	labels labels.Set
}

func (r band) Name() string                 { return r.ival.Name() }
func (r band) Interval() *interval.Interval { return r.ival }
func (r band) Labels() labels.Set           { return r.labels }
func (r band) String() string {
	return fmt.Sprintf("name: %s, interval: %s, labels: %s", r.ival.Name(), r.ival.String(), r.labels.String())
}

type BandTable interface {
	Get(name string) (Band, error)
	Claim(name string, ival *interval.Interval, d labels.Set) error
	ClaimString(name, s string, d labels.Set) error
	Release(name string) error
	Update(name string, d labels.Set) error

	Count() int
	Has(name string) bool

	IsFree(q *interval.Interval) bool
	FindFree(q *interval.Interval) []*interval.Interval

	Chain()

	GetAll() []Band
	GetByLabel(selector labels.Selector) []Band
}

func New() (BandTable, error) {
	t, err := nametable.NewTable[Band](nil, nil)
	if err != nil {
		return nil, err
	}
	return &bandTable{
		table: t,
		set:   interval.NewSet(interval.Options{MergeOnAdd: false}),
	}, nil
}

type bandTable struct {
	table nametable.Table[Band]
	// set mirrors the claimed bands without merging so every band keeps
	// its identity.
	set *interval.Set
}

func (r *bandTable) Get(name string) (Band, error) {
	return r.table.Get(name)
}

func (r *bandTable) Claim(name string, ival *interval.Interval, d labels.Set) error {
	if !r.table.IsFree(name) {
		return fmt.Errorf("band %s is already claimed", name)
	}
	for _, member := range r.set.GetAll() {
		if member.Overlaps(ival) {
			return fmt.Errorf("band %s overlaps existing band %s", ival, member.Name())
		}
	}
	if err := r.table.Claim(name, band{ival: ival, labels: d}); err != nil {
		return err
	}
	ival.SetName(name)
	r.set.Add(ival)
	return nil
}

func (r *bandTable) ClaimString(name, s string, d labels.Set) error {
	ival, err := interval.ParseNamed(name, s)
	if err != nil {
		return err
	}
	return r.Claim(name, ival, d)
}

func (r *bandTable) Release(name string) error {
	b, err := r.table.Get(name)
	if err != nil {
		return err
	}
	r.set.RemoveByName(b.Name())
	return r.table.Release(name)
}

func (r *bandTable) Update(name string, d labels.Set) error {
	b, err := r.table.Get(name)
	if err != nil {
		return err
	}
	return r.table.Update(name, band{ival: b.Interval(), labels: d})
}

func (r *bandTable) Count() int {
	return r.table.Count()
}

func (r *bandTable) Has(name string) bool {
	return r.table.Has(name)
}

// IsFree reports whether q overlaps no claimed band.
func (r *bandTable) IsFree(q *interval.Interval) bool {
	for _, member := range r.set.GetAll() {
		if member.Overlaps(q) {
			return false
		}
	}
	return true
}

// FindFree returns the unclaimed portions of q.
func (r *bandTable) FindFree(q *interval.Interval) []*interval.Interval {
	return r.set.GapsWithin(q)
}

// Chain rewrites the claimed bands to exactly abut each other so no
// score falls between two bands. The bands mutate in place; the table
// metadata stays attached to them.
func (r *bandTable) Chain() {
	r.set.Chain()
}

func (r *bandTable) GetAll() []Band {
	bands := make([]Band, 0, r.table.Count())

	iter := r.table.Iterate()
	for iter.Next() {
		bands = append(bands, iter.Value())
	}
	return bands
}

func (r *bandTable) GetByLabel(selector labels.Selector) []Band {
	bands := []Band{}

	iter := r.table.Iterate()
	for iter.Next() {
		if selector.Matches(iter.Value().Labels()) {
			bands = append(bands, iter.Value())
		}
	}
	return bands
}
