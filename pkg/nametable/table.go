// Package nametable implements a generic claim/release registry keyed by
// name. Entries are claimed once, updated in place and walked in sorted
// name order.
package nametable

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

type Table[T1 any] interface {
	Get(name string) (T1, error)
	Claim(name string, d T1) error
	Release(name string) error
	Update(name string, d T1) error

	Iterate() *Iterator[T1]

	Count() int
	Has(name string) bool
	IsFree(name string) bool

	GetAll() map[string]T1
}

type ValidationFn func(name string) error

// NewTable returns a table seeded with initEntries. The validation
// function guards later claims; init entries bypass it. Errors from
// seeding accumulate and the partially filled table is still returned.
func NewTable[T1 any](initEntries map[string]T1, v ValidationFn) (Table[T1], error) {
	r := &table[T1]{
		m:          new(sync.RWMutex),
		table:      map[string]T1{},
		validateFn: v,
	}

	var errm error
	for name, d := range initEntries {
		if err := r.add(name, d, true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type table[T1 any] struct {
	m          *sync.RWMutex
	table      map[string]T1
	validateFn ValidationFn
}

func (r *table[T1]) validate(name string, init bool) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T1]) Get(name string) (T1, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var d T1

	if err := r.validate(name, false); err != nil {
		return d, err
	}

	d, ok := r.table[name]
	if !ok {
		return d, fmt.Errorf("no match found for: %v", name)
	}
	return d, nil
}

func (r *table[T1]) Claim(name string, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(name, d, false)
}

func (r *table[T1]) Release(name string) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(name)
}

func (r *table[T1]) Update(name string, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(name, d)
}

func (r *table[T1]) Iterate() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *table[T1]) iterate() *Iterator[T1] {
	keys := make([]string, 0, len(r.table))
	for key := range r.table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Iterator[T1]{current: -1, keys: keys, table: r.table}
}

func (r *table[T1]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table[T1]) Has(name string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table[name]
	return ok
}

func (r *table[T1]) IsFree(name string) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(name)
}

func (r *table[T1]) isFree(name string) bool {
	_, ok := r.table[name]
	return !ok
}

func (r *table[T1]) add(name string, d T1, init bool) error {
	if err := r.validate(name, init); err != nil {
		return err
	}
	if !r.isFree(name) {
		return fmt.Errorf("entry %s already exists", name)
	}
	r.table[name] = d
	return nil
}

func (r *table[T1]) update(name string, d T1) error {
	if err := r.validate(name, false); err != nil {
		return err
	}
	if r.isFree(name) {
		return fmt.Errorf("entry %s not found", name)
	}
	r.table[name] = d
	return nil
}

func (r *table[T1]) delete(name string) error {
	if err := r.validate(name, false); err != nil {
		return err
	}
	delete(r.table, name)
	return nil
}

func (r *table[T1]) GetAll() map[string]T1 {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[string]T1, len(r.table))

	iter := r.iterate()
	for iter.Next() {
		entries[iter.Name()] = iter.Value()
	}
	return entries
}
