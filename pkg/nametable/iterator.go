package nametable

// Iterator walks table entries in sorted name order.
type Iterator[T1 any] struct {
	current int
	keys    []string
	table   map[string]T1
}

func (r *Iterator[T1]) Value() T1 {
	return r.table[r.keys[r.current]]
}

func (r *Iterator[T1]) Name() string {
	return r.keys[r.current]
}

func (r *Iterator[T1]) Next() bool {
	r.current++
	return r.current < len(r.keys)
}
