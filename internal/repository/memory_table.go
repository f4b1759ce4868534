package repository

// table holds one entity type: rows keyed by id plus the id counter. Because
// rows are never deleted, ids 1..next are dense and iterating them yields
// insertion order.
type table[T any] struct {
	rows  map[int64]T
	next  int64
	setID func(*T, int64)
	clone func(T) T
}

func newTable[T any](setID func(*T, int64), clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{rows: make(map[int64]T), setID: setID, clone: clone}
}

func (t *table[T]) get(id int64) *T {
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	cp := t.clone(row)
	return &cp
}

func (t *table[T]) insert(row T) *T {
	t.next++
	stored := t.clone(row)
	t.setID(&stored, t.next)
	t.rows[t.next] = stored
	out := t.clone(stored)
	return &out
}

func (t *table[T]) update(id int64, apply func(*T)) *T {
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	row = t.clone(row)
	apply(&row)
	t.setID(&row, id)
	t.rows[id] = row
	out := t.clone(row)
	return &out
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.rows))
	for id := int64(1); id <= t.next; id++ {
		if row, ok := t.rows[id]; ok {
			out = append(out, t.clone(row))
		}
	}
	return out
}

func (t *table[T]) find(match func(*T) bool) *T {
	for id := int64(1); id <= t.next; id++ {
		row, ok := t.rows[id]
		if !ok {
			continue
		}
		if match(&row) {
			cp := t.clone(row)
			return &cp
		}
	}
	return nil
}

func cloneStrings[S ~[]string](in S) S {
	if in == nil {
		return nil
	}
	out := make(S, len(in))
	copy(out, in)
	return out
}
