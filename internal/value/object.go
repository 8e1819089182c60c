package value

import "sort"

// Object is an insertion-ordered string-keyed map, grounded on the teacher
// project's internal/jsonvalue.Value object representation (objEntries +
// objKeys) rather than a bare Go map, since key order is observable
// (serialization) even though it does not affect equality.
type Object struct {
	keys   []string
	index  map[string]int
	values []Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// NewObjectFromPairs builds an Object preserving the order of pairs; later
// duplicate keys overwrite earlier ones in place, matching jq's object
// constructor semantics.
func NewObjectFromPairs(pairs []KV) *Object {
	o := NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Value)
	}
	return o
}

// KV is one key/value pair, used to build an Object in order.
type KV struct {
	Key   string
	Value Value
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The returned slice must not be
// mutated.
func (o *Object) Keys() []string { return o.keys }

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Null, false
	}
	i, ok := o.index[key]
	if !ok {
		return Null, false
	}
	return o.values[i], true
}

// Set inserts or overwrites key, preserving the position of an existing key
// and appending new keys at the end.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.values[i] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

// Delete removes key if present, shifting later entries down to preserve
// order of the remainder.
func (o *Object) Delete(key string) {
	i, ok := o.index[key]
	if !ok {
		return
	}
	o.keys = append(o.keys[:i], o.keys[i+1:]...)
	o.values = append(o.values[:i], o.values[i+1:]...)
	delete(o.index, key)
	for k, idx := range o.index {
		if idx > i {
			o.index[k] = idx - 1
		}
	}
}

// Clone makes a shallow copy: keys and the value slice are copied, but
// container-valued entries still share their own structure (values are
// themselves immutable).
func (o *Object) Clone() *Object {
	n := &Object{
		keys:   append([]string(nil), o.keys...),
		values: append([]Value(nil), o.values...),
		index:  make(map[string]int, len(o.index)),
	}
	for k, i := range o.index {
		n.index[k] = i
	}
	return n
}

// SortedKeys reimplements the object with lexicographically sorted keys
// (descending via reverse=true); the `keys` builtin uses it.
func (o *Object) SortedKeys(reverse bool) *Object {
	n := o.Clone()
	sort.Slice(n.keys, func(i, j int) bool {
		if reverse {
			return n.keys[i] > n.keys[j]
		}
		return n.keys[i] < n.keys[j]
	})
	rebuilt := NewObject()
	for _, k := range n.keys {
		v, _ := o.Get(k)
		rebuilt.Set(k, v)
	}
	return rebuilt
}

// Each calls fn for every key/value pair in insertion order.
func (o *Object) Each(fn func(key string, v Value)) {
	for i, k := range o.keys {
		fn(k, o.values[i])
	}
}
