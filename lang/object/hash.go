package object

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// HashKey identifies a hashable value within a [Hash]. Keys of different
// types never collide because the type is part of the key.
type HashKey struct {
	Type  Type
	Value uint64
}

// Hashable is implemented by values usable as hash keys.
type Hashable interface {
	Object
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

func (b *Boolean) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}

	return HashKey{Type: b.Type(), Value: v}
}

// HashKey digests the string with XXH3. Distinct strings sharing a digest
// would alias; the 64-bit space makes this negligible in practice.
func (s *String) HashKey() HashKey {
	return HashKey{Type: s.Type(), Value: xxh3.HashString(s.Value)}
}

// HashPair is a single entry of a [Hash], retaining the original key object.
type HashPair struct {
	Key   Object
	Value Object
}

// Hash maps hashable keys to values. Iteration follows insertion order.
type Hash struct {
	Pairs map[HashKey]HashPair
	order []HashKey
}

// NewHash returns an empty hash with room for n entries.
func NewHash(n int) *Hash {
	return &Hash{
		Pairs: make(map[HashKey]HashPair, n),
		order: make([]HashKey, 0, n),
	}
}

func (h *Hash) Type() Type { return HASH_OBJ }

func (h *Hash) Inspect() string {
	pairs := make([]string, 0, len(h.order))
	for _, p := range h.All() {
		pairs = append(pairs, p.Key.Inspect()+": "+p.Value.Inspect())
	}

	return "{" + strings.Join(pairs, ", ") + "}"
}

// Set stores value under key. Setting an existing key replaces its value and
// keeps its original position.
func (h *Hash) Set(key Hashable, value Object) {
	if h.Pairs == nil {
		h.Pairs = make(map[HashKey]HashPair)
	}

	hk := key.HashKey()
	if _, ok := h.Pairs[hk]; !ok {
		h.order = append(h.order, hk)
	}

	h.Pairs[hk] = HashPair{Key: key, Value: value}
}

// Get returns the value stored under key.
func (h *Hash) Get(key Hashable) (Object, bool) {
	p, ok := h.Pairs[key.HashKey()]

	return p.Value, ok
}

// Len returns the number of entries.
func (h *Hash) Len() int { return len(h.Pairs) }

// All returns the entries in insertion order.
func (h *Hash) All() []HashPair {
	pairs := make([]HashPair, 0, len(h.order))
	for _, k := range h.order {
		if p, ok := h.Pairs[k]; ok {
			pairs = append(pairs, p)
		}
	}

	return pairs
}
