// Package local holds state private to a single UI node. The owner is the
// only reader, so a Cell has no subscribers: the owner re-reads it on its own
// render pass.
package local

type Cell[T any] struct {
	value T
}

func New[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

func (c *Cell[T]) Get() T {
	return c.value
}

func (c *Cell[T]) Set(v T) {
	c.value = v
}

func (c *Cell[T]) Update(fn func(T) T) {
	c.value = fn(c.value)
}
