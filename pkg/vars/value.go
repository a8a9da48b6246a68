package vars

// Cell is a typed value paired with a monotonically increasing version.
// Version 0 means the cell was never written since construction.
//
// Cell is the storage primitive behind [Shared] variables and response
// variables; it has no scheduling behavior of its own.
type Cell[T any] struct {
	data    T
	version uint64
}

// NewCell creates a cell holding initial at version 0.
func NewCell[T any](initial T) Cell[T] {
	return Cell[T]{data: initial}
}

// Read returns the current value.
func (c *Cell[T]) Read() T {
	return c.data
}

// With calls f with the current value without copying it out first.
func (c *Cell[T]) With(f func(T)) {
	f(c.data)
}

// Version returns the current version.
func (c *Cell[T]) Version() uint64 {
	return c.version
}

// Write replaces the value, increments the version and returns it.
func (c *Cell[T]) Write(value T) uint64 {
	c.data = value
	c.version++
	return c.version
}

// Modify mutates the value in place. If f reports no observable change the
// version is not incremented. If f panics the cell keeps its previous value
// and version.
func (c *Cell[T]) Modify(f func(*T) bool) (uint64, bool) {
	// Work on a copy so a panicking closure cannot leave the cell torn.
	tmp := c.data
	if !f(&tmp) {
		return c.version, false
	}
	c.data = tmp
	c.version++
	return c.version, true
}

// FNV-1a famous constants, folding each input version into the combined one.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

// combineVersions hashes input versions into a derived var's version. The
// result changes whenever any input version changes.
func combineVersions(versions ...uint64) uint64 {
	h := fnvOffset
	for _, v := range versions {
		for range 8 {
			h ^= v & 0xff
			h *= fnvPrime
			v >>= 8
		}
	}
	return h
}
