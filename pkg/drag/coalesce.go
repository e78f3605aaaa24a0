package drag

// Coalescer keeps only the latest pushed value and hands it to run at most
// once per tick. It stands in for an animation-frame callback: a burst of
// pointer moves between two frames costs one recomputation.
//
// A Coalescer is not safe for concurrent use.
type Coalescer[T any] struct {
	run     func(T)
	pending T
	has     bool
}

// NewCoalescer returns a coalescer that calls run for each flushed value.
func NewCoalescer[T any](run func(T)) *Coalescer[T] {
	return &Coalescer[T]{run: run}
}

// Push replaces any pending value with v.
func (c *Coalescer[T]) Push(v T) {
	c.pending = v
	c.has = true
}

// Pending reports whether a value is waiting for the next tick.
func (c *Coalescer[T]) Pending() bool { return c.has }

// Tick runs the pending value, if any, and reports whether it did.
func (c *Coalescer[T]) Tick() bool {
	if !c.has {
		return false
	}
	v := c.pending
	c.Cancel()
	c.run(v)
	return true
}

// Flush runs the pending value immediately. It is Tick under another name
// for callers pre-empting the frame schedule.
func (c *Coalescer[T]) Flush() bool { return c.Tick() }

// Cancel drops the pending value without running it.
func (c *Coalescer[T]) Cancel() {
	var zero T
	c.pending = zero
	c.has = false
}
