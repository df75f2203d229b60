package journal

import "sync/atomic"

// counter hands out strictly increasing seq numbers. Entries are ordered by
// seq, never by wall-clock time, so two entries written in the same
// millisecond still sort in call order.
type counter struct {
	seq atomic.Int64
}

// newCounterAt creates a counter whose next value is start+1.
func newCounterAt(start int64) *counter {
	c := &counter{}
	c.seq.Store(start)
	return c
}

func (c *counter) next() int64 {
	return c.seq.Add(1)
}
