package chromosome

import "time"

// Progress is delivered once per generation.
type Progress struct {
	RunID       string
	Generation  uint32 // starts at 1
	BestFitness uint32
	Snapshot    Snapshot
	Elapsed     time.Duration

	// Evaluated is the number of copies scored in this generation. It is
	// below Snapshot.Copies when the target was matched part way through.
	Evaluated uint32
}

// Done reports whether the target was reached.
func (p Progress) Done() bool {
	return p.BestFitness == 0
}

// Observer receives progress synchronously on the evolving goroutine, after
// the generation's state is committed. Observers may call the chromosome's
// accessors and setters; they should not block.
type Observer func(Progress)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn and returns a function that removes it. Observers
// are notified in subscription order.
func (c *Chromosome) Subscribe(fn Observer) (cancel func()) {
	c.mu.Lock()
	id := c.subscribe(fn)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.observers {
			if s.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// subscribe expects mu held or exclusive ownership.
func (c *Chromosome) subscribe(fn Observer) int {
	if fn == nil {
		return -1
	}
	c.nextSubID++
	c.observers = append(c.observers, subscription{id: c.nextSubID, fn: fn})
	return c.nextSubID
}

func notify(subs []subscription, p Progress) {
	for _, s := range subs {
		s.fn(p)
	}
}
