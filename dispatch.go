package touchframe

import "sync"

// Dispatcher is a superseding mailbox from the input and smoothing contexts
// to the UI-owning context. Posting never blocks on the UI context; a newer
// post for the same container replaces the older one.
type Dispatcher struct {
	mu      sync.Mutex
	pending map[*Container]Affine
	order   []*Container
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{pending: make(map[*Container]Affine)}
}

// Post records m as the latest transform for c.
func (d *Dispatcher) Post(c *Container, m Affine) {
	d.mu.Lock()
	if _, ok := d.pending[c]; !ok {
		d.order = append(d.order, c)
	}
	d.pending[c] = m
	d.mu.Unlock()
}

// Forget drops any pending transform for c.
func (d *Dispatcher) Forget(c *Container) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pending[c]; !ok {
		return
	}
	delete(d.pending, c)
	for i, o := range d.order {
		if o == c {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of containers with a pending transform.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// Drain removes every pending transform and calls apply for each, in the
// order containers first posted, outside the dispatcher lock. It returns the
// number applied.
func (d *Dispatcher) Drain(apply func(c *Container, m Affine)) int {
	d.mu.Lock()
	if len(d.order) == 0 {
		d.mu.Unlock()
		return 0
	}
	order := d.order
	pending := d.pending
	d.order = nil
	d.pending = make(map[*Container]Affine, len(pending))
	d.mu.Unlock()

	for _, c := range order {
		apply(c, pending[c])
	}
	return len(order)
}
