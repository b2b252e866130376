package emitter

import "errors"

// Chain registers listeners fluently and collects errors.
//
//	err := m.Chain().
//	    On("item.save", save).
//	    On("item.*", audit, emitter.WithPriority(emitter.Low)).
//	    Once("app.ready", warmup).
//	    Err()
type Chain struct {
	m    *Manager
	errs []error
}

// Chain starts a fluent registration on m.
func (m *Manager) Chain() *Chain {
	return &Chain{m: m}
}

// On calls Manager.On and records its error.
func (c *Chain) On(name string, l Listener, opts ...ListenOption) *Chain {
	return c.record(c.m.On(name, l, opts...))
}

// OnAll calls Manager.OnAll and records its error.
func (c *Chain) OnAll(names []string, l Listener, opts ...ListenOption) *Chain {
	return c.record(c.m.OnAll(names, l, opts...))
}

// Once calls Manager.Once and records its error.
func (c *Chain) Once(name string, l Listener, opts ...ListenOption) *Chain {
	return c.record(c.m.Once(name, l, opts...))
}

// Manager returns the underlying manager.
func (c *Chain) Manager() *Manager {
	return c.m
}

// Err returns all recorded errors joined, or nil.
func (c *Chain) Err() error {
	return errors.Join(c.errs...)
}

func (c *Chain) record(err error) *Chain {
	if err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}
