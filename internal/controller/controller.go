// Package controller serializes schedule recomputation. Mutations may
// arrive concurrently from any number of callers; at most one computation
// runs at a time, queued requests are coalesced so only the newest inputs
// are computed, and results are published atomically as complete snapshots.
package controller

import (
	"context"
	"sync"

	"github.com/jgoncalves802/visualplan/internal/engine"
	"github.com/jgoncalves802/visualplan/internal/logger"
	"github.com/jgoncalves802/visualplan/internal/models"
)

// Ticket is the future handed to a caller for a submitted recomputation.
// It resolves once a published result incorporates the caller's inputs or
// newer ones.
type Ticket struct {
	done   chan struct{}
	result *models.ScheduleResult
	err    error
}

// Wait blocks until the ticket resolves or ctx is cancelled. On a rejected
// recomputation it returns the previously published result together with
// the structural error.
func (t *Ticket) Wait(ctx context.Context) (*models.ScheduleResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type pending struct {
	input   engine.Input
	tickets []*Ticket
}

// Controller owns the one current ScheduleResult and replaces it atomically
// after each successful computation. No component ever mutates a published
// result in place.
type Controller struct {
	compute func(engine.Input) (*models.ScheduleResult, error)

	mu      sync.Mutex
	current *models.ScheduleResult
	queued  *pending
	running bool
}

// New creates a Controller computing with the engine.
func New() *Controller {
	return &Controller{compute: engine.Compute}
}

// Submit queues a recomputation with the given inputs and returns a ticket
// for its publication. Submissions arriving while a computation is in
// flight are coalesced: the newest inputs win, and every waiting ticket
// resolves with that newest publication.
func (c *Controller) Submit(in engine.Input) *Ticket {
	t := &Ticket{done: make(chan struct{})}

	c.mu.Lock()
	if c.queued == nil {
		c.queued = &pending{input: in}
	} else {
		c.queued.input = in
	}
	c.queued.tickets = append(c.queued.tickets, t)
	if !c.running {
		c.running = true
		go c.run()
	}
	c.mu.Unlock()

	return t
}

// run drains the queue, computing one coalesced request at a time, until no
// request remains.
func (c *Controller) run() {
	for {
		c.mu.Lock()
		p := c.queued
		c.queued = nil
		if p == nil {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		res, err := c.compute(p.input)

		c.mu.Lock()
		if err == nil {
			c.current = res
		} else {
			// Rejected: the previous valid result stays published unchanged.
			res = c.current
			logger.Warn("recomputation rejected", "error", err)
		}
		c.mu.Unlock()

		for _, t := range p.tickets {
			t.result = res
			t.err = err
			close(t.done)
		}
	}
}

// Current returns the most recently published result, or nil before the
// first successful computation. The returned snapshot is immutable.
func (c *Controller) Current() *models.ScheduleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
