package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jgoncalves802/visualplan/internal/engine"
	"github.com/jgoncalves802/visualplan/internal/models"
)

func startAt(day int) time.Time {
	return time.Date(2026, time.January, day, 8, 0, 0, 0, time.UTC)
}

func TestSubmit_PublishesResult(t *testing.T) {
	c := New()
	in := engine.Input{
		Activities:   []models.Activity{{ID: "a", Kind: models.KindTask, DurationUnits: 1}},
		ProjectStart: startAt(5),
		Unit:         models.UnitDay,
	}

	res, err := c.Submit(in).Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if res == nil || res.Activities["a"] == nil {
		t.Fatal("expected a published schedule for activity a")
	}
	if c.Current() != res {
		t.Errorf("Current() should return the published snapshot")
	}
}

func TestSubmit_CoalescesQueuedRequests(t *testing.T) {
	release := make(chan struct{})
	started := make(chan time.Time, 8)
	c := &Controller{
		compute: func(in engine.Input) (*models.ScheduleResult, error) {
			started <- in.ProjectStart
			<-release
			return &models.ScheduleResult{ProjectStart: in.ProjectStart}, nil
		},
	}

	t1 := c.Submit(engine.Input{ProjectStart: startAt(5)})
	<-started // first computation is in flight

	// These arrive while blocked; only the newest should be computed.
	t2 := c.Submit(engine.Input{ProjectStart: startAt(6)})
	t3 := c.Submit(engine.Input{ProjectStart: startAt(7)})
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r1, err := t1.Wait(ctx)
	if err != nil {
		t.Fatalf("t1 Wait failed: %v", err)
	}
	if !r1.ProjectStart.Equal(startAt(5)) {
		t.Errorf("t1 resolved with start %v, want %v", r1.ProjectStart, startAt(5))
	}

	r2, err := t2.Wait(ctx)
	if err != nil {
		t.Fatalf("t2 Wait failed: %v", err)
	}
	r3, err := t3.Wait(ctx)
	if err != nil {
		t.Fatalf("t3 Wait failed: %v", err)
	}
	if !r2.ProjectStart.Equal(startAt(7)) || !r3.ProjectStart.Equal(startAt(7)) {
		t.Errorf("coalesced tickets resolved with %v and %v, want both %v",
			r2.ProjectStart, r3.ProjectStart, startAt(7))
	}

	// The superseded input must never have been computed.
	computed := []time.Time{<-started}
	select {
	case s := <-started:
		computed = append(computed, s)
	default:
	}
	if len(computed) != 1 || !computed[0].Equal(startAt(7)) {
		t.Errorf("computed starts after first = %v, want only %v", computed, startAt(7))
	}
}

func TestSubmit_RejectionKeepsPreviousResult(t *testing.T) {
	structural := errors.New("dependency cycle detected")
	fail := false
	c := &Controller{
		compute: func(in engine.Input) (*models.ScheduleResult, error) {
			if fail {
				return nil, structural
			}
			return &models.ScheduleResult{ProjectStart: in.ProjectStart}, nil
		},
	}
	ctx := context.Background()

	good, err := c.Submit(engine.Input{ProjectStart: startAt(5)}).Wait(ctx)
	if err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	fail = true
	res, err := c.Submit(engine.Input{ProjectStart: startAt(6)}).Wait(ctx)
	if !errors.Is(err, structural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	if res != good {
		t.Errorf("rejected submission should resolve with the previous result")
	}
	if c.Current() != good {
		t.Errorf("Current() changed after a rejected recomputation")
	}
}

func TestWait_RespectsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	c := &Controller{
		compute: func(in engine.Input) (*models.ScheduleResult, error) {
			<-block
			return &models.ScheduleResult{}, nil
		},
	}
	defer close(block)

	ticket := c.Submit(engine.Input{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ticket.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
