package sensors

import (
	"context"
	"sync"
)

type BoolCondition struct {
	*sync.Cond
	Val bool
}

func NewBoolCondition() *BoolCondition {
	return &BoolCondition{
		Cond: sync.NewCond(new(sync.Mutex)),
	}
}

func (cond *BoolCondition) Broadcast() {
	cond.L.Lock()
	defer cond.L.Unlock()
	cond.Val = true
	cond.Cond.Broadcast()
}

func (cond *BoolCondition) Unset() {
	cond.L.Lock()
	defer cond.L.Unlock()
	cond.Val = false
}

func (cond *BoolCondition) WaitAndUnset() {
	cond.L.Lock()
	defer cond.L.Unlock()
	for !cond.Val {
		cond.Cond.Wait()
	}
	cond.Val = false
}

// Trigger coalesces out-of-band update requests. Any number of Fire() calls made
// while the handler is busy result in exactly one more handler invocation.
type Trigger struct {
	Name string
	cond *BoolCondition
}

func NewTrigger(name string) *Trigger {
	return &Trigger{
		Name: name,
		cond: NewBoolCondition(),
	}
}

func (t *Trigger) String() string {
	return "trigger " + t.Name
}

func (t *Trigger) Fire() {
	t.cond.Broadcast()
}

// Run invokes handler once per (coalesced) Fire() until ctx is cancelled.
func (t *Trigger) Run(ctx context.Context, handler func(ctx context.Context)) {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			t.cond.Broadcast()
		case <-stopped:
		}
	}()
	for {
		t.cond.WaitAndUnset()
		if ctx.Err() != nil {
			return
		}
		handler(ctx)
	}
}
