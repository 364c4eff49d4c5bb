package agora

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/agora/spaces"
)

func TestPipelinedStepperInit(t *testing.T) {
	s := NewPipelinedStepper()
	if err := s.Init(nil, newScriptedPolicy()); err == nil {
		t.Error("expected error for empty agents")
	}
	if err := s.Init([]Agent{newStubAgent()}, nil); err == nil {
		t.Error("expected error for nil policy")
	}
	if err := s.Init([]Agent{newStubAgent()}, newScriptedPolicy()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPipelinedStepperUninitialized(t *testing.T) {
	s := NewPipelinedStepper()
	s.Step() // logs and returns
}

// Observations gathered at logical tick N are applied at logical tick N+1.
// The busy skip keeps the tick counter parked until the dispatch goes out, so
// a slow policy stretches wall-clock steps but never the logical latency.
func TestPipelinedStepperLatency(t *testing.T) {
	a := newStubAgent()
	p := newScriptedPolicy()
	p.release = make(chan struct{})
	p.setMakeActions(func(n int) []spaces.Point {
		actions := make([]spaces.Point, n)
		for i := range actions {
			actions[i] = &spaces.MultiDiscretePoint{Values: []int{p.callCount()}}
		}
		return actions
	})

	s := NewPipelinedStepper()
	if err := s.Init([]Agent{a}, p); err != nil {
		t.Fatal(err)
	}

	// Tick 0: observe and dispatch. Nothing to apply yet.
	s.Step()
	<-p.started
	if len(a.applied) != 0 {
		t.Fatalf("tick 0 must not apply actions, got %d", len(a.applied))
	}
	if s.tick != 1 {
		t.Fatalf("expected tick 1 after dispatch, got %d", s.tick)
	}

	// Inference still in flight: the step is a busy skip. No apply, no
	// dispatch, and the logical tick does not advance.
	s.Step()
	if len(a.applied) != 0 {
		t.Fatalf("busy skip must not apply actions, got %d", len(a.applied))
	}
	if s.tick != 1 {
		t.Fatalf("busy skip must not advance the tick, got %d", s.tick)
	}
	if p.callCount() != 1 {
		t.Fatalf("busy skip must not dispatch, got %d thinks", p.callCount())
	}

	close(p.release)
	assert.Eventually(t, func() bool { return len(s.cont) > 0 }, time.Second, time.Millisecond)

	// Logical tick 1: the tick-0 actions land.
	s.Step()
	if len(a.applied) != 1 {
		t.Fatalf("expected tick-0 actions at tick 1, got %d applies", len(a.applied))
	}
	want := &spaces.MultiDiscretePoint{Values: []int{1}}
	if !a.applied[0].Eq(want) {
		t.Errorf("expected actions from the first think, got %v", a.applied[0])
	}
	if got := p.batches(); len(got[0]) != 1 || !got[0][0].Eq(a.obs) {
		t.Errorf("first think saw %v, want the tick-0 observation", got[0])
	}
}

// A policy that never answers must not wedge the driving goroutine. Steps
// keep running as busy skips and Close abandons the in-flight result.
func TestPipelinedStepperStuckPolicy(t *testing.T) {
	a := newStubAgent()
	p := newScriptedPolicy()
	p.release = make(chan struct{})

	s := NewPipelinedStepper()
	if err := s.Init([]Agent{a}, p); err != nil {
		t.Fatal(err)
	}

	s.Step()
	<-p.started
	for i := 0; i < 10; i++ {
		s.Step()
	}
	if p.callCount() != 1 {
		t.Fatalf("stuck policy must only be dispatched once, got %d", p.callCount())
	}
	if s.tick != 1 {
		t.Fatalf("tick must stay parked on a stuck policy, got %d", s.tick)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	close(p.release)
	assert.Never(t, func() bool { return len(a.applied) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestPipelinedStepperThinkFailure(t *testing.T) {
	a := newStubAgent()
	p := newScriptedPolicy()
	p.setFailNext(true)

	s := NewPipelinedStepper()
	if err := s.Init([]Agent{a}, p); err != nil {
		t.Fatal(err)
	}

	s.Step()
	<-p.started
	assert.Eventually(t, func() bool { return len(s.cont) > 0 }, time.Second, time.Millisecond)

	// The failed frame is cleared and the next tick dispatches again.
	p.setFailNext(false)
	s.Step()
	if len(a.applied) != 0 {
		t.Fatalf("failed think must not apply actions, got %d", len(a.applied))
	}
	<-p.started
	assert.Eventually(t, func() bool { return len(s.cont) > 0 }, time.Second, time.Millisecond)

	s.Step()
	if len(a.applied) != 1 {
		t.Fatalf("expected recovery after failed think, got %d applies", len(a.applied))
	}
}

func TestPipelinedStepperDiscardsMismatchedBatch(t *testing.T) {
	a := newStubAgent()
	p := newScriptedPolicy()
	p.setMakeActions(func(n int) []spaces.Point {
		return make([]spaces.Point, n+1) // wrong count
	})

	s := NewPipelinedStepper()
	if err := s.Init([]Agent{a}, p); err != nil {
		t.Fatal(err)
	}

	s.Step()
	<-p.started
	assert.Eventually(t, func() bool { return len(s.cont) > 0 }, time.Second, time.Millisecond)

	p.setMakeActions(nil)
	s.Step()
	if len(a.applied) != 0 {
		t.Fatalf("mismatched batch must not be applied, got %d", len(a.applied))
	}
	<-p.started
	assert.Eventually(t, func() bool { return len(s.cont) > 0 }, time.Second, time.Millisecond)

	s.Step()
	if len(a.applied) != 1 {
		t.Fatalf("expected 1 action after recovery, got %d", len(a.applied))
	}
}
