package agora

import (
	"log"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
)

// pipelineStages is the depth of the frame ring. Two slots: one receiving
// fresh observations while the other carries an in-flight or completed think.
const pipelineStages = 2

// pipelineFrame is one slot of the ring. All fields are owned by the driving
// goroutine; the async think only ever touches a frame through a continuation
// pumped back onto that goroutine.
type pipelineFrame struct {
	observations  []spaces.Point
	actions       []spaces.Point
	actionsReady  bool
	thinkInFlight bool
	dispatchID    uint64
}

// PipelinedStepper overlaps environment ticking with off-thread policy
// inference. Observations gathered at tick N produce actions that are applied
// at tick N+1 or later; the driving goroutine never blocks on inference.
//
// Step must only ever be called from one goroutine. When inference runs
// longer than a full ring cycle, the stale observations are silently
// superseded; there is no backpressure signal.
type PipelinedStepper struct {
	agents []Agent
	policy Policy

	frames [pipelineStages]pipelineFrame
	tick   uint64

	dispatchSeq  uint64 // atomic
	shuttingDown uint32 // atomic
	cont         chan func()
}

var _ Stepper = &PipelinedStepper{}

func NewPipelinedStepper() *PipelinedStepper {
	return &PipelinedStepper{cont: make(chan func(), 2*pipelineStages)}
}

func (s *PipelinedStepper) Init(agents []Agent, p Policy) error {
	if len(agents) == 0 {
		return errors.New("pipelined stepper: no agents")
	}
	if p == nil {
		return errors.New("pipelined stepper: nil policy")
	}
	if s.cont == nil {
		s.cont = make(chan func(), 2*pipelineStages)
	}
	s.agents = agents
	s.policy = p
	return nil
}

// Step runs one driving-thread tick: apply the previous frame's actions if
// ready, collect fresh observations, and dispatch inference unless the policy
// is busy. A busy skip leaves the tick counter unchanged, so the same logical
// tick re-runs until its dispatch goes out.
func (s *PipelinedStepper) Step() {
	s.pump()

	if s.policy == nil || len(s.agents) == 0 {
		log.Printf("pipelined stepper: missing policy or agents")
		return
	}

	current := s.tick % pipelineStages
	if s.tick > 0 {
		prev := &s.frames[(s.tick-1)%pipelineStages]
		if prev.actionsReady {
			if len(prev.actions) != len(s.agents) {
				log.Printf("pipelined stepper: action count mismatch (%d actions for %d agents)", len(prev.actions), len(s.agents))
			} else {
				for i, a := range s.agents {
					a.Act(prev.actions[i])
				}
			}
			prev.actions = nil
			prev.actionsReady = false
		}
	}

	frame := &s.frames[current]
	frame.observations = frame.observations[:0]
	frame.actions = nil
	frame.actionsReady = false
	frame.thinkInFlight = true

	for _, a := range s.agents {
		frame.observations = append(frame.observations, a.Observe())
	}

	if s.policy.IsInferenceBusy() {
		return
	}
	s.dispatchThink(current)

	s.tick++
}

// dispatchThink hands a deep copy of the current observations to a background
// goroutine. The result comes back as a continuation that runs on the driving
// goroutine at the start of a later Step.
func (s *PipelinedStepper) dispatchThink(idx uint64) {
	frame := &s.frames[idx]

	obs := make([]spaces.Point, len(frame.observations))
	for i, p := range frame.observations {
		obs[i] = p.Clone()
	}

	id := atomic.AddUint64(&s.dispatchSeq, 1)
	frame.dispatchID = id
	policy := s.policy

	go func() {
		actions, err := policy.BatchedThink(obs)
		if atomic.LoadUint32(&s.shuttingDown) == 1 {
			return
		}
		s.schedule(func() {
			if atomic.LoadUint32(&s.shuttingDown) == 1 {
				return
			}
			frame := &s.frames[idx]
			// A newer dispatch owns the slot now; this result is stale.
			if frame.dispatchID != id {
				return
			}
			if err != nil {
				log.Printf("pipelined stepper: think failed (dispatch %d): %+v", id, err)
				frame.thinkInFlight = false
				return
			}
			frame.actions = actions
			frame.actionsReady = true
			frame.thinkInFlight = false
		})
	}()
}

func (s *PipelinedStepper) schedule(f func()) {
	select {
	case s.cont <- f:
	default:
		// Nobody is pumping anymore; abandon the result.
	}
}

// pump runs queued continuations on the driving goroutine.
func (s *PipelinedStepper) pump() {
	for {
		select {
		case f := <-s.cont:
			f()
		default:
			return
		}
	}
}

// Close marks the stepper as shutting down. In-flight inference is not
// interrupted; its result is discarded before touching stepper state.
func (s *PipelinedStepper) Close() error {
	atomic.StoreUint32(&s.shuttingDown, 1)
	return nil
}
