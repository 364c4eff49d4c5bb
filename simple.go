package agora

import (
	"log"

	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
)

// SimpleStepper runs the interaction loop synchronously: collect every
// observation, block on BatchedThink, apply every action. The driving
// goroutine stalls for the full duration of inference.
type SimpleStepper struct {
	agents []Agent
	policy Policy
}

var _ Stepper = &SimpleStepper{}

func NewSimpleStepper() *SimpleStepper { return &SimpleStepper{} }

func (s *SimpleStepper) Init(agents []Agent, p Policy) error {
	if len(agents) == 0 {
		return errors.New("simple stepper: no agents")
	}
	if p == nil {
		return errors.New("simple stepper: nil policy")
	}
	s.agents = agents
	s.policy = p
	return nil
}

func (s *SimpleStepper) Step() {
	if s.policy == nil || len(s.agents) == 0 {
		log.Printf("simple stepper: missing policy or agents")
		return
	}

	observations := make([]spaces.Point, 0, len(s.agents))
	for _, a := range s.agents {
		observations = append(observations, a.Observe())
	}

	actions, err := s.policy.BatchedThink(observations)
	if err != nil {
		log.Printf("simple stepper: think failed: %+v", err)
		return
	}
	// A mismatched batch is discarded whole. No partial application.
	if len(actions) != len(s.agents) {
		log.Printf("simple stepper: action count mismatch (%d actions for %d agents)", len(actions), len(s.agents))
		return
	}
	for i, a := range s.agents {
		a.Act(actions[i])
	}
}
