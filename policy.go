package agora

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
)

// Policy is a decision function mapping observations to actions, potentially
// backed by a neural network. Rejecting overlapping Think calls is the
// policy's job; a stepper only polls IsInferenceBusy before dispatching and
// never queues.
type Policy interface {
	// Init prepares the policy for an agent's interaction definition.
	Init(InteractionDefinition) error
	// Think maps one observation to one action. Implementations backed by
	// a busy inference engine return an error immediately rather than
	// blocking a second caller.
	Think(obs spaces.Point) (spaces.Point, error)
	// BatchedThink maps a batch of observations to a batch of actions, in
	// order. May block the calling goroutine.
	BatchedThink(obs []spaces.Point) ([]spaces.Point, error)
	// IsInferenceBusy reports whether a Think call is currently in flight.
	IsInferenceBusy() bool
}

// ThinkSequentially is the default BatchedThink body for policies without
// native batching: one Think per observation, failing fast on the first error.
func ThinkSequentially(p Policy, obs []spaces.Point) ([]spaces.Point, error) {
	actions := make([]spaces.Point, 0, len(obs))
	for i, o := range obs {
		action, err := p.Think(o)
		if err != nil {
			return nil, errors.Wrapf(err, "think failed for observation %d", i)
		}
		actions = append(actions, action)
	}
	return actions, nil
}
