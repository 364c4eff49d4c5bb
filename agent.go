package agora

import (
	"fmt"

	"github.com/gorgonia/agora/spaces"
)

// AgentStatus is the lifecycle state of an agent.
type AgentStatus uint8

const (
	AgentRunning AgentStatus = iota
	AgentStopped
	AgentError
)

func (s AgentStatus) String() string {
	switch s {
	case AgentRunning:
		return "Running"
	case AgentStopped:
		return "Stopped"
	case AgentError:
		return "Error"
	}
	return fmt.Sprintf("AgentStatus(%d)", uint8(s))
}

// InteractionDefinition describes the shape of an agent's interaction: what it
// observes and what it can do. It is established once per agent and is
// immutable afterwards.
type InteractionDefinition struct {
	ObsSpace    spaces.Space
	ActionSpace spaces.Space
}

// Agent is a simulated entity driven by a stepper. Observe and Act run on the
// driving goroutine and must not block significantly.
type Agent interface {
	// Observe returns the agent's current observation. The point must
	// conform to the agent's declared observation space.
	Observe() spaces.Point
	// Act applies an action to the agent. Rejecting an out-of-contract
	// action is the agent's responsibility, not the stepper's.
	Act(spaces.Point)
	// Define returns the agent's interaction definition.
	Define() InteractionDefinition
	Status() AgentStatus
	SetStatus(AgentStatus)
}
