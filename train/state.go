package train

import (
	"fmt"

	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/spaces"
)

// InitialAgentState is what an agent looks like right after a reset: an
// observation and optional diagnostic info, no reward and no flags yet.
type InitialAgentState struct {
	Observations spaces.Point
	Info         map[string]string
}

// AgentState is one agent's slice of a step result.
type AgentState struct {
	InitialAgentState
	Reward     float32
	Terminated bool
	Truncated  bool
}

// Completed reports whether the agent's episode is over, by natural
// termination or truncation.
func (s *AgentState) Completed() bool { return s.Terminated || s.Truncated }

// EnvironmentStatus tracks whether an environment is mid-episode or waiting
// on a reset.
type EnvironmentStatus uint8

const (
	EnvironmentActive EnvironmentStatus = iota
	EnvironmentCompleted
)

func (s EnvironmentStatus) String() string {
	switch s {
	case EnvironmentActive:
		return "Active"
	case EnvironmentCompleted:
		return "Completed"
	}
	return fmt.Sprintf("EnvironmentStatus(%d)", uint8(s))
}

// EnvironmentState is the per-environment slot inside a TrainingState.
type EnvironmentState struct {
	AgentStates map[string]*AgentState
	Status      EnvironmentStatus
}

func NewEnvironmentState() *EnvironmentState {
	return &EnvironmentState{AgentStates: make(map[string]*AgentState)}
}

func (s *EnvironmentState) MarkActive()       { s.Status = EnvironmentActive }
func (s *EnvironmentState) MarkCompleted()    { s.Status = EnvironmentCompleted }
func (s *EnvironmentState) IsActive() bool    { return s.Status == EnvironmentActive }
func (s *EnvironmentState) IsCompleted() bool { return s.Status == EnvironmentCompleted }

// AllAgentsCompleted reports whether every agent in the environment has
// terminated or been truncated. An environment with no agents counts as
// completed.
func AllAgentsCompleted(env *EnvironmentState) bool {
	for _, agent := range env.AgentStates {
		if !agent.Completed() {
			return false
		}
	}
	return true
}

// TrainingState is the dense step result across all environments, indexed by
// environment id.
type TrainingState struct {
	EnvironmentStates []*EnvironmentState
}

// InitialEnvironmentState carries the post-reset agent states of one
// environment.
type InitialEnvironmentState struct {
	AgentStates map[string]*InitialAgentState
}

// InitialState is sparse: only environments that actually reset appear,
// keyed by environment id.
type InitialState struct {
	EnvironmentStates map[int]*InitialEnvironmentState
}

func NewInitialState() *InitialState {
	return &InitialState{EnvironmentStates: make(map[int]*InitialEnvironmentState)}
}

// Clear drops all entries, keeping the map allocated.
func (s *InitialState) Clear() {
	for k := range s.EnvironmentStates {
		delete(s.EnvironmentStates, k)
	}
}

// EnvironmentDefinition names each trainable agent in an environment and
// gives its interaction definition.
type EnvironmentDefinition struct {
	AgentDefinitions map[string]agora.InteractionDefinition
}

// TrainingDefinition is the complete shape of a training session, one
// definition per environment in id order.
type TrainingDefinition struct {
	EnvironmentDefinitions []*EnvironmentDefinition
}
