package wire

// Trainer-facing state and command messages. Training-level messages carry a
// list indexed by environment id on the dense side (state submissions) and a
// sparse map on the command side (resets name only the environments they
// touch). Agent-level maps are keyed by agent name throughout.

type InitialAgentStateMsg struct {
	Observations *PointMsg         `json:"observations,omitempty"`
	Info         map[string]string `json:"info,omitempty"`
}

type AgentStateMsg struct {
	Observations *PointMsg         `json:"observations,omitempty"`
	Reward       float32           `json:"reward"`
	Terminated   bool              `json:"terminated"`
	Truncated    bool              `json:"truncated"`
	Info         map[string]string `json:"info,omitempty"`
}

type EnvironmentStateMsg struct {
	AgentStates map[string]*AgentStateMsg `json:"agent_states,omitempty"`
}

type TrainingStateMsg struct {
	EnvironmentStates []*EnvironmentStateMsg `json:"environment_states"`
}

type InitialEnvironmentStateMsg struct {
	AgentStates map[string]*InitialAgentStateMsg `json:"agent_states,omitempty"`
}

type InitialStateMsg struct {
	EnvironmentStates map[int]*InitialEnvironmentStateMsg `json:"environment_states,omitempty"`
}

// StateMsg is the payload the connector submits after handling a command: the
// per-step training state, plus fresh initial observations whenever a reset
// (explicit or auto) produced them.
type StateMsg struct {
	TrainingState *TrainingStateMsg `json:"training_state,omitempty"`
	InitialState  *InitialStateMsg  `json:"initial_state,omitempty"`
}

type EnvStepMsg struct {
	Actions map[string]*PointMsg `json:"actions,omitempty"`
}

type TrainingStepMsg struct {
	EnvSteps []*EnvStepMsg `json:"environments"`
}

type EnvResetMsg struct {
	Seed    int64             `json:"seed,omitempty"`
	HasSeed bool              `json:"has_seed,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

type TrainingResetMsg struct {
	Environments map[int]*EnvResetMsg `json:"environments,omitempty"`
}

// Connector status values carried on StateUpdateMsg.
const (
	StatusGood   = "good"
	StatusClosed = "closed"
	StatusError  = "error"
)

// StateUpdateMsg is one trainer command: a step, a reset, or a bare status
// change. Status other than good overrides whichever arm is set.
type StateUpdateMsg struct {
	Step   *TrainingStepMsg  `json:"step,omitempty"`
	Reset  *TrainingResetMsg `json:"reset,omitempty"`
	Status string            `json:"status,omitempty"`
}

type InteractionDefinitionMsg struct {
	ObsSpace    *SpaceMsg `json:"obs_space,omitempty"`
	ActionSpace *SpaceMsg `json:"action_space,omitempty"`
}

type EnvironmentDefinitionMsg struct {
	AgentDefinitions map[string]*InteractionDefinitionMsg `json:"agent_definitions,omitempty"`
}

type TrainingDefinitionMsg struct {
	EnvironmentDefinitions []*EnvironmentDefinitionMsg `json:"environment_definitions"`
}
