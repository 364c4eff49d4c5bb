package train

import (
	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/spaces"
)

// Environment is a trainable simulation driven by the connector. One
// environment hosts one or more named agents; all maps below are keyed by
// agent name.
type Environment interface {
	// Init declares the environment's agents and their interaction
	// definitions. It is called once, before any Reset or Step.
	Init() map[string]agora.InteractionDefinition
	// Seed reseeds the environment's randomness for the next Reset.
	Seed(int64)
	// SetOptions applies trainer-supplied configuration before the next
	// Reset. Unknown keys are the environment's to ignore or log.
	SetOptions(map[string]string)
	// Reset starts a fresh episode and returns the initial agent states.
	Reset() map[string]*InitialAgentState
	// Step applies one action per agent and returns the resulting states.
	Step(actions map[string]spaces.Point) map[string]*AgentState
}
