// Package agora is an integration layer between real-time simulations and
// reinforcement-learning backends. It defines the Agent and Policy contracts,
// and the steppers that drive the observe → infer → act loop: a synchronous
// SimpleStepper and a double-buffered PipelinedStepper that hides inference
// latency behind simulation ticking.
//
// The typed observation/action system lives in the spaces subpackage, tensor
// conversion and neural policies in infer, and the training-side environment
// machinery in train.
package agora

// Stepper drives one iteration of the interaction loop across a fixed set of
// agents and a single policy.
type Stepper interface {
	// Init wires the stepper to its agents and policy. It fails on an
	// empty agent list or a nil policy.
	Init(agents []Agent, p Policy) error
	// Step runs one iteration. Implementations are driven from a single
	// goroutine and are not re-entrant.
	Step()
}
