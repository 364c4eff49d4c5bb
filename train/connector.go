// Package train is the trainer-facing side of the integration: environments
// that expose reset/step semantics, the connector that drives them from an
// external trainer's decisions, and the wire serialization glue. The
// simulation owns the clock; the trainer only ever answers the connector's
// submissions with the next decision.
package train

import (
	"bytes"
	"fmt"
	"log"

	"github.com/pkg/errors"

	"github.com/gorgonia/agora/wire"
)

// ConnectorStatus is the connector's communication state.
type ConnectorStatus uint8

const (
	NotStarted ConnectorStatus = iota
	Running
	Closed
	Errored
)

func (s ConnectorStatus) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Closed:
		return "Closed"
	case Errored:
		return "Errored"
	}
	return fmt.Sprintf("ConnectorStatus(%d)", uint8(s))
}

// AutoResetMode selects what the connector does with an environment whose
// agents have all completed.
type AutoResetMode uint8

const (
	// AutoResetDisabled never resets; a completed environment sits idle
	// until the trainer sends an explicit reset.
	AutoResetDisabled AutoResetMode = iota
	// AutoResetSameStep resets immediately after the completing step and
	// submits the terminal state together with the fresh initial state.
	AutoResetSameStep
	// AutoResetNextStep leaves the terminal state visible for one step
	// and resets when the next step arrives.
	AutoResetNextStep
)

func (m AutoResetMode) String() string {
	switch m {
	case AutoResetDisabled:
		return "disabled"
	case AutoResetSameStep:
		return "same_step"
	case AutoResetNextStep:
		return "next_step"
	}
	return fmt.Sprintf("AutoResetMode(%d)", uint8(m))
}

// ParseAutoResetMode parses the wire form produced by String.
func ParseAutoResetMode(s string) (AutoResetMode, error) {
	switch s {
	case "disabled", "":
		return AutoResetDisabled, nil
	case "same_step":
		return AutoResetSameStep, nil
	case "next_step":
		return AutoResetNextStep, nil
	}
	return AutoResetDisabled, errors.Errorf("train: unknown auto-reset mode %q", s)
}

// Transport is the boundary to an external trainer. Implementations carry
// the wire messages however they like; the connector never sees bytes.
type Transport interface {
	// Init publishes the training definition for trainers to fetch.
	Init(*wire.TrainingDefinitionMsg) error
	// CheckForStart polls for a trainer's start request. Once one has
	// arrived it returns the requested auto-reset mode and true.
	CheckForStart() (AutoResetMode, bool)
	// Resolve waits for the trainer's next decision. A nil update with a
	// nil error means there was nothing to resolve this tick; an error
	// means the connection is no longer usable.
	Resolve() (*StateUpdate, error)
	// Submit answers the trainer's pending decision with the resulting
	// state.
	Submit(*wire.StateMsg) error
}

// Connector drives a set of environments from an external trainer's
// decisions: one Step resolves one decision, applies it, and submits the
// resulting state back. It keeps a per-session trace readable through Log.
type Connector struct {
	transport Transport
	envs      []Environment
	mode      AutoResetMode

	State      *TrainingState
	Initial    *InitialState
	Definition *TrainingDefinition

	status ConnectorStatus
	steps  uint64

	// Lifecycle hooks, fired on the corresponding status change.
	OnStarted func()
	OnClosed  func()
	OnError   func()

	buf    bytes.Buffer
	logger *log.Logger
}

func NewConnector(transport Transport, envs ...Environment) *Connector {
	c := &Connector{
		transport: transport,
		envs:      envs,
	}
	c.logger = log.New(&c.buf, "", log.Ltime)
	return c
}

// Init calls every environment's Init, sizes the training state and
// definition, and publishes the definition through the transport.
func (c *Connector) Init() error {
	if c.transport == nil {
		return errors.New("train: connector has no transport")
	}
	if len(c.envs) == 0 {
		return errors.New("train: connector has no environments")
	}

	c.status = NotStarted
	c.State = &TrainingState{EnvironmentStates: make([]*EnvironmentState, len(c.envs))}
	c.Initial = NewInitialState()
	c.Definition = &TrainingDefinition{EnvironmentDefinitions: make([]*EnvironmentDefinition, len(c.envs))}

	for i, env := range c.envs {
		c.Definition.EnvironmentDefinitions[i] = &EnvironmentDefinition{AgentDefinitions: env.Init()}
		c.State.EnvironmentStates[i] = NewEnvironmentState()
	}

	if err := c.transport.Init(DefinitionToWire(c.Definition)); err != nil {
		return errors.Wrap(err, "publishing training definition")
	}
	return nil
}

func (c *Connector) Status() ConnectorStatus { return c.status }

func (c *Connector) IsRunning() bool { return c.status == Running }

// IsNotStarted also counts a closed connector: a new trainer may reconnect
// and start a fresh session.
func (c *Connector) IsNotStarted() bool {
	return c.status == NotStarted || c.status == Closed
}

// Mode returns the auto-reset mode requested by the trainer's start request.
func (c *Connector) Mode() AutoResetMode { return c.mode }

// Steps counts the step decisions handled so far, across sessions. Callers
// sampling State can use it to tell a fresh step result from an idle one.
func (c *Connector) Steps() uint64 { return c.steps }

// Log returns the connector's session trace.
func (c *Connector) Log() string { return c.buf.String() }

func (c *Connector) setStatus(s ConnectorStatus) {
	switch s {
	case Running:
		if c.OnStarted != nil {
			c.OnStarted()
		}
	case Closed:
		if c.OnClosed != nil {
			c.OnClosed()
		}
	case Errored:
		if c.OnError != nil {
			c.OnError()
		}
	}
	c.status = s
}

// Step runs one connector iteration: pick up a start request if the session
// has not begun, then resolve and apply the trainer's next decision. It is
// driven from the simulation's tick and never panics on trainer input;
// failures degrade to a log line and a status change.
func (c *Connector) Step() {
	if c.IsNotStarted() {
		if mode, ok := c.transport.CheckForStart(); ok {
			c.mode = mode
			c.logger.Printf("trainer connected, auto-reset %v", mode)
			c.setStatus(Running)
		}
	}
	if !c.IsRunning() {
		return
	}

	update, err := c.transport.Resolve()
	switch {
	case err != nil:
		c.logger.Printf("resolve failed: %+v", err)
		c.setStatus(Errored)
	case update == nil:
		c.logger.Printf("no state update resolved, skipping this step")
	case update.IsStep():
		c.handleStep(update.Step)
	case update.IsReset():
		c.handleReset(update.Reset)
	case update.IsClosed():
		c.logger.Printf("close received")
		c.setStatus(Closed)
	case update.IsError():
		c.logger.Printf("error received")
		c.setStatus(Errored)
	}
}

// handleStep applies one action set per environment and submits the result.
// Auto-reset handling follows the mode the trainer asked for at start.
func (c *Connector) handleStep(step *TrainingStep) {
	c.Initial.Clear()
	c.steps++

	n := len(step.EnvSteps)
	if n > len(c.envs) {
		c.logger.Printf("step carries %d environments, only %d exist; extras ignored", n, len(c.envs))
		n = len(c.envs)
	}

	switch c.mode {
	case AutoResetDisabled:
		for i := 0; i < n; i++ {
			envState := c.State.EnvironmentStates[i]
			// Completed environments sit idle until an explicit reset.
			if !envState.IsActive() {
				continue
			}
			envState.AgentStates = c.envs[i].Step(step.EnvSteps[i].Actions)
			if AllAgentsCompleted(envState) {
				envState.MarkCompleted()
			}
		}
		c.submit(&wire.StateMsg{TrainingState: StateToWire(c.State)})

	case AutoResetSameStep:
		for i := 0; i < n; i++ {
			envState := c.State.EnvironmentStates[i]
			envState.AgentStates = c.envs[i].Step(step.EnvSteps[i].Actions)
			if AllAgentsCompleted(envState) {
				c.Initial.EnvironmentStates[i] = &InitialEnvironmentState{AgentStates: c.envs[i].Reset()}
			}
		}
		// The terminal step and the fresh initial observations travel in
		// the same submission.
		c.submit(&wire.StateMsg{
			TrainingState: StateToWire(c.State),
			InitialState:  InitialStateToWire(c.Initial),
		})

	case AutoResetNextStep:
		for i := 0; i < n; i++ {
			envState := c.State.EnvironmentStates[i]
			if envState.IsCompleted() {
				// Completed on the previous step; this step's action is
				// spent on the reset instead.
				initial := c.envs[i].Reset()
				envState.MarkActive()
				if envState.AgentStates == nil {
					envState.AgentStates = make(map[string]*AgentState, len(initial))
				}
				for name, init := range initial {
					envState.AgentStates[name] = &AgentState{
						InitialAgentState: InitialAgentState{
							Observations: init.Observations,
							Info:         init.Info,
						},
					}
				}
			} else {
				envState.AgentStates = c.envs[i].Step(step.EnvSteps[i].Actions)
				// Checking after the step keeps the very first step of a
				// fresh environment from being swallowed.
				if AllAgentsCompleted(envState) {
					envState.MarkCompleted()
				}
			}
		}
		c.submit(&wire.StateMsg{TrainingState: StateToWire(c.State)})
	}
}

// handleReset applies any seeds and options first, then resets every
// environment and submits the initial states.
func (c *Connector) handleReset(reset *TrainingReset) {
	c.Initial.Clear()

	for id, envReset := range reset.Environments {
		if id < 0 || id >= len(c.envs) {
			c.logger.Printf("reset names environment %d, only %d exist", id, len(c.envs))
			continue
		}
		if envReset.HasSeed {
			c.envs[id].Seed(envReset.Seed)
			c.logger.Printf("environment %d seeded", id)
		}
		if len(envReset.Options) > 0 {
			c.envs[id].SetOptions(envReset.Options)
			c.logger.Printf("environment %d got %d options", id, len(envReset.Options))
		}
	}

	for id, env := range c.envs {
		c.Initial.EnvironmentStates[id] = &InitialEnvironmentState{AgentStates: env.Reset()}
		envState := c.State.EnvironmentStates[id]
		envState.AgentStates = make(map[string]*AgentState)
		envState.MarkActive()
	}
	c.submit(&wire.StateMsg{InitialState: InitialStateToWire(c.Initial)})
}

func (c *Connector) submit(msg *wire.StateMsg) {
	if err := c.transport.Submit(msg); err != nil {
		c.logger.Printf("state submission failed: %+v", err)
	}
}
