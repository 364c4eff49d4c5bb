package train

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	tassert "github.com/stretchr/testify/assert"

	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/spaces"
	"github.com/gorgonia/agora/wire"
)

// scriptedEnv hosts one agent whose episode terminates after completeAt
// steps (never, when zero). Observations carry the step count so tests can
// tell fresh states from stale ones.
type scriptedEnv struct {
	agent      string
	completeAt int

	resets  int
	steps   int
	seeds   []int64
	options map[string]string
}

func (e *scriptedEnv) Init() map[string]agora.InteractionDefinition {
	return map[string]agora.InteractionDefinition{
		e.agent: {
			ObsSpace:    spaces.NewBox(-100, 100, 1),
			ActionSpace: spaces.NewDiscrete(2),
		},
	}
}

func (e *scriptedEnv) Seed(s int64) { e.seeds = append(e.seeds, s) }

func (e *scriptedEnv) SetOptions(o map[string]string) { e.options = o }

func (e *scriptedEnv) Reset() map[string]*InitialAgentState {
	e.resets++
	e.steps = 0
	return map[string]*InitialAgentState{
		e.agent: {
			Observations: &spaces.BoxPoint{Values: []float32{0}},
			Info:         map[string]string{"reset": strconv.Itoa(e.resets)},
		},
	}
}

func (e *scriptedEnv) Step(actions map[string]spaces.Point) map[string]*AgentState {
	e.steps++
	st := &AgentState{
		InitialAgentState: InitialAgentState{
			Observations: &spaces.BoxPoint{Values: []float32{float32(e.steps)}},
		},
		Reward: 1,
	}
	if e.completeAt > 0 && e.steps >= e.completeAt {
		st.Terminated = true
	}
	return map[string]*AgentState{e.agent: st}
}

// fakeTransport hands out queued updates one per Resolve and records every
// submission. It is driven from the test goroutine only.
type fakeTransport struct {
	def        *wire.TrainingDefinitionMsg
	initErr    error
	startMode  AutoResetMode
	startReady bool
	queue      []*StateUpdate
	resolveErr error

	submissions []*wire.StateMsg
	submitErr   error
}

func (t *fakeTransport) Init(def *wire.TrainingDefinitionMsg) error {
	t.def = def
	return t.initErr
}

func (t *fakeTransport) CheckForStart() (AutoResetMode, bool) {
	if !t.startReady {
		return AutoResetDisabled, false
	}
	t.startReady = false
	return t.startMode, true
}

func (t *fakeTransport) Resolve() (*StateUpdate, error) {
	if t.resolveErr != nil {
		return nil, t.resolveErr
	}
	if len(t.queue) == 0 {
		return nil, nil
	}
	u := t.queue[0]
	t.queue = t.queue[1:]
	return u, nil
}

func (t *fakeTransport) Submit(msg *wire.StateMsg) error {
	t.submissions = append(t.submissions, msg)
	return t.submitErr
}

func stepUpdate(actions ...map[string]spaces.Point) *StateUpdate {
	step := &TrainingStep{EnvSteps: make([]*EnvStep, len(actions))}
	for i, a := range actions {
		step.EnvSteps[i] = &EnvStep{Actions: a}
	}
	return &StateUpdate{Kind: UpdateStep, Step: step}
}

func resetUpdate(envs map[int]*EnvReset) *StateUpdate {
	return &StateUpdate{Kind: UpdateReset, Reset: &TrainingReset{Environments: envs}}
}

func act() map[string]spaces.Point {
	return map[string]spaces.Point{"walker": &spaces.DiscretePoint{Value: 1}}
}

// started begins a session in the given mode and runs the reset that a
// trainer would send first.
func started(t *testing.T, mode AutoResetMode, envs ...Environment) (*Connector, *fakeTransport) {
	tr := &fakeTransport{startMode: mode, startReady: true}
	c := NewConnector(tr, envs...)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	tr.queue = append(tr.queue, resetUpdate(nil))
	c.Step()
	if !c.IsRunning() {
		t.Fatalf("connector did not start: %v", c.Status())
	}
	return c, tr
}

func TestConnectorInit(t *testing.T) {
	assert := assert.New(t)

	c := NewConnector(nil, &scriptedEnv{agent: "walker"})
	assert.Error(c.Init())

	c = NewConnector(&fakeTransport{})
	assert.Error(c.Init())

	tr := &fakeTransport{}
	env := &scriptedEnv{agent: "walker"}
	c = NewConnector(tr, env)
	assert.NoError(c.Init())
	assert.Equal(NotStarted, c.Status())
	assert.Len(c.State.EnvironmentStates, 1)
	assert.Len(c.Definition.EnvironmentDefinitions, 1)
	assert.Contains(c.Definition.EnvironmentDefinitions[0].AgentDefinitions, "walker")
	if assert.NotNil(tr.def) {
		assert.Len(tr.def.EnvironmentDefinitions, 1)
	}
}

func TestConnectorStartAdoption(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker"}
	tr := &fakeTransport{startMode: AutoResetSameStep}
	c := NewConnector(tr, env)
	assert.NoError(c.Init())

	var startedCalls int
	c.OnStarted = func() { startedCalls++ }

	// No start request yet: nothing resolves, nothing changes.
	tr.queue = append(tr.queue, stepUpdate(act()))
	c.Step()
	assert.Equal(NotStarted, c.Status())
	assert.Len(tr.queue, 1)

	// The start request and the first decision land in the same tick.
	tr.startReady = true
	c.Step()
	assert.Equal(Running, c.Status())
	assert.Equal(AutoResetSameStep, c.Mode())
	assert.Equal(1, startedCalls)
	assert.Len(tr.submissions, 1)
	assert.Contains(c.Log(), "trainer connected")
}

func TestConnectorSkipsEmptyResolve(t *testing.T) {
	assert := assert.New(t)
	c, tr := started(t, AutoResetDisabled, &scriptedEnv{agent: "walker"})

	before := len(tr.submissions)
	c.Step()
	assert.Equal(Running, c.Status())
	assert.Len(tr.submissions, before)
	assert.Contains(c.Log(), "no state update resolved")
}

func TestConnectorCloseAndRestart(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker"}
	c, tr := started(t, AutoResetDisabled, env)

	var closedCalls int
	c.OnClosed = func() { closedCalls++ }

	tr.queue = append(tr.queue, &StateUpdate{Status: StatusClosed})
	c.Step()
	assert.Equal(Closed, c.Status())
	assert.Equal(1, closedCalls)
	assert.True(c.IsNotStarted())

	// A closed connector accepts a fresh session.
	tr.startReady = true
	tr.startMode = AutoResetNextStep
	c.Step()
	assert.Equal(Running, c.Status())
	assert.Equal(AutoResetNextStep, c.Mode())
}

func TestConnectorResolveError(t *testing.T) {
	assert := assert.New(t)
	c, tr := started(t, AutoResetDisabled, &scriptedEnv{agent: "walker"})

	var errorCalls int
	c.OnError = func() { errorCalls++ }

	tr.resolveErr = tassert.AnError
	c.Step()
	assert.Equal(Errored, c.Status())
	assert.Equal(1, errorCalls)
	assert.Contains(c.Log(), "resolve failed")
}

func TestConnectorErrorUpdate(t *testing.T) {
	assert := assert.New(t)
	c, tr := started(t, AutoResetDisabled, &scriptedEnv{agent: "walker"})

	tr.queue = append(tr.queue, &StateUpdate{Kind: UpdateStep, Status: StatusErrored})
	c.Step()
	assert.Equal(Errored, c.Status())
}

func TestConnectorDisabledMode(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker", completeAt: 2}
	c, tr := started(t, AutoResetDisabled, env)

	// The session-opening reset submitted initial states only.
	assert.Nil(tr.submissions[0].TrainingState)
	if assert.NotNil(tr.submissions[0].InitialState) {
		assert.Contains(tr.submissions[0].InitialState.EnvironmentStates, 0)
	}

	tr.queue = append(tr.queue, stepUpdate(act()), stepUpdate(act()), stepUpdate(act()))
	c.Step()
	c.Step()
	c.Step()

	assert.Len(tr.submissions, 4)

	first := tr.submissions[1].TrainingState.EnvironmentStates[0].AgentStates["walker"]
	assert.False(first.Terminated)
	assert.Nil(tr.submissions[1].InitialState)

	terminal := tr.submissions[2].TrainingState.EnvironmentStates[0].AgentStates["walker"]
	assert.True(terminal.Terminated)
	assert.True(c.State.EnvironmentStates[0].IsCompleted())

	// The third step found the environment completed and left it alone,
	// though the decision itself still counts as handled.
	assert.Equal(2, env.steps)
	assert.Equal(1, env.resets)
	assert.Equal(uint64(3), c.Steps())
}

func TestConnectorSameStepMode(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker", completeAt: 2}
	c, tr := started(t, AutoResetSameStep, env)

	tr.queue = append(tr.queue, stepUpdate(act()), stepUpdate(act()))
	c.Step()

	// Mid-episode the initial state still travels, just empty.
	mid := tr.submissions[1]
	assert.NotNil(mid.TrainingState)
	if assert.NotNil(mid.InitialState) {
		assert.Empty(mid.InitialState.EnvironmentStates)
	}

	c.Step()
	assert.Equal(2, env.resets)

	// Terminal state and the fresh episode's first observation, together.
	last := tr.submissions[2]
	assert.True(last.TrainingState.EnvironmentStates[0].AgentStates["walker"].Terminated)
	if assert.Contains(last.InitialState.EnvironmentStates, 0) {
		init := last.InitialState.EnvironmentStates[0].AgentStates["walker"]
		assert.Equal("2", init.Info["reset"])
	}
	assert.True(c.State.EnvironmentStates[0].IsActive())
}

func TestConnectorNextStepMode(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker", completeAt: 2}
	c, tr := started(t, AutoResetNextStep, env)

	tr.queue = append(tr.queue, stepUpdate(act()), stepUpdate(act()), stepUpdate(act()))
	c.Step()
	c.Step()

	terminal := tr.submissions[2].TrainingState.EnvironmentStates[0].AgentStates["walker"]
	assert.True(terminal.Terminated)
	assert.True(c.State.EnvironmentStates[0].IsCompleted())
	assert.Equal(1, env.resets)

	// The next step is spent on the reset: no env step, reward zeroed,
	// flags cleared, fresh observation.
	c.Step()
	assert.Equal(2, env.resets)
	assert.Equal(0, env.steps)
	assert.True(c.State.EnvironmentStates[0].IsActive())

	fresh := tr.submissions[3].TrainingState.EnvironmentStates[0].AgentStates["walker"]
	assert.False(fresh.Terminated)
	assert.Equal(float32(0), fresh.Reward)
	assert.Equal("2", fresh.Info["reset"])
	assert.Nil(tr.submissions[3].InitialState)
}

func TestConnectorHandleReset(t *testing.T) {
	assert := assert.New(t)
	env0 := &scriptedEnv{agent: "walker"}
	env1 := &scriptedEnv{agent: "walker"}
	c, tr := started(t, AutoResetDisabled, env0, env1)

	tr.queue = append(tr.queue, resetUpdate(map[int]*EnvReset{
		0: {Seed: 7, HasSeed: true},
		1: {Options: map[string]string{"bound": "300"}},
		5: {Seed: 1, HasSeed: true},
	}))
	c.Step()

	assert.Equal([]int64{7}, env0.seeds)
	assert.Empty(env0.options)
	assert.Empty(env1.seeds)
	assert.Equal("300", env1.options["bound"])
	assert.Contains(c.Log(), "environment 0 seeded")
	assert.Contains(c.Log(), "reset names environment 5")

	// Everything resets, named or not.
	assert.Equal(2, env0.resets)
	assert.Equal(2, env1.resets)
	for _, envState := range c.State.EnvironmentStates {
		assert.True(envState.IsActive())
		assert.Empty(envState.AgentStates)
	}

	last := tr.submissions[len(tr.submissions)-1]
	assert.Nil(last.TrainingState)
	assert.Len(last.InitialState.EnvironmentStates, 2)
}

func TestConnectorClampsExtraEnvSteps(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker"}
	c, tr := started(t, AutoResetDisabled, env)

	tr.queue = append(tr.queue, stepUpdate(act(), act()))
	c.Step()

	assert.Equal(1, env.steps)
	assert.Contains(c.Log(), "extras ignored")
	assert.Equal(Running, c.Status())
}

func TestConnectorSubmitFailure(t *testing.T) {
	assert := assert.New(t)
	env := &scriptedEnv{agent: "walker"}
	c, tr := started(t, AutoResetDisabled, env)

	tr.submitErr = tassert.AnError
	tr.queue = append(tr.queue, stepUpdate(act()))
	c.Step()

	// Submission failures degrade to a log line.
	assert.Equal(Running, c.Status())
	assert.Contains(c.Log(), "state submission failed")
}
