// Package walk is a 1-D discrete walk on a bounded track, the fixture
// environment for end-to-end exercises of the steppers and the training
// connector. An agent nudges its position left or right by a fixed delta;
// reaching the right end of the track pays out and ends the episode,
// reaching the left end ends it for a consolation prize.
package walk

import (
	"log"
	"math"
	"strconv"
	"strings"

	rng "github.com/leesper/go_rng"

	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/spaces"
	"github.com/gorgonia/agora/train"
)

// AgentName keys the single agent hosted by Env.
const AgentName = "walker"

// Track defaults.
const (
	DefaultBound float32 = 500
	DefaultDelta float32 = 100
)

// Action values. The action space is MultiDiscrete with one block of three.
const (
	Stay = iota
	Right
	Left
)

// Walk is the track state shared by the stepper-facing Agent and the
// trainer-facing Env: a position on [-Bound, Bound] moving in Delta hops.
type Walk struct {
	Position float32
	Bound    float32
	Delta    float32
}

func newWalk() Walk { return Walk{Bound: DefaultBound, Delta: DefaultDelta} }

func (w *Walk) definition() agora.InteractionDefinition {
	return agora.InteractionDefinition{
		ObsSpace:    spaces.NewBox(-w.Bound, w.Bound, 1),
		ActionSpace: spaces.NewMultiDiscrete(3),
	}
}

func (w *Walk) observation() *spaces.BoxPoint {
	return &spaces.BoxPoint{Values: []float32{w.Position}}
}

// move applies one action value to the position. A bare DiscretePoint is
// accepted alongside the declared single-block MultiDiscrete form; anything
// else stays put.
func (w *Walk) move(action spaces.Point) {
	switch v, ok := actionValue(action); {
	case !ok:
	case v == Right:
		w.Position += w.Delta
	case v == Left:
		w.Position -= w.Delta
	}
}

func actionValue(action spaces.Point) (int, bool) {
	switch p := action.(type) {
	case *spaces.MultiDiscretePoint:
		if len(p.Values) == 0 {
			return 0, false
		}
		return p.Values[0], true
	case *spaces.DiscretePoint:
		return p.Value, true
	}
	return 0, false
}

// outcome clamps the position to the track and scores the step: the right
// end earns 1.0 and ends the episode, the left end earns 0.1, and every step
// in between costs 0.01.
func (w *Walk) outcome() (reward float32, terminated bool) {
	switch {
	case w.Position >= w.Bound:
		w.Position = w.Bound
		return 1.0, true
	case w.Position <= -w.Bound:
		w.Position = -w.Bound
		return 0.1, true
	}
	return -0.01, false
}

// String draws the track with the agent's cell marked, for renderers and
// step traces.
func (w *Walk) String() string {
	cells := int(2*w.Bound/w.Delta) + 1
	idx := int((w.Position + w.Bound) / w.Delta)
	var sb strings.Builder
	for i := 0; i < cells; i++ {
		if i == idx {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Agent is the stepper-facing walk. It validates incoming actions against
// its action space and stops itself when the episode ends.
type Agent struct {
	Walk
	status agora.AgentStatus
}

var _ agora.Agent = &Agent{}

func NewAgent() *Agent { return &Agent{Walk: newWalk()} }

func (a *Agent) Observe() spaces.Point { return a.observation() }

func (a *Agent) Act(action spaces.Point) {
	if res := a.definition().ActionSpace.Validate(action); res != spaces.Success {
		log.Printf("walk: rejecting action: %v", res)
		return
	}
	a.move(action)
	if _, done := a.outcome(); done {
		a.SetStatus(agora.AgentStopped)
	}
}

func (a *Agent) Define() agora.InteractionDefinition { return a.definition() }

func (a *Agent) Status() agora.AgentStatus { return a.status }

func (a *Agent) SetStatus(s agora.AgentStatus) { a.status = s }

// Reset puts the agent back at the track's center and marks it running.
func (a *Agent) Reset() {
	a.Position = 0
	a.status = agora.AgentRunning
}

// Env is the trainer-facing walk, hosting a single agent named AgentName.
// Seeding jitters the starting cell; options can resize the track.
type Env struct {
	Walk
	gen *rng.GaussianGenerator
}

var _ train.Environment = &Env{}

func NewEnv() *Env { return &Env{Walk: newWalk()} }

func (e *Env) Init() map[string]agora.InteractionDefinition {
	return map[string]agora.InteractionDefinition{AgentName: e.definition()}
}

func (e *Env) Seed(seed int64) { e.gen = rng.NewGaussianGenerator(seed) }

// SetOptions understands "bound" and "delta", both parsed as positive
// floats. Unknown keys are logged and skipped.
func (e *Env) SetOptions(opts map[string]string) {
	for k, v := range opts {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil || f <= 0 {
			log.Printf("walk: bad value %q for option %q", v, k)
			continue
		}
		switch k {
		case "bound":
			e.Bound = float32(f)
		case "delta":
			e.Delta = float32(f)
		default:
			log.Printf("walk: unknown option %q", k)
		}
	}
}

func (e *Env) Reset() map[string]*train.InitialAgentState {
	e.Position = 0
	if e.gen != nil {
		e.Position = e.jitteredStart()
	}
	return map[string]*train.InitialAgentState{
		AgentName: {
			Observations: e.observation(),
			Info:         map[string]string{"track": e.String()},
		},
	}
}

// jitteredStart draws a grid-aligned cell near the track's center, clamped
// one cell short of either end so an episode never starts terminal.
func (e *Env) jitteredStart() float32 {
	cell := math.Round(e.gen.Gaussian(0, 1))
	pos := float32(cell) * e.Delta
	if pos >= e.Bound {
		pos = e.Bound - e.Delta
	}
	if pos <= -e.Bound {
		pos = -e.Bound + e.Delta
	}
	return pos
}

// Step moves the agent if an action for it is present, then scores the
// step. A missing action still scores, as a stay.
func (e *Env) Step(actions map[string]spaces.Point) map[string]*train.AgentState {
	if action, ok := actions[AgentName]; ok {
		e.move(action)
	}

	st := &train.AgentState{}
	st.Reward, st.Terminated = e.outcome()
	st.Observations = e.observation()
	st.Info = map[string]string{"track": e.String()}
	return map[string]*train.AgentState{AgentName: st}
}
