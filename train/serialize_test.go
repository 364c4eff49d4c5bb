package train

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/spaces"
	"github.com/gorgonia/agora/wire"
)

func TestStateToWire(t *testing.T) {
	ts := &TrainingState{EnvironmentStates: []*EnvironmentState{
		{AgentStates: map[string]*AgentState{
			"walker": {
				InitialAgentState: InitialAgentState{
					Observations: &spaces.BoxPoint{Values: []float32{1, 2}},
					Info:         map[string]string{"track": "..x.."},
				},
				Reward:     0.5,
				Terminated: true,
			},
		}},
		{AgentStates: map[string]*AgentState{
			// No observation yet.
			"walker": {Truncated: true},
		}},
	}}

	want := &wire.TrainingStateMsg{EnvironmentStates: []*wire.EnvironmentStateMsg{
		{AgentStates: map[string]*wire.AgentStateMsg{
			"walker": {
				Observations: &wire.PointMsg{Box: &wire.BoxPointMsg{Values: []float32{1, 2}}},
				Reward:       0.5,
				Terminated:   true,
				Info:         map[string]string{"track": "..x.."},
			},
		}},
		{AgentStates: map[string]*wire.AgentStateMsg{
			"walker": {Truncated: true},
		}},
	}}

	if diff := cmp.Diff(want, StateToWire(ts)); diff != "" {
		t.Errorf("state msg mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialStateToWire(t *testing.T) {
	is := NewInitialState()
	is.EnvironmentStates[2] = &InitialEnvironmentState{
		AgentStates: map[string]*InitialAgentState{
			"walker": {
				Observations: &spaces.DiscretePoint{Value: 3},
				Info:         map[string]string{"reset": "1"},
			},
		},
	}

	want := &wire.InitialStateMsg{
		EnvironmentStates: map[int]*wire.InitialEnvironmentStateMsg{
			2: {AgentStates: map[string]*wire.InitialAgentStateMsg{
				"walker": {
					Observations: &wire.PointMsg{Discrete: &wire.DiscretePointMsg{Value: 3}},
					Info:         map[string]string{"reset": "1"},
				},
			}},
		},
	}

	if diff := cmp.Diff(want, InitialStateToWire(is)); diff != "" {
		t.Errorf("initial state msg mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinitionToWire(t *testing.T) {
	assert := assert.New(t)
	td := &TrainingDefinition{EnvironmentDefinitions: []*EnvironmentDefinition{
		{AgentDefinitions: map[string]agora.InteractionDefinition{
			"walker": {
				ObsSpace:    spaces.NewBox(-500, 500, 1),
				ActionSpace: spaces.NewMultiDiscrete(3),
			},
			"ghost": {},
		}},
	}}

	msg := DefinitionToWire(td)
	assert.Len(msg.EnvironmentDefinitions, 1)

	walker := msg.EnvironmentDefinitions[0].AgentDefinitions["walker"]
	if assert.NotNil(walker.ObsSpace) {
		assert.NotNil(walker.ObsSpace.Box)
	}
	if assert.NotNil(walker.ActionSpace) {
		assert.Equal([]int{3}, walker.ActionSpace.MultiDiscrete.High)
	}

	// Definitions without spaces stay empty rather than exploding.
	ghost := msg.EnvironmentDefinitions[0].AgentDefinitions["ghost"]
	assert.Nil(ghost.ObsSpace)
	assert.Nil(ghost.ActionSpace)
}
