package train

import (
	"github.com/gorgonia/agora/wire"
)

// StateToWire flattens a training state into its wire message. Agents with
// no observation yet serialize without one.
func StateToWire(ts *TrainingState) *wire.TrainingStateMsg {
	msg := &wire.TrainingStateMsg{
		EnvironmentStates: make([]*wire.EnvironmentStateMsg, len(ts.EnvironmentStates)),
	}
	for i, env := range ts.EnvironmentStates {
		msg.EnvironmentStates[i] = environmentStateToWire(env)
	}
	return msg
}

func environmentStateToWire(env *EnvironmentState) *wire.EnvironmentStateMsg {
	out := &wire.EnvironmentStateMsg{
		AgentStates: make(map[string]*wire.AgentStateMsg, len(env.AgentStates)),
	}
	for name, st := range env.AgentStates {
		m := &wire.AgentStateMsg{
			Reward:     st.Reward,
			Terminated: st.Terminated,
			Truncated:  st.Truncated,
			Info:       st.Info,
		}
		if st.Observations != nil {
			m.Observations = wire.FromPoint(st.Observations)
		}
		out.AgentStates[name] = m
	}
	return out
}

// InitialStateToWire flattens the sparse reset results into their wire
// message.
func InitialStateToWire(is *InitialState) *wire.InitialStateMsg {
	msg := &wire.InitialStateMsg{
		EnvironmentStates: make(map[int]*wire.InitialEnvironmentStateMsg, len(is.EnvironmentStates)),
	}
	for id, env := range is.EnvironmentStates {
		envMsg := &wire.InitialEnvironmentStateMsg{
			AgentStates: make(map[string]*wire.InitialAgentStateMsg, len(env.AgentStates)),
		}
		for name, st := range env.AgentStates {
			m := &wire.InitialAgentStateMsg{Info: st.Info}
			if st.Observations != nil {
				m.Observations = wire.FromPoint(st.Observations)
			}
			envMsg.AgentStates[name] = m
		}
		msg.EnvironmentStates[id] = envMsg
	}
	return msg
}

// DefinitionToWire flattens the training definition into its wire message.
func DefinitionToWire(td *TrainingDefinition) *wire.TrainingDefinitionMsg {
	msg := &wire.TrainingDefinitionMsg{
		EnvironmentDefinitions: make([]*wire.EnvironmentDefinitionMsg, len(td.EnvironmentDefinitions)),
	}
	for i, env := range td.EnvironmentDefinitions {
		envMsg := &wire.EnvironmentDefinitionMsg{
			AgentDefinitions: make(map[string]*wire.InteractionDefinitionMsg, len(env.AgentDefinitions)),
		}
		for name, def := range env.AgentDefinitions {
			defMsg := &wire.InteractionDefinitionMsg{}
			if def.ObsSpace != nil {
				defMsg.ObsSpace = wire.FromSpace(def.ObsSpace)
			}
			if def.ActionSpace != nil {
				defMsg.ActionSpace = wire.FromSpace(def.ActionSpace)
			}
			envMsg.AgentDefinitions[name] = defMsg
		}
		msg.EnvironmentDefinitions[i] = envMsg
	}
	return msg
}
