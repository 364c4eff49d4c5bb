package train

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
	"github.com/gorgonia/agora/wire"
)

// UpdateKind discriminates what a trainer decision asks for.
type UpdateKind uint8

const (
	UpdateNone UpdateKind = iota
	UpdateStep
	UpdateReset
)

// UpdateStatus is the communicator health carried alongside a decision. Any
// status other than none overrides whatever kind is set.
type UpdateStatus uint8

const (
	StatusNone UpdateStatus = iota
	StatusClosed
	StatusErrored
)

// StateUpdate is one decoded trainer decision.
type StateUpdate struct {
	Kind   UpdateKind
	Status UpdateStatus
	Step   *TrainingStep
	Reset  *TrainingReset
}

func (u *StateUpdate) IsStep() bool   { return u.Kind == UpdateStep && u.Status == StatusNone }
func (u *StateUpdate) IsReset() bool  { return u.Kind == UpdateReset && u.Status == StatusNone }
func (u *StateUpdate) IsClosed() bool { return u.Status == StatusClosed }
func (u *StateUpdate) IsError() bool  { return u.Status == StatusErrored }

// TrainingStep carries one action set per environment, in id order.
type TrainingStep struct {
	EnvSteps []*EnvStep
}

// EnvStep maps agent names to the actions they should take this step.
type EnvStep struct {
	Actions map[string]spaces.Point
}

// TrainingReset names the environments to reconfigure before the blanket
// reset, keyed by environment id.
type TrainingReset struct {
	Environments map[int]*EnvReset
}

// EnvReset optionally reseeds and reconfigures one environment. HasSeed
// distinguishes an explicit zero seed from no seed at all.
type EnvReset struct {
	Seed    int64
	HasSeed bool
	Options map[string]string
}

// UpdateFromWire decodes a wire state update into its domain form. A message
// setting both the step and reset arms is rejected; an unknown status string
// is rejected; a status-only message yields kind UpdateNone.
func UpdateFromWire(m *wire.StateUpdateMsg) (*StateUpdate, error) {
	if m == nil {
		return nil, errors.New("train: nil state update message")
	}
	u := &StateUpdate{}
	switch m.Status {
	case "", wire.StatusGood:
	case wire.StatusClosed:
		u.Status = StatusClosed
	case wire.StatusError:
		u.Status = StatusErrored
	default:
		return nil, errors.Errorf("train: unknown update status %q", m.Status)
	}
	if m.Step != nil && m.Reset != nil {
		return nil, errors.New("train: update sets both step and reset")
	}

	switch {
	case m.Step != nil:
		u.Kind = UpdateStep
		u.Step = &TrainingStep{EnvSteps: make([]*EnvStep, len(m.Step.EnvSteps))}
		for i, es := range m.Step.EnvSteps {
			step := &EnvStep{Actions: make(map[string]spaces.Point)}
			u.Step.EnvSteps[i] = step
			if es == nil {
				continue
			}
			for name, pm := range es.Actions {
				p, err := wire.ToPoint(pm)
				if err != nil {
					return nil, errors.Wrapf(err, "environment %d, agent %q", i, name)
				}
				step.Actions[name] = p
			}
		}
	case m.Reset != nil:
		u.Kind = UpdateReset
		u.Reset = &TrainingReset{Environments: make(map[int]*EnvReset, len(m.Reset.Environments))}
		for id, er := range m.Reset.Environments {
			if er == nil {
				u.Reset.Environments[id] = &EnvReset{}
				continue
			}
			u.Reset.Environments[id] = &EnvReset{
				Seed:    er.Seed,
				HasSeed: er.HasSeed,
				Options: er.Options,
			}
		}
	}
	return u, nil
}
