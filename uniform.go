package agora

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
)

// UniformPolicy samples actions uniformly from the agent's action space. It
// is the baseline live policy for demos, and a stand-in when no network is
// available.
type UniformPolicy struct {
	smp *spaces.Sampler
	def InteractionDefinition
}

var _ Policy = &UniformPolicy{}

func NewUniformPolicy(seed int64) *UniformPolicy {
	return &UniformPolicy{smp: spaces.NewSampler(seed)}
}

func (p *UniformPolicy) Init(def InteractionDefinition) error {
	if def.ActionSpace == nil {
		return errors.New("uniform policy: nil action space")
	}
	p.def = def
	return nil
}

func (p *UniformPolicy) Think(obs spaces.Point) (spaces.Point, error) {
	if p.def.ActionSpace == nil {
		return nil, errors.New("uniform policy: Init was not called")
	}
	return p.smp.Sample(p.def.ActionSpace), nil
}

func (p *UniformPolicy) BatchedThink(obs []spaces.Point) ([]spaces.Point, error) {
	return ThinkSequentially(p, obs)
}

// IsInferenceBusy always reports false; sampling is instantaneous.
func (p *UniformPolicy) IsInferenceBusy() bool { return false }
