package infer

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/spaces"
)

// NNPolicy drives a Model through buffers allocated from an interaction
// definition. Init allocates the observation and action buffers and binds
// them to the model's tensors; Think then encodes, runs, and decodes in
// place with zero per-tick allocation on the buffer side. Overlapping Think
// calls are rejected with a busy error, the caller is expected to poll
// IsInferenceBusy and come back on a later tick.
type NNPolicy struct {
	model Model
	def   agora.InteractionDefinition

	obsBuffer Buffer
	actBuffer Buffer
	states    []*StateBuffer

	inputs  []Binding
	outputs []Binding

	ready bool
	busy  uint32 // atomic
}

var _ agora.Policy = &NNPolicy{}

func NewNNPolicy(m Model) *NNPolicy {
	return &NNPolicy{model: m}
}

// Init sizes the buffers for def and binds them to the model's declared
// tensors. State tensors claim their binding slots first; everything else
// is bound by walking the buffers against the remaining descs.
func (p *NNPolicy) Init(def agora.InteractionDefinition) error {
	if p.model == nil {
		return errors.New("infer: policy has no model")
	}
	if def.ObsSpace == nil || def.ActionSpace == nil {
		return errors.New("infer: interaction definition is missing a space")
	}

	inDescs := p.model.Inputs()
	outDescs := p.model.Outputs()
	if len(inDescs) == 0 || len(outDescs) == 0 {
		return errors.New("infer: model declares no inputs or outputs")
	}

	p.def = def
	p.obsBuffer = Alloc(def.ObsSpace)
	p.actBuffer = Alloc(def.ActionSpace)
	p.inputs = make([]Binding, len(inDescs))
	p.outputs = make([]Binding, len(outDescs))

	if err := p.initStateBindings(inDescs, outDescs); err != nil {
		return err
	}

	inCreator := NewBindingCreator(inDescs, p.inputs)
	inCreator.Bind(p.obsBuffer)
	if inCreator.Failed() {
		return errors.New("infer: could not bind observation buffers to model inputs")
	}
	outCreator := NewBindingCreator(outDescs, p.outputs)
	outCreator.Bind(p.actBuffer)
	if outCreator.Failed() {
		return errors.New("infer: could not bind action buffers to model outputs")
	}

	p.ready = true
	return nil
}

// initStateBindings allocates one rolling window per state_in desc and pairs
// each state_out desc with those windows in declaration order. The model
// reads the whole window and writes the freshest row back; rolling the
// window between runs is the model wrapper's business.
func (p *NNPolicy) initStateBindings(inDescs, outDescs []TensorDesc) error {
	p.states = p.states[:0]
	for i, desc := range inDescs {
		if !strings.HasPrefix(desc.Name, stateInPrefix) {
			continue
		}
		if len(desc.Shape) != 3 {
			return errors.Errorf("infer: state tensor %q has rank %d, want 3", desc.Name, len(desc.Shape))
		}
		sb := NewStateBuffer(desc.Shape[1], desc.Shape[2])
		p.states = append(p.states, sb)
		p.inputs[i] = Binding{Name: desc.Name, Tensor: sb.InputTensor()}
	}
	next := 0
	for i, desc := range outDescs {
		if !strings.HasPrefix(desc.Name, stateOutPrefix) {
			continue
		}
		if next >= len(p.states) {
			return errors.Errorf("infer: state output %q has no matching state input", desc.Name)
		}
		p.outputs[i] = Binding{Name: desc.Name, Tensor: p.states[next].OutputTensor()}
		next++
	}
	return nil
}

// Think encodes one observation, runs the model once, and decodes the
// resulting action. A Think while another is in flight fails immediately
// with a busy error; the policy never queues.
func (p *NNPolicy) Think(obs spaces.Point) (spaces.Point, error) {
	if !atomic.CompareAndSwapUint32(&p.busy, 0, 1) {
		return nil, errors.New("infer: inference already in flight")
	}
	defer atomic.StoreUint32(&p.busy, 0)

	if !p.ready {
		return nil, errors.New("infer: policy is not initialized")
	}
	if err := Encode(obs, p.obsBuffer); err != nil {
		return nil, errors.WithMessage(err, "encoding observation")
	}
	if err := p.model.Run(p.inputs, p.outputs); err != nil {
		return nil, errors.WithMessage(err, "running model")
	}
	return Decode(p.actBuffer), nil
}

func (p *NNPolicy) BatchedThink(obs []spaces.Point) ([]spaces.Point, error) {
	return agora.ThinkSequentially(p, obs)
}

func (p *NNPolicy) IsInferenceBusy() bool {
	return atomic.LoadUint32(&p.busy) == 1
}

// ExecLog returns the model's execution trace when the model keeps one.
func (p *NNPolicy) ExecLog() string {
	if l, ok := p.model.(agora.ExecLogger); ok {
		return l.ExecLog()
	}
	return ""
}
