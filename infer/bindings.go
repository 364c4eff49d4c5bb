package infer

import (
	"log"
	"strings"

	"gorgonia.org/tensor"
)

const (
	stateInPrefix  = "state_in"
	stateOutPrefix = "state_out"
)

// TensorDesc names one model tensor and gives its shape.
type TensorDesc struct {
	Name  string
	Shape []int
}

// IsState reports whether the desc names a recurrent state slot rather than
// an observation or action tensor.
func (d TensorDesc) IsState() bool {
	return strings.HasPrefix(d.Name, stateInPrefix) || strings.HasPrefix(d.Name, stateOutPrefix)
}

// Binding pairs a model tensor name with the dense view it reads or writes.
type Binding struct {
	Name   string
	Tensor *tensor.Dense
}

// BindingCreator fills caller-allocated binding slots by walking a buffer
// tree against a model's tensor descs. Dict buffers are matched by desc
// name; a bare leaf buffer binds to the desc at the current slot. State
// descs are skipped here, their slots belong to state buffers. Any failure
// sets a sticky flag and logs the offending name; callers must check Failed
// before using the bindings.
type BindingCreator struct {
	descs    []TensorDesc
	bindings []Binding
	idx      int
	failed   bool
}

// NewBindingCreator pairs descs with their binding slots. bindings is
// written in place and is normally len(descs) long.
func NewBindingCreator(descs []TensorDesc, bindings []Binding) *BindingCreator {
	return &BindingCreator{descs: descs, bindings: bindings}
}

// Bind walks buf and fills every non-state slot.
func (c *BindingCreator) Bind(buf Buffer) {
	buf.Accept(c)
}

// Failed reports whether any slot could not be bound.
func (c *BindingCreator) Failed() bool { return c.failed }

func (c *BindingCreator) Bindings() []Binding { return c.bindings }

func (c *BindingCreator) VisitBoxBuffer(b *BoxBuffer) { c.place(b.Tensor()) }

func (c *BindingCreator) VisitDiscreteBuffer(b *DiscreteBuffer) { c.place(b.Tensor()) }

func (c *BindingCreator) VisitMultiBinaryBuffer(b *MultiBinaryBuffer) { c.place(b.Tensor()) }

func (c *BindingCreator) VisitMultiDiscreteBuffer(b *MultiDiscreteBuffer) { c.place(b.Tensor()) }

func (c *BindingCreator) VisitDictBuffer(b *DictBuffer) {
	for ; c.idx < len(c.descs); c.idx++ {
		desc := c.descs[c.idx]
		if desc.IsState() {
			continue
		}
		if c.idx >= len(c.bindings) {
			log.Printf("infer: no binding slot %d for tensor %q", c.idx, desc.Name)
			c.failed = true
			return
		}
		sub, ok := b.Get(desc.Name)
		if !ok {
			log.Printf("infer: no buffer named %q to bind", desc.Name)
			c.failed = true
			return
		}
		sub.Accept(c)
		if c.failed {
			return
		}
	}
}

func (c *BindingCreator) place(view *tensor.Dense) {
	for c.idx < len(c.descs) && c.descs[c.idx].IsState() {
		c.idx++
	}
	if c.idx >= len(c.bindings) || c.idx >= len(c.descs) {
		log.Printf("infer: binding slot %d is out of range", c.idx)
		c.failed = true
		return
	}
	c.bindings[c.idx] = Binding{Name: c.descs[c.idx].Name, Tensor: view}
}
