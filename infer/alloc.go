package infer

import (
	"github.com/gorgonia/agora/spaces"
)

// Alloc builds a zeroed buffer tree sized for s. Slot counts follow the
// space's flattened size: continuous kinds get one slot per dimension, the
// categorical kinds one logit slot per category.
func Alloc(s spaces.Space) Buffer {
	var a bufferAllocator
	s.Accept(&a)
	return a.buf
}

type bufferAllocator struct {
	buf Buffer
}

func (a *bufferAllocator) VisitBox(s *spaces.Box) {
	a.buf = &BoxBuffer{
		Data:  make([]float32, s.FlattenedSize()),
		Shape: append([]int(nil), s.Shape...),
	}
}

func (a *bufferAllocator) VisitDiscrete(s *spaces.Discrete) {
	a.buf = &DiscreteBuffer{Data: make([]float32, s.FlattenedSize())}
}

func (a *bufferAllocator) VisitMultiBinary(s *spaces.MultiBinary) {
	a.buf = &MultiBinaryBuffer{Data: make([]float32, s.FlattenedSize())}
}

func (a *bufferAllocator) VisitMultiDiscrete(s *spaces.MultiDiscrete) {
	a.buf = &MultiDiscreteBuffer{
		Data: make([]float32, s.FlattenedSize()),
		High: append([]int(nil), s.High...),
	}
}

func (a *bufferAllocator) VisitDict(s *spaces.Dict) {
	out := NewDictBuffer()
	for _, k := range s.Keys() {
		sub, _ := s.Get(k)
		out.Add(k, Alloc(sub))
	}
	a.buf = out
}
