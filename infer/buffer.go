// Package infer converts observation and action points to and from the flat
// float buffers a neural network consumes, and binds those buffers to named
// model tensors. The buffers are allocated once per policy and written in
// place; tensors handed to the model are dense views over the same memory.
package infer

import (
	"gorgonia.org/tensor"
)

// Buffer is one slot tree of inference memory, mirroring the space kinds.
type Buffer interface {
	Accept(BufferVisitor)
	FlatSize() int

	isBuffer()
}

// BufferVisitor is the dispatch target for the closed set of buffer kinds.
type BufferVisitor interface {
	VisitBoxBuffer(*BoxBuffer)
	VisitDiscreteBuffer(*DiscreteBuffer)
	VisitMultiBinaryBuffer(*MultiBinaryBuffer)
	VisitMultiDiscreteBuffer(*MultiDiscreteBuffer)
	VisitDictBuffer(*DictBuffer)
}

// BoxBuffer holds one float per box dimension.
type BoxBuffer struct {
	Data  []float32
	Shape []int
}

func (b *BoxBuffer) Accept(v BufferVisitor) { v.VisitBoxBuffer(b) }

func (b *BoxBuffer) FlatSize() int { return len(b.Data) }

// Tensor returns a dense view sharing the buffer's backing memory. Writes
// through the view are writes to the buffer.
func (b *BoxBuffer) Tensor() *tensor.Dense {
	shape := b.Shape
	if len(shape) == 0 {
		shape = []int{len(b.Data)}
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(b.Data))
}

func (b *BoxBuffer) isBuffer() {}

// DiscreteBuffer holds one logit slot per category.
type DiscreteBuffer struct {
	Data []float32
}

func (b *DiscreteBuffer) Accept(v BufferVisitor) { v.VisitDiscreteBuffer(b) }

func (b *DiscreteBuffer) FlatSize() int { return len(b.Data) }

func (b *DiscreteBuffer) Tensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(len(b.Data)), tensor.WithBacking(b.Data))
}

func (b *DiscreteBuffer) isBuffer() {}

// MultiBinaryBuffer holds one slot per binary flag.
type MultiBinaryBuffer struct {
	Data []float32
}

func (b *MultiBinaryBuffer) Accept(v BufferVisitor) { v.VisitMultiBinaryBuffer(b) }

func (b *MultiBinaryBuffer) FlatSize() int { return len(b.Data) }

func (b *MultiBinaryBuffer) Tensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(len(b.Data)), tensor.WithBacking(b.Data))
}

func (b *MultiBinaryBuffer) isBuffer() {}

// MultiDiscreteBuffer concatenates one logit block per sub-range; block i is
// High[i] slots wide.
type MultiDiscreteBuffer struct {
	Data []float32
	High []int
}

func (b *MultiDiscreteBuffer) Accept(v BufferVisitor) { v.VisitMultiDiscreteBuffer(b) }

func (b *MultiDiscreteBuffer) FlatSize() int { return len(b.Data) }

func (b *MultiDiscreteBuffer) Tensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(len(b.Data)), tensor.WithBacking(b.Data))
}

func (b *MultiDiscreteBuffer) isBuffer() {}

// DictBuffer is an ordered collection of named sub-buffers.
type DictBuffer struct {
	keys []string
	m    map[string]Buffer
}

func NewDictBuffer() *DictBuffer {
	return &DictBuffer{m: make(map[string]Buffer)}
}

// Add inserts or replaces a sub-buffer. It returns the DictBuffer for
// chaining.
func (b *DictBuffer) Add(key string, sub Buffer) *DictBuffer {
	if _, ok := b.m[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.m[key] = sub
	return b
}

func (b *DictBuffer) Get(key string) (Buffer, bool) {
	sub, ok := b.m[key]
	return sub, ok
}

// Keys returns the sub-buffer keys in insertion order.
func (b *DictBuffer) Keys() []string { return b.keys }

func (b *DictBuffer) Len() int { return len(b.keys) }

func (b *DictBuffer) Accept(v BufferVisitor) { v.VisitDictBuffer(b) }

func (b *DictBuffer) FlatSize() int {
	total := 0
	for _, k := range b.keys {
		total += b.m[k].FlatSize()
	}
	return total
}

func (b *DictBuffer) isBuffer() {}

// StateBuffer is the rolling window backing one recurrent state tensor pair.
// The model reads the whole window through InputTensor and writes the newest
// row through OutputTensor; Shift slides the window one row back between
// runs. It is not part of the point buffer set: state slots carry model
// memory, not space data.
type StateBuffer struct {
	Data    []float32
	SeqLen  int
	DimSize int
}

func NewStateBuffer(seqLen, dimSize int) *StateBuffer {
	return &StateBuffer{
		Data:    make([]float32, seqLen*dimSize),
		SeqLen:  seqLen,
		DimSize: dimSize,
	}
}

// Shift discards the oldest row and moves the rest up, freeing the last row
// for the next model run.
func (b *StateBuffer) Shift() {
	for i := 0; i < b.SeqLen-1; i++ {
		copy(b.Data[i*b.DimSize:(i+1)*b.DimSize], b.Data[(i+1)*b.DimSize:(i+2)*b.DimSize])
	}
}

// InputTensor views the whole window.
func (b *StateBuffer) InputTensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(1, b.SeqLen, b.DimSize), tensor.WithBacking(b.Data))
}

// OutputTensor views only the last row, where the model writes fresh state.
func (b *StateBuffer) OutputTensor() *tensor.Dense {
	off := (b.SeqLen - 1) * b.DimSize
	return tensor.New(tensor.WithShape(1, b.DimSize), tensor.WithBacking(b.Data[off:]))
}
