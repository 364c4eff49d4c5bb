package infer

import (
	"github.com/gorgonia/agora/spaces"
)

// Decode reads b back into a point. Each categorical block picks the index
// of its largest logit, keeping the earliest index on ties; binary slots
// threshold at 0.5. The returned point owns its memory.
func Decode(b Buffer) spaces.Point {
	var d bufferDecoder
	b.Accept(&d)
	return d.point
}

type bufferDecoder struct {
	point spaces.Point
}

func (d *bufferDecoder) VisitBoxBuffer(b *BoxBuffer) {
	d.point = &spaces.BoxPoint{
		Values: append([]float32(nil), b.Data...),
		Shape:  append([]int(nil), b.Shape...),
	}
}

func (d *bufferDecoder) VisitDiscreteBuffer(b *DiscreteBuffer) {
	d.point = &spaces.DiscretePoint{Value: argMax(b.Data)}
}

func (d *bufferDecoder) VisitMultiBinaryBuffer(b *MultiBinaryBuffer) {
	values := make([]bool, len(b.Data))
	for i, v := range b.Data {
		values[i] = v > 0.5
	}
	d.point = &spaces.MultiBinaryPoint{Values: values}
}

func (d *bufferDecoder) VisitMultiDiscreteBuffer(b *MultiDiscreteBuffer) {
	values := make([]int, len(b.High))
	off := 0
	for i, width := range b.High {
		end := off + width
		if end > len(b.Data) {
			end = len(b.Data)
		}
		values[i] = argMax(b.Data[off:end])
		off += width
	}
	d.point = &spaces.MultiDiscretePoint{Values: values}
}

func (d *bufferDecoder) VisitDictBuffer(b *DictBuffer) {
	out := spaces.NewDictPoint()
	for _, k := range b.Keys() {
		sub, _ := b.Get(k)
		out.Add(k, Decode(sub))
	}
	d.point = out
}

// argMax returns the index of the largest value, preferring the earliest on
// ties. An empty slice maps to index 0.
func argMax(data []float32) int {
	if len(data) == 0 {
		return 0
	}
	best := data[0]
	idx := 0
	for i, v := range data {
		if v > best {
			best = v
			idx = i
		}
	}
	return idx
}
