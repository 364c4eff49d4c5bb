package infer

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
)

// Encode writes p into b. Categorical values become one-hot blocks, with
// out-of-range values leaving their block all zeros. Box values are copied
// only when the arity matches exactly; resizing a buffer would sever any
// tensor binding already pointing at it, so a mismatch is an error and the
// buffer keeps its previous contents.
func Encode(p spaces.Point, b Buffer) error {
	e := &bufferEncoder{point: p}
	b.Accept(e)
	return e.err
}

type bufferEncoder struct {
	point spaces.Point
	err   error
}

func (e *bufferEncoder) VisitBoxBuffer(b *BoxBuffer) {
	pt, ok := e.point.(*spaces.BoxPoint)
	if !ok {
		e.err = errors.Errorf("infer: cannot encode %T into a box buffer", e.point)
		return
	}
	if len(pt.Values) != len(b.Data) {
		e.err = errors.Errorf("infer: box buffer holds %d slots, point has %d values", len(b.Data), len(pt.Values))
		return
	}
	copy(b.Data, pt.Values)
}

func (e *bufferEncoder) VisitDiscreteBuffer(b *DiscreteBuffer) {
	pt, ok := e.point.(*spaces.DiscretePoint)
	if !ok {
		e.err = errors.Errorf("infer: cannot encode %T into a discrete buffer", e.point)
		return
	}
	zero(b.Data)
	if pt.Value >= 0 && pt.Value < len(b.Data) {
		b.Data[pt.Value] = 1
	}
}

func (e *bufferEncoder) VisitMultiBinaryBuffer(b *MultiBinaryBuffer) {
	pt, ok := e.point.(*spaces.MultiBinaryPoint)
	if !ok {
		e.err = errors.Errorf("infer: cannot encode %T into a multi-binary buffer", e.point)
		return
	}
	if len(pt.Values) != len(b.Data) {
		e.err = errors.Errorf("infer: multi-binary buffer holds %d slots, point has %d values", len(b.Data), len(pt.Values))
		return
	}
	for i, v := range pt.Values {
		if v {
			b.Data[i] = 1
		} else {
			b.Data[i] = 0
		}
	}
}

func (e *bufferEncoder) VisitMultiDiscreteBuffer(b *MultiDiscreteBuffer) {
	pt, ok := e.point.(*spaces.MultiDiscretePoint)
	if !ok {
		e.err = errors.Errorf("infer: cannot encode %T into a multi-discrete buffer", e.point)
		return
	}
	if len(pt.Values) != len(b.High) {
		e.err = errors.Errorf("infer: multi-discrete buffer has %d blocks, point has %d values", len(b.High), len(pt.Values))
		return
	}
	off := 0
	for i, width := range b.High {
		if off+width > len(b.Data) {
			e.err = errors.Errorf("infer: multi-discrete block %d overruns the buffer", i)
			return
		}
		block := b.Data[off : off+width]
		zero(block)
		if v := pt.Values[i]; v >= 0 && v < width {
			block[v] = 1
		}
		off += width
	}
}

func (e *bufferEncoder) VisitDictBuffer(b *DictBuffer) {
	pt, ok := e.point.(*spaces.DictPoint)
	if !ok {
		e.err = errors.Errorf("infer: cannot encode %T into a dict buffer", e.point)
		return
	}
	for _, k := range b.Keys() {
		sub, _ := b.Get(k)
		subPt, ok := pt.Get(k)
		if !ok {
			e.err = errors.Errorf("infer: point is missing dict key %q", k)
			return
		}
		if err := Encode(subPt, sub); err != nil {
			e.err = errors.Wrapf(err, "dict key %q", k)
			return
		}
	}
}

func zero(data []float32) {
	for i := range data {
		data[i] = 0
	}
}
