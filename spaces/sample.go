package spaces

import (
	rng "github.com/leesper/go_rng"
)

// Sampler draws uniformly distributed points from spaces. It is deterministic
// for a fixed seed and is not safe for concurrent use.
type Sampler struct {
	u *rng.UniformGenerator
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{u: rng.NewUniformGenerator(seed)}
}

// Sample draws one point conforming to s. Empty spaces yield zero points.
func (smp *Sampler) Sample(s Space) Point {
	v := &sampleVisitor{u: smp.u}
	s.Accept(v)
	return v.point
}

type sampleVisitor struct {
	u     *rng.UniformGenerator
	point Point
}

func (v *sampleVisitor) VisitBox(s *Box) {
	vals := make([]float32, len(s.Dims))
	for i, d := range s.Dims {
		if d.High > d.Low {
			vals[i] = v.u.Float32Range(d.Low, d.High)
		} else {
			vals[i] = d.Low
		}
	}
	v.point = &BoxPoint{Values: vals, Shape: cloneInts(s.Shape)}
}

func (v *sampleVisitor) VisitDiscrete(s *Discrete) {
	p := &DiscretePoint{}
	if s.High > 0 {
		p.Value = int(v.u.Int32n(int32(s.High)))
	}
	v.point = p
}

func (v *sampleVisitor) VisitMultiBinary(s *MultiBinary) {
	vals := make([]bool, s.Shape)
	for i := range vals {
		vals[i] = v.u.Int32n(2) == 1
	}
	v.point = &MultiBinaryPoint{Values: vals}
}

func (v *sampleVisitor) VisitMultiDiscrete(s *MultiDiscrete) {
	vals := make([]int, len(s.High))
	for i, h := range s.High {
		if h > 0 {
			vals[i] = int(v.u.Int32n(int32(h)))
		}
	}
	v.point = &MultiDiscretePoint{Values: vals}
}

func (v *sampleVisitor) VisitDict(s *Dict) {
	dp := NewDictPoint()
	for _, k := range s.Keys() {
		sub, _ := s.Get(k)
		sub.Accept(v)
		dp.Add(k, v.point)
	}
	v.point = dp
}
