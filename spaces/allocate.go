package spaces

// Zero builds a zero-valued Point conforming to the given Space: 0.0 for every
// Box dimension, 0 for Discrete and MultiDiscrete entries, false for
// MultiBinary slots, and a recursive allocation per key for Dict.
func Zero(s Space) Point {
	var a allocator
	s.Accept(&a)
	return a.point
}

// allocator builds points by visiting spaces.
type allocator struct {
	point Point
}

func (a *allocator) VisitBox(s *Box) {
	a.point = &BoxPoint{Values: make([]float32, len(s.Dims)), Shape: cloneInts(s.Shape)}
}

func (a *allocator) VisitDiscrete(s *Discrete) {
	a.point = &DiscretePoint{}
}

func (a *allocator) VisitMultiBinary(s *MultiBinary) {
	a.point = &MultiBinaryPoint{Values: make([]bool, s.Shape)}
}

func (a *allocator) VisitMultiDiscrete(s *MultiDiscrete) {
	a.point = &MultiDiscretePoint{Values: make([]int, len(s.High))}
}

func (a *allocator) VisitDict(s *Dict) {
	dp := NewDictPoint()
	for _, k := range s.Keys() {
		sub, _ := s.Get(k)
		dp.Add(k, Zero(sub))
	}
	a.point = dp
}
