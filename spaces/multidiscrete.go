package spaces

import "fmt"

// MultiDiscrete is a space of integers, one per entry of High, each valid in
// [0, High[i]).
type MultiDiscrete struct {
	High []int
}

func NewMultiDiscrete(high ...int) *MultiDiscrete { return &MultiDiscrete{High: high} }

func (s *MultiDiscrete) NumDimensions() int { return len(s.High) }
func (s *MultiDiscrete) IsEmpty() bool      { return len(s.High) == 0 }

// FlattenedSize is the sum of the per-dimension category counts: the tensor
// form is one block of slots per dimension.
func (s *MultiDiscrete) FlattenedSize() int {
	total := 0
	for _, h := range s.High {
		total += h
	}
	return total
}

func (s *MultiDiscrete) Validate(p Point) ValidationResult {
	mp, ok := p.(*MultiDiscretePoint)
	if !ok {
		return WrongDataType
	}
	if len(mp.Values) != len(s.High) {
		return WrongDimensions
	}
	for i, v := range mp.Values {
		if v < 0 || v >= s.High[i] {
			return OutOfBounds
		}
	}
	return Success
}

func (s *MultiDiscrete) Accept(v SpaceVisitor) { v.VisitMultiDiscrete(s) }
func (s *MultiDiscrete) Clone() Space          { return &MultiDiscrete{High: cloneInts(s.High)} }

func (s *MultiDiscrete) Eq(other Space) bool {
	o, ok := other.(*MultiDiscrete)
	return ok && intsEq(o.High, s.High)
}

func (s *MultiDiscrete) String() string { return fmt.Sprintf("MultiDiscrete%v", s.High) }

func (s *MultiDiscrete) isSpace() {}

// MultiDiscretePoint is a vector of categorical values.
type MultiDiscretePoint struct {
	Values []int
}

func (p *MultiDiscretePoint) Accept(v PointVisitor) { v.VisitMultiDiscretePoint(p) }

func (p *MultiDiscretePoint) Clone() Point {
	return &MultiDiscretePoint{Values: cloneInts(p.Values)}
}

func (p *MultiDiscretePoint) Eq(other Point) bool {
	o, ok := other.(*MultiDiscretePoint)
	return ok && intsEq(o.Values, p.Values)
}

func (p *MultiDiscretePoint) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "MultiDiscrete%v", p.Values)
}

func (p *MultiDiscretePoint) isPoint() {}
