package spaces

import "fmt"

// MultiBinary is a space of Shape independent binary values.
type MultiBinary struct {
	Shape int
}

func NewMultiBinary(shape int) *MultiBinary { return &MultiBinary{Shape: shape} }

func (s *MultiBinary) NumDimensions() int { return s.Shape }
func (s *MultiBinary) IsEmpty() bool      { return s.Shape == 0 }
func (s *MultiBinary) FlattenedSize() int { return s.Shape }

// Validate checks only the kind and the length; a bool cannot be out of bounds.
func (s *MultiBinary) Validate(p Point) ValidationResult {
	bp, ok := p.(*MultiBinaryPoint)
	if !ok {
		return WrongDataType
	}
	if len(bp.Values) != s.Shape {
		return WrongDimensions
	}
	return Success
}

func (s *MultiBinary) Accept(v SpaceVisitor) { v.VisitMultiBinary(s) }
func (s *MultiBinary) Clone() Space          { return &MultiBinary{Shape: s.Shape} }

func (s *MultiBinary) Eq(other Space) bool {
	o, ok := other.(*MultiBinary)
	return ok && o.Shape == s.Shape
}

func (s *MultiBinary) String() string { return fmt.Sprintf("MultiBinary(%d)", s.Shape) }

func (s *MultiBinary) isSpace() {}

// MultiBinaryPoint is a vector of binary values.
type MultiBinaryPoint struct {
	Values []bool
}

func (p *MultiBinaryPoint) Accept(v PointVisitor) { v.VisitMultiBinaryPoint(p) }

func (p *MultiBinaryPoint) Clone() Point {
	vals := make([]bool, len(p.Values))
	copy(vals, p.Values)
	return &MultiBinaryPoint{Values: vals}
}

func (p *MultiBinaryPoint) Eq(other Point) bool {
	o, ok := other.(*MultiBinaryPoint)
	if !ok || len(o.Values) != len(p.Values) {
		return false
	}
	for i := range p.Values {
		if p.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}

func (p *MultiBinaryPoint) Format(s fmt.State, c rune) { fmt.Fprintf(s, "MultiBinary%v", p.Values) }

func (p *MultiBinaryPoint) isPoint() {}
