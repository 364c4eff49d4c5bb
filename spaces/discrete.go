package spaces

import "fmt"

// Discrete is a space of a single integer in [0, High).
type Discrete struct {
	High int
}

func NewDiscrete(high int) *Discrete { return &Discrete{High: high} }

func (s *Discrete) NumDimensions() int { return 1 }
func (s *Discrete) IsEmpty() bool      { return s.High == 0 }

// FlattenedSize is High: the tensor form is one slot per category.
func (s *Discrete) FlattenedSize() int { return s.High }

// Validate has no dimension check; a Discrete point is a scalar.
func (s *Discrete) Validate(p Point) ValidationResult {
	dp, ok := p.(*DiscretePoint)
	if !ok {
		return WrongDataType
	}
	if dp.Value < 0 || dp.Value >= s.High {
		return OutOfBounds
	}
	return Success
}

func (s *Discrete) Accept(v SpaceVisitor) { v.VisitDiscrete(s) }
func (s *Discrete) Clone() Space          { return &Discrete{High: s.High} }

func (s *Discrete) Eq(other Space) bool {
	o, ok := other.(*Discrete)
	return ok && o.High == s.High
}

func (s *Discrete) String() string { return fmt.Sprintf("Discrete(%d)", s.High) }

func (s *Discrete) isSpace() {}

// DiscretePoint is a single categorical value.
type DiscretePoint struct {
	Value int
}

func (p *DiscretePoint) Accept(v PointVisitor) { v.VisitDiscretePoint(p) }
func (p *DiscretePoint) Clone() Point          { return &DiscretePoint{Value: p.Value} }

func (p *DiscretePoint) Eq(other Point) bool {
	o, ok := other.(*DiscretePoint)
	return ok && o.Value == p.Value
}

func (p *DiscretePoint) Format(s fmt.State, c rune) { fmt.Fprintf(s, "Discrete(%d)", p.Value) }

func (p *DiscretePoint) isPoint() {}
