package spaces

import (
	"fmt"

	"gorgonia.org/vecf32"
)

// Box is a space of continuous values, one Dimension per entry. Shape is
// either empty (implicitly 1-D) or a multi-dimensional shape whose product
// equals the dimension count.
type Box struct {
	Dims  []Dimension
	Shape []int
}

// NewBox creates a 1-D Box with the given bounds applied to every dimension.
func NewBox(low, high float32, n int) *Box {
	dims := make([]Dimension, n)
	for i := range dims {
		dims[i] = Dimension{Low: low, High: high}
	}
	return &Box{Dims: dims}
}

func (s *Box) NumDimensions() int { return len(s.Dims) }
func (s *Box) IsEmpty() bool      { return len(s.Dims) == 0 }
func (s *Box) FlattenedSize() int { return len(s.Dims) }

func (s *Box) Validate(p Point) ValidationResult {
	bp, ok := p.(*BoxPoint)
	if !ok {
		return WrongDataType
	}
	if len(bp.Values) != len(s.Dims) {
		return WrongDimensions
	}
	for i, v := range bp.Values {
		if v < s.Dims[i].Low || v > s.Dims[i].High {
			return OutOfBounds
		}
	}
	return Success
}

// NormalizeObservation maps every value of p through its dimension's
// Normalize. p must have the same arity as the space.
func (s *Box) NormalizeObservation(p *BoxPoint) *BoxPoint {
	out := make([]float32, len(p.Values))
	lows := make([]float32, len(s.Dims))
	ranges := make([]float32, len(s.Dims))
	for i, d := range s.Dims {
		lows[i] = d.Low
		ranges[i] = d.High - d.Low
	}
	copy(out, p.Values)
	vecf32.Sub(out, lows)
	vecf32.Div(out, ranges)
	return &BoxPoint{Values: out, Shape: cloneInts(p.Shape)}
}

// NormalizedSpace returns a Box of equal arity with every dimension [0, 1].
func (s *Box) NormalizedSpace() *Box {
	dims := make([]Dimension, len(s.Dims))
	for i := range dims {
		dims[i] = Dimension{Low: 0, High: 1}
	}
	return &Box{Dims: dims, Shape: cloneInts(s.Shape)}
}

func (s *Box) Accept(v SpaceVisitor) { v.VisitBox(s) }

func (s *Box) Clone() Space {
	dims := make([]Dimension, len(s.Dims))
	copy(dims, s.Dims)
	return &Box{Dims: dims, Shape: cloneInts(s.Shape)}
}

func (s *Box) Eq(other Space) bool {
	o, ok := other.(*Box)
	if !ok || len(o.Dims) != len(s.Dims) || !intsEq(o.Shape, s.Shape) {
		return false
	}
	for i := range s.Dims {
		if s.Dims[i] != o.Dims[i] {
			return false
		}
	}
	return true
}

func (s *Box) String() string { return fmt.Sprintf("Box(%d)", len(s.Dims)) }

func (s *Box) isSpace() {}

// BoxPoint is a vector of continuous values.
type BoxPoint struct {
	Values []float32
	Shape  []int
}

func (p *BoxPoint) Accept(v PointVisitor) { v.VisitBoxPoint(p) }

func (p *BoxPoint) Clone() Point {
	vals := make([]float32, len(p.Values))
	copy(vals, p.Values)
	return &BoxPoint{Values: vals, Shape: cloneInts(p.Shape)}
}

func (p *BoxPoint) Eq(other Point) bool {
	o, ok := other.(*BoxPoint)
	if !ok || len(o.Values) != len(p.Values) || !intsEq(o.Shape, p.Shape) {
		return false
	}
	for i := range p.Values {
		if p.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}

func (p *BoxPoint) Format(s fmt.State, c rune) { fmt.Fprintf(s, "Box%v", p.Values) }

func (p *BoxPoint) isPoint() {}

func cloneInts(a []int) []int {
	if a == nil {
		return nil
	}
	out := make([]int, len(a))
	copy(out, a)
	return out
}

func intsEq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
