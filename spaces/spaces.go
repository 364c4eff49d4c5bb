// Package spaces provides the typed observation and action space system: five
// space kinds (Box, Discrete, MultiBinary, MultiDiscrete and the recursive Dict)
// with matching point kinds, validation, normalization and visitor dispatch.
//
// The two variant sets are closed. Cross-cutting operations (allocation,
// sampling, serialization, buffer conversion) are added by writing a new
// visitor, not by growing the interfaces.
package spaces

import "fmt"

// ValidationResult reports whether a Point conforms to a Space.
type ValidationResult uint8

const (
	Success ValidationResult = iota
	WrongDimensions
	OutOfBounds
	WrongDataType
)

func (v ValidationResult) String() string {
	switch v {
	case Success:
		return "Success"
	case WrongDimensions:
		return "WrongDimensions"
	case OutOfBounds:
		return "OutOfBounds"
	case WrongDataType:
		return "WrongDataType"
	}
	return fmt.Sprintf("ValidationResult(%d)", uint8(v))
}

// Space describes the valid shape and range of an observation or an action.
// A Space is immutable once an agent's interaction definition is established.
type Space interface {
	// NumDimensions is the number of logical dimensions of the space.
	NumDimensions() int
	// IsEmpty returns true when the space constrains nothing.
	IsEmpty() bool
	// FlattenedSize is the total scalar count when the space is flattened
	// into a tensor.
	FlattenedSize() int
	// Validate checks a point against this space. Checks run in a fixed
	// order: kind, then dimensions, then bounds.
	Validate(Point) ValidationResult
	// Accept dispatches to the visitor method matching this space's kind.
	Accept(SpaceVisitor)
	Clone() Space
	Eq(Space) bool

	isSpace()
}

// Point is a concrete value that may or may not conform to a Space.
type Point interface {
	// Accept dispatches to the visitor method matching this point's kind.
	Accept(PointVisitor)
	Clone() Point
	Eq(Point) bool

	isPoint()
}

// SpaceVisitor is the dispatch target for the closed set of space kinds.
// A sixth kind would break every visitor at compile time, which is the point.
type SpaceVisitor interface {
	VisitBox(*Box)
	VisitDiscrete(*Discrete)
	VisitMultiBinary(*MultiBinary)
	VisitMultiDiscrete(*MultiDiscrete)
	VisitDict(*Dict)
}

// PointVisitor is the dispatch target for the closed set of point kinds.
type PointVisitor interface {
	VisitBoxPoint(*BoxPoint)
	VisitDiscretePoint(*DiscretePoint)
	VisitMultiBinaryPoint(*MultiBinaryPoint)
	VisitMultiDiscretePoint(*MultiDiscretePoint)
	VisitDictPoint(*DictPoint)
}
