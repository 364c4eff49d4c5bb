// Package wire defines the flat message shapes exchanged with an external
// trainer. Each message mirrors one space or point kind 1:1, with tagged
// unions for the polymorphic trees. Byte encoding is the transport's concern;
// the structs carry JSON tags so any JSON-speaking peer can use them directly.
package wire

// DimensionMsg is one bounded interval of a box space.
type DimensionMsg struct {
	Low  float32 `json:"low"`
	High float32 `json:"high"`
}

// SpaceMsg is a tagged union over the space kinds. Exactly one arm is set.
type SpaceMsg struct {
	Box           *BoxSpaceMsg           `json:"box_space,omitempty"`
	Discrete      *DiscreteSpaceMsg      `json:"discrete_space,omitempty"`
	MultiBinary   *MultiBinarySpaceMsg   `json:"multi_binary_space,omitempty"`
	MultiDiscrete *MultiDiscreteSpaceMsg `json:"multi_discrete_space,omitempty"`
	Dict          *DictSpaceMsg          `json:"dict_space,omitempty"`
}

type BoxSpaceMsg struct {
	Dimensions []DimensionMsg `json:"dimensions"`
	Shape      []int          `json:"shape_dimensions,omitempty"`
}

type DiscreteSpaceMsg struct {
	High int `json:"high"`
}

type MultiBinarySpaceMsg struct {
	Shape int `json:"shape"`
}

type MultiDiscreteSpaceMsg struct {
	High []int `json:"high"`
}

type DictSpaceMsg struct {
	Spaces map[string]*SpaceMsg `json:"spaces"`
}

// PointMsg is a tagged union over the point kinds. Exactly one arm is set.
type PointMsg struct {
	Box           *BoxPointMsg           `json:"box_point,omitempty"`
	Discrete      *DiscretePointMsg      `json:"discrete_point,omitempty"`
	MultiBinary   *MultiBinaryPointMsg   `json:"multi_binary_point,omitempty"`
	MultiDiscrete *MultiDiscretePointMsg `json:"multi_discrete_point,omitempty"`
	Dict          *DictPointMsg          `json:"dict_point,omitempty"`
}

type BoxPointMsg struct {
	Values []float32 `json:"values"`
	Shape  []int     `json:"shape,omitempty"`
}

type DiscretePointMsg struct {
	Value int `json:"value"`
}

type MultiBinaryPointMsg struct {
	Values []bool `json:"values"`
}

type MultiDiscretePointMsg struct {
	Values []int `json:"values"`
}

type DictPointMsg struct {
	Values map[string]*PointMsg `json:"values"`
}

func (m *SpaceMsg) arms() int {
	n := 0
	if m.Box != nil {
		n++
	}
	if m.Discrete != nil {
		n++
	}
	if m.MultiBinary != nil {
		n++
	}
	if m.MultiDiscrete != nil {
		n++
	}
	if m.Dict != nil {
		n++
	}
	return n
}

func (m *PointMsg) arms() int {
	n := 0
	if m.Box != nil {
		n++
	}
	if m.Discrete != nil {
		n++
	}
	if m.MultiBinary != nil {
		n++
	}
	if m.MultiDiscrete != nil {
		n++
	}
	if m.Dict != nil {
		n++
	}
	return n
}
