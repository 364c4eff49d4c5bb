package wire

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/gorgonia/agora/spaces"
)

// FromSpace converts a space tree into its wire message. One visit fills one
// union arm; Dict recurses through its children by key.
func FromSpace(s spaces.Space) *SpaceMsg {
	var w spaceWriter
	s.Accept(&w)
	return w.msg
}

// ToSpace rebuilds a space tree from a wire message. A message with zero or
// more than one union arm set is rejected. Dict children are inserted in
// sorted key order, since the map on the wire carries none.
func ToSpace(m *SpaceMsg) (spaces.Space, error) {
	if m == nil {
		return nil, errors.New("wire: nil space message")
	}
	if n := m.arms(); n > 1 {
		return nil, errors.Errorf("wire: space message sets %d arms", n)
	}
	switch {
	case m.Box != nil:
		dims := make([]spaces.Dimension, len(m.Box.Dimensions))
		for i, d := range m.Box.Dimensions {
			dims[i] = spaces.Dimension{Low: d.Low, High: d.High}
		}
		return &spaces.Box{Dims: dims, Shape: append([]int(nil), m.Box.Shape...)}, nil
	case m.Discrete != nil:
		return &spaces.Discrete{High: m.Discrete.High}, nil
	case m.MultiBinary != nil:
		return &spaces.MultiBinary{Shape: m.MultiBinary.Shape}, nil
	case m.MultiDiscrete != nil:
		return &spaces.MultiDiscrete{High: append([]int(nil), m.MultiDiscrete.High...)}, nil
	case m.Dict != nil:
		keys := make([]string, 0, len(m.Dict.Spaces))
		for k := range m.Dict.Spaces {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := spaces.NewDict()
		for _, k := range keys {
			sub, err := ToSpace(m.Dict.Spaces[k])
			if err != nil {
				return nil, errors.Wrapf(err, "dict key %q", k)
			}
			d.Add(k, sub)
		}
		return d, nil
	default:
		return nil, errors.New("wire: space message has no arm set")
	}
}

// FromPoint converts a point tree into its wire message.
func FromPoint(p spaces.Point) *PointMsg {
	var w pointWriter
	p.Accept(&w)
	return w.msg
}

// ToPoint rebuilds a point tree from a wire message, with the same union-arm
// discipline as ToSpace.
func ToPoint(m *PointMsg) (spaces.Point, error) {
	if m == nil {
		return nil, errors.New("wire: nil point message")
	}
	if n := m.arms(); n > 1 {
		return nil, errors.Errorf("wire: point message sets %d arms", n)
	}
	switch {
	case m.Box != nil:
		return &spaces.BoxPoint{
			Values: append([]float32(nil), m.Box.Values...),
			Shape:  append([]int(nil), m.Box.Shape...),
		}, nil
	case m.Discrete != nil:
		return &spaces.DiscretePoint{Value: m.Discrete.Value}, nil
	case m.MultiBinary != nil:
		return &spaces.MultiBinaryPoint{Values: append([]bool(nil), m.MultiBinary.Values...)}, nil
	case m.MultiDiscrete != nil:
		return &spaces.MultiDiscretePoint{Values: append([]int(nil), m.MultiDiscrete.Values...)}, nil
	case m.Dict != nil:
		keys := make([]string, 0, len(m.Dict.Values))
		for k := range m.Dict.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := spaces.NewDictPoint()
		for _, k := range keys {
			sub, err := ToPoint(m.Dict.Values[k])
			if err != nil {
				return nil, errors.Wrapf(err, "dict key %q", k)
			}
			d.Add(k, sub)
		}
		return d, nil
	default:
		return nil, errors.New("wire: point message has no arm set")
	}
}

type spaceWriter struct {
	msg *SpaceMsg
}

func (w *spaceWriter) VisitBox(s *spaces.Box) {
	dims := make([]DimensionMsg, len(s.Dims))
	for i, d := range s.Dims {
		dims[i] = DimensionMsg{Low: d.Low, High: d.High}
	}
	w.msg = &SpaceMsg{Box: &BoxSpaceMsg{
		Dimensions: dims,
		Shape:      append([]int(nil), s.Shape...),
	}}
}

func (w *spaceWriter) VisitDiscrete(s *spaces.Discrete) {
	w.msg = &SpaceMsg{Discrete: &DiscreteSpaceMsg{High: s.High}}
}

func (w *spaceWriter) VisitMultiBinary(s *spaces.MultiBinary) {
	w.msg = &SpaceMsg{MultiBinary: &MultiBinarySpaceMsg{Shape: s.Shape}}
}

func (w *spaceWriter) VisitMultiDiscrete(s *spaces.MultiDiscrete) {
	w.msg = &SpaceMsg{MultiDiscrete: &MultiDiscreteSpaceMsg{High: append([]int(nil), s.High...)}}
}

func (w *spaceWriter) VisitDict(s *spaces.Dict) {
	sub := make(map[string]*SpaceMsg, s.Len())
	for _, k := range s.Keys() {
		child, _ := s.Get(k)
		sub[k] = FromSpace(child)
	}
	w.msg = &SpaceMsg{Dict: &DictSpaceMsg{Spaces: sub}}
}

type pointWriter struct {
	msg *PointMsg
}

func (w *pointWriter) VisitBoxPoint(p *spaces.BoxPoint) {
	w.msg = &PointMsg{Box: &BoxPointMsg{
		Values: append([]float32(nil), p.Values...),
		Shape:  append([]int(nil), p.Shape...),
	}}
}

func (w *pointWriter) VisitDiscretePoint(p *spaces.DiscretePoint) {
	w.msg = &PointMsg{Discrete: &DiscretePointMsg{Value: p.Value}}
}

func (w *pointWriter) VisitMultiBinaryPoint(p *spaces.MultiBinaryPoint) {
	w.msg = &PointMsg{MultiBinary: &MultiBinaryPointMsg{Values: append([]bool(nil), p.Values...)}}
}

func (w *pointWriter) VisitMultiDiscretePoint(p *spaces.MultiDiscretePoint) {
	w.msg = &PointMsg{MultiDiscrete: &MultiDiscretePointMsg{Values: append([]int(nil), p.Values...)}}
}

func (w *pointWriter) VisitDictPoint(p *spaces.DictPoint) {
	sub := make(map[string]*PointMsg, p.Len())
	for _, k := range p.Keys() {
		child, _ := p.Get(k)
		sub[k] = FromPoint(child)
	}
	w.msg = &PointMsg{Dict: &DictPointMsg{Values: sub}}
}
