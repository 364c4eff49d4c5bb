package spaces

import "fmt"

// Dict is a space of named sub-spaces. Iteration follows insertion order so
// that validation and conversion are deterministic; equality ignores order.
type Dict struct {
	keys []string
	m    map[string]Space
}

func NewDict() *Dict {
	return &Dict{m: make(map[string]Space)}
}

// Add inserts or replaces a sub-space. It returns the Dict for chaining.
func (s *Dict) Add(key string, sub Space) *Dict {
	if _, ok := s.m[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.m[key] = sub
	return s
}

func (s *Dict) Get(key string) (Space, bool) {
	sub, ok := s.m[key]
	return sub, ok
}

// Keys returns the sub-space keys in insertion order.
func (s *Dict) Keys() []string { return s.keys }

func (s *Dict) Len() int { return len(s.keys) }

func (s *Dict) NumDimensions() int {
	total := 0
	for _, k := range s.keys {
		total += s.m[k].NumDimensions()
	}
	return total
}

func (s *Dict) IsEmpty() bool { return len(s.keys) == 0 }

func (s *Dict) FlattenedSize() int {
	total := 0
	for _, k := range s.keys {
		total += s.m[k].FlattenedSize()
	}
	return total
}

// Validate checks every sub-space against the same-keyed sub-point. A missing
// key counts as WrongDimensions. The first failure wins; there is no
// aggregation.
func (s *Dict) Validate(p Point) ValidationResult {
	dp, ok := p.(*DictPoint)
	if !ok {
		return WrongDataType
	}
	for _, k := range s.keys {
		sub, ok := dp.Get(k)
		if !ok {
			return WrongDimensions
		}
		if res := s.m[k].Validate(sub); res != Success {
			return res
		}
	}
	return Success
}

func (s *Dict) Accept(v SpaceVisitor) { v.VisitDict(s) }

func (s *Dict) Clone() Space {
	out := NewDict()
	for _, k := range s.keys {
		out.Add(k, s.m[k].Clone())
	}
	return out
}

func (s *Dict) Eq(other Space) bool {
	o, ok := other.(*Dict)
	if !ok || o.Len() != s.Len() {
		return false
	}
	for _, k := range s.keys {
		sub, ok := o.Get(k)
		if !ok || !s.m[k].Eq(sub) {
			return false
		}
	}
	return true
}

func (s *Dict) String() string { return fmt.Sprintf("Dict%v", s.keys) }

func (s *Dict) isSpace() {}

// DictPoint is a point of named sub-points, mirroring Dict.
type DictPoint struct {
	keys []string
	m    map[string]Point
}

func NewDictPoint() *DictPoint {
	return &DictPoint{m: make(map[string]Point)}
}

// Add inserts or replaces a sub-point. It returns the DictPoint for chaining.
func (p *DictPoint) Add(key string, sub Point) *DictPoint {
	if _, ok := p.m[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.m[key] = sub
	return p
}

func (p *DictPoint) Get(key string) (Point, bool) {
	sub, ok := p.m[key]
	return sub, ok
}

// Keys returns the sub-point keys in insertion order.
func (p *DictPoint) Keys() []string { return p.keys }

func (p *DictPoint) Len() int { return len(p.keys) }

func (p *DictPoint) Accept(v PointVisitor) { v.VisitDictPoint(p) }

func (p *DictPoint) Clone() Point {
	out := NewDictPoint()
	for _, k := range p.keys {
		out.Add(k, p.m[k].Clone())
	}
	return out
}

func (p *DictPoint) Eq(other Point) bool {
	o, ok := other.(*DictPoint)
	if !ok || o.Len() != p.Len() {
		return false
	}
	for _, k := range p.keys {
		sub, ok := o.Get(k)
		if !ok || !p.m[k].Eq(sub) {
			return false
		}
	}
	return true
}

func (p *DictPoint) Format(s fmt.State, c rune) {
	fmt.Fprint(s, "Dict{")
	for i, k := range p.keys {
		if i > 0 {
			fmt.Fprint(s, " ")
		}
		fmt.Fprintf(s, "%s:%v", k, p.m[k])
	}
	fmt.Fprint(s, "}")
}

func (p *DictPoint) isPoint() {}
