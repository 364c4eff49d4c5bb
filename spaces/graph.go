package spaces

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// Dot renders the space tree as a Graphviz document, one node per space,
// edges labeled with Dict keys. Useful for eyeballing nested interaction
// definitions.
func Dot(s Space) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("spaces"); err != nil {
		return "", errors.Wrap(err, "dot: set name")
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.Wrap(err, "dot: set dir")
	}
	d := &dotVisitor{g: g}
	s.Accept(d)
	if d.err != nil {
		return "", d.err
	}
	return g.String(), nil
}

type dotVisitor struct {
	g    *gographviz.Graph
	next int
	last string
	err  error
}

func (d *dotVisitor) node(label string) string {
	name := fmt.Sprintf("n%d", d.next)
	d.next++
	attrs := map[string]string{
		"label":    strconv.Quote(label),
		"fontname": "Monaco",
		"shape":    "box",
	}
	if err := d.g.AddNode("spaces", name, attrs); err != nil && d.err == nil {
		d.err = errors.Wrapf(err, "dot: add node %s", name)
	}
	d.last = name
	return name
}

func (d *dotVisitor) VisitBox(s *Box) {
	label := s.String()
	if len(s.Dims) > 0 {
		label = fmt.Sprintf("%v [%g, %g]", s, s.Dims[0].Low, s.Dims[0].High)
	}
	d.node(label)
}

func (d *dotVisitor) VisitDiscrete(s *Discrete) { d.node(s.String()) }

func (d *dotVisitor) VisitMultiBinary(s *MultiBinary) { d.node(s.String()) }

func (d *dotVisitor) VisitMultiDiscrete(s *MultiDiscrete) { d.node(s.String()) }

func (d *dotVisitor) VisitDict(s *Dict) {
	parent := d.node(fmt.Sprintf("Dict(%d)", s.Len()))
	for _, k := range s.Keys() {
		sub, _ := s.Get(k)
		sub.Accept(d)
		if err := d.g.AddEdge(parent, d.last, true, map[string]string{"label": strconv.Quote(k)}); err != nil && d.err == nil {
			d.err = errors.Wrapf(err, "dot: add edge %s", k)
		}
	}
	d.last = parent
}
