package infer

import (
	"bytes"
	"log"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/gorgonia/ops/nn"
	"gorgonia.org/tensor"
)

var Float = G.Float32

const (
	obsTensorName    = "obs"
	actionTensorName = "action"
)

type maebe struct {
	err error
}

// generic monad... may be useful
func (m *maebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) linear(input *G.Node, units int, name string) *G.Node {
	if m.err != nil {
		return nil
	}
	w := G.NewTensor(input.Graph(), Float, 2,
		G.WithShape(input.Shape()[1], units),
		G.WithInit(G.GlorotN(1.0)),
		G.WithName(name+"_w"))
	xw := m.do(func() (*G.Node, error) { return G.Mul(input, w) })
	if m.err != nil {
		return nil
	}
	b := G.NewTensor(xw.Graph(), Float, xw.Shape().Dims(),
		G.WithShape(xw.Shape().Clone()...),
		G.WithInit(G.Zeroes()),
		G.WithName(name+"_b"))
	return m.do(func() (*G.Node, error) { return G.Add(xw, b) })
}

func (m *maebe) rectify(input *G.Node) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = nnops.Rectify(input); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// Network is a small feed-forward net mapping a flattened observation to
// one logit per action slot: a single rectified hidden layer between input
// and output. It satisfies Model, so NNPolicy can drive it like any other
// engine.
type Network struct {
	obsSize int
	actSize int
	hidden  int

	g      *G.ExprGraph
	obs    *G.Node
	out    *G.Node
	outVal G.Value

	m     G.VM
	input *tensor.Dense
	buf   *bytes.Buffer
}

// NewNetwork builds and initializes the graph. A hidden size of zero or
// less picks one from the observation and action sizes. With toLog set the
// machine traces every op into the buffer read back by ExecLog.
func NewNetwork(obsSize, actSize, hidden int, toLog bool) (*Network, error) {
	if obsSize <= 0 || actSize <= 0 {
		return nil, errors.Errorf("infer: cannot build a %d in, %d out network", obsSize, actSize)
	}
	if hidden <= 0 {
		hidden = defaultHidden(obsSize, actSize)
	}

	n := &Network{
		obsSize: obsSize,
		actSize: actSize,
		hidden:  hidden,
		g:       G.NewGraph(),
		input:   tensor.New(tensor.WithShape(1, obsSize), tensor.Of(Float)),
		buf:     new(bytes.Buffer),
	}

	var m maebe
	n.obs = G.NewMatrix(n.g, Float, G.WithShape(1, obsSize), G.WithName(obsTensorName))
	hiddenOut := m.rectify(m.linear(n.obs, hidden, "Hidden"))
	n.out = m.linear(hiddenOut, actSize, "Action")
	if m.err != nil {
		return nil, m.err
	}
	G.Read(n.out, &n.outVal)

	if toLog {
		logger := log.New(n.buf, "", 0)
		n.m = G.NewTapeMachine(n.g,
			G.WithLogger(logger),
			G.WithWatchlist(),
			G.TraceExec(),
			G.WithValueFmt("%+1.1v"),
			G.WithNaNWatch(),
		)
	} else {
		n.m = G.NewTapeMachine(n.g)
	}
	return n, nil
}

func defaultHidden(obsSize, actSize int) int {
	h := int(math32.Sqrt(float32(obsSize * actSize)))
	if h < 8 {
		h = 8
	}
	return h
}

func (n *Network) Inputs() []TensorDesc {
	return []TensorDesc{{Name: obsTensorName, Shape: []int{1, n.obsSize}}}
}

func (n *Network) Outputs() []TensorDesc {
	return []TensorDesc{{Name: actionTensorName, Shape: []int{1, n.actSize}}}
}

// Run copies the bound input into the graph, executes the tape, and copies
// the logits out through the bound output view.
func (n *Network) Run(inputs, outputs []Binding) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return errors.Errorf("infer: network takes 1 input and 1 output binding, got %d and %d", len(inputs), len(outputs))
	}
	in, ok := inputs[0].Tensor.Data().([]float32)
	if !ok {
		return errors.Errorf("infer: input binding %q is not float32 backed", inputs[0].Name)
	}
	if len(in) != n.obsSize {
		return errors.Errorf("infer: input binding holds %d values, network wants %d", len(in), n.obsSize)
	}

	n.buf.Reset()
	n.input.Zero()
	copy(n.input.Data().([]float32), in)

	n.m.Reset()
	if err := G.Let(n.obs, n.input); err != nil {
		return errors.WithStack(err)
	}
	if err := n.m.RunAll(); err != nil {
		return errors.WithStack(err)
	}

	logits, ok := n.outVal.Data().([]float32)
	if !ok {
		return errors.New("infer: network produced no float32 logits")
	}
	out, ok := outputs[0].Tensor.Data().([]float32)
	if !ok {
		return errors.Errorf("infer: output binding %q is not float32 backed", outputs[0].Name)
	}
	if len(logits) < len(out) {
		return errors.Errorf("infer: network produced %d logits for a %d slot binding", len(logits), len(out))
	}
	copy(out, logits[:len(out)])
	return nil
}

// ExecLog returns the machine's execution trace. It is empty unless the
// network was built with logging on.
func (n *Network) ExecLog() string { return n.buf.String() }

func (n *Network) Close() error { return n.m.Close() }
