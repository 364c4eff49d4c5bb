package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/agora/spaces"
)

func TestBindDictByName(t *testing.T) {
	assert := assert.New(t)
	space := spaces.NewDict().
		Add("position", spaces.NewBox(-1, 1, 3)).
		Add("mode", spaces.NewDiscrete(4))
	buf := Alloc(space)

	descs := []TensorDesc{
		{Name: "position", Shape: []int{1, 3}},
		{Name: "mode", Shape: []int{1, 4}},
	}
	bindings := make([]Binding, len(descs))
	c := NewBindingCreator(descs, bindings)
	c.Bind(buf)

	assert.False(c.Failed())
	assert.Equal("position", bindings[0].Name)
	assert.Equal("mode", bindings[1].Name)
	assert.Equal(3, bindings[0].Tensor.Shape().TotalSize())
	assert.Equal(4, bindings[1].Tensor.Shape().TotalSize())

	// The binding views the live buffer, not a copy.
	pos, _ := buf.(*DictBuffer).Get("position")
	bindings[0].Tensor.Data().([]float32)[0] = 5
	assert.Equal(float32(5), pos.(*BoxBuffer).Data[0])
}

func TestBindBareBuffer(t *testing.T) {
	assert := assert.New(t)
	buf := Alloc(spaces.NewBox(-1, 1, 2))

	descs := []TensorDesc{{Name: "obs", Shape: []int{1, 2}}}
	bindings := make([]Binding, 1)
	c := NewBindingCreator(descs, bindings)
	c.Bind(buf)

	assert.False(c.Failed())
	assert.Equal("obs", bindings[0].Name)
	assert.NotNil(bindings[0].Tensor)
}

func TestBindSkipsStateDescs(t *testing.T) {
	assert := assert.New(t)
	space := spaces.NewDict().Add("position", spaces.NewBox(-1, 1, 3))
	buf := Alloc(space)

	descs := []TensorDesc{
		{Name: "state_in_0", Shape: []int{1, 4, 8}},
		{Name: "position", Shape: []int{1, 3}},
	}
	bindings := make([]Binding, len(descs))
	c := NewBindingCreator(descs, bindings)
	c.Bind(buf)

	assert.False(c.Failed())
	assert.Nil(bindings[0].Tensor)
	assert.Equal("position", bindings[1].Name)
}

func TestBindBareBufferSkipsStateDescs(t *testing.T) {
	assert := assert.New(t)
	buf := Alloc(spaces.NewBox(-1, 1, 2))

	descs := []TensorDesc{
		{Name: "state_in_0", Shape: []int{1, 4, 8}},
		{Name: "obs", Shape: []int{1, 2}},
	}
	bindings := make([]Binding, len(descs))
	c := NewBindingCreator(descs, bindings)
	c.Bind(buf)

	assert.False(c.Failed())
	assert.Nil(bindings[0].Tensor)
	assert.Equal("obs", bindings[1].Name)
	assert.NotNil(bindings[1].Tensor)
}

func TestBindMissingBufferFails(t *testing.T) {
	space := spaces.NewDict().Add("position", spaces.NewBox(-1, 1, 3))
	buf := Alloc(space)

	descs := []TensorDesc{{Name: "velocity", Shape: []int{1, 3}}}
	c := NewBindingCreator(descs, make([]Binding, 1))
	c.Bind(buf)

	if !c.Failed() {
		t.Fatal("expected the bind to fail on the unknown tensor name")
	}
}

func TestBindTooFewSlotsFails(t *testing.T) {
	space := spaces.NewDict().
		Add("a", spaces.NewDiscrete(2)).
		Add("b", spaces.NewDiscrete(2))
	buf := Alloc(space)

	descs := []TensorDesc{
		{Name: "a", Shape: []int{1, 2}},
		{Name: "b", Shape: []int{1, 2}},
	}
	c := NewBindingCreator(descs, make([]Binding, 1))
	c.Bind(buf)

	if !c.Failed() {
		t.Fatal("expected the bind to fail when slots run out")
	}
}

func TestTensorDescIsState(t *testing.T) {
	assert := assert.New(t)
	assert.True(TensorDesc{Name: "state_in_0"}.IsState())
	assert.True(TensorDesc{Name: "state_out_1"}.IsState())
	assert.False(TensorDesc{Name: "obs"}.IsState())
	assert.False(TensorDesc{Name: "statement"}.IsState())
}
