package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gorgonia/agora/spaces"
)

func sampleSpaces() map[string]spaces.Space {
	return map[string]spaces.Space{
		"box":           spaces.NewBox(-500, 500, 3),
		"discrete":      &spaces.Discrete{High: 7},
		"multibinary":   &spaces.MultiBinary{Shape: 4},
		"multidiscrete": spaces.NewMultiDiscrete(3, 5, 2),
		"dict": spaces.NewDict().
			Add("obs", spaces.NewBox(0, 1, 2)).
			Add("flags", &spaces.MultiBinary{Shape: 3}).
			Add("nested", spaces.NewDict().Add("d", &spaces.Discrete{High: 4})),
	}
}

func samplePoints() map[string]spaces.Point {
	return map[string]spaces.Point{
		"box":           &spaces.BoxPoint{Values: []float32{1.5, -2, 499.25}},
		"discrete":      &spaces.DiscretePoint{Value: 5},
		"multibinary":   &spaces.MultiBinaryPoint{Values: []bool{true, false, true}},
		"multidiscrete": &spaces.MultiDiscretePoint{Values: []int{1, 4, 0}},
		"dict": spaces.NewDictPoint().
			Add("obs", &spaces.BoxPoint{Values: []float32{0.25, 0.75}}).
			Add("flags", &spaces.MultiBinaryPoint{Values: []bool{false, true, false}}).
			Add("nested", spaces.NewDictPoint().Add("d", &spaces.DiscretePoint{Value: 2})),
	}
}

func TestSpaceRoundTrip(t *testing.T) {
	for name, s := range sampleSpaces() {
		got, err := ToSpace(FromSpace(s))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !got.Eq(s) {
			t.Errorf("%s: round trip changed the space: %v != %v", name, got, s)
		}
	}
}

func TestPointRoundTrip(t *testing.T) {
	for name, p := range samplePoints() {
		got, err := ToPoint(FromPoint(p))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !got.Eq(p) {
			t.Errorf("%s: round trip changed the point: %v != %v", name, got, p)
		}
	}
}

// Zero values of every space survive the trip too.
func TestZeroPointRoundTrip(t *testing.T) {
	for name, s := range sampleSpaces() {
		p := spaces.Zero(s)
		got, err := ToPoint(FromPoint(p))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !got.Eq(p) {
			t.Errorf("%s: round trip changed the point: %v != %v", name, got, p)
		}
	}
}

func TestRoundTripThroughJSON(t *testing.T) {
	for name, p := range samplePoints() {
		msg := FromPoint(p)
		raw, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var decoded PointMsg
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff(msg, &decoded); diff != "" {
			t.Errorf("%s: message changed across JSON (-want +got):\n%s", name, diff)
		}
		got, err := ToPoint(&decoded)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !got.Eq(p) {
			t.Errorf("%s: JSON round trip changed the point: %v != %v", name, got, p)
		}
	}
	for name, s := range sampleSpaces() {
		msg := FromSpace(s)
		raw, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var decoded SpaceMsg
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := ToSpace(&decoded)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !got.Eq(s) {
			t.Errorf("%s: JSON round trip changed the space: %v != %v", name, got, s)
		}
	}
}

// The wire names are the contract with the trainer. Pin a couple of them.
func TestFieldNames(t *testing.T) {
	raw, err := json.Marshal(FromPoint(&spaces.DiscretePoint{Value: 3}))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"discrete_point":{"value":3}}` {
		t.Errorf("unexpected encoding: %s", raw)
	}

	raw, err = json.Marshal(FromSpace(&spaces.Discrete{High: 7}))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"discrete_space":{"high":7}}` {
		t.Errorf("unexpected encoding: %s", raw)
	}
}

// Dict wire entries are a map; insertion order on the sending side must not
// matter to equality after decoding.
func TestDictKeyOrderIrrelevant(t *testing.T) {
	a := spaces.NewDictPoint().
		Add("x", &spaces.DiscretePoint{Value: 1}).
		Add("y", &spaces.DiscretePoint{Value: 2})
	b := spaces.NewDictPoint().
		Add("y", &spaces.DiscretePoint{Value: 2}).
		Add("x", &spaces.DiscretePoint{Value: 1})

	if diff := cmp.Diff(FromPoint(a), FromPoint(b)); diff != "" {
		t.Errorf("insertion order leaked into the wire message:\n%s", diff)
	}
	got, err := ToPoint(FromPoint(b))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Eq(a) {
		t.Errorf("decoded point not equal across key orders: %v != %v", got, a)
	}
}

func TestToPointRejectsBadUnions(t *testing.T) {
	if _, err := ToPoint(nil); err == nil {
		t.Error("expected error for nil message")
	}
	if _, err := ToPoint(&PointMsg{}); err == nil {
		t.Error("expected error for empty union")
	}
	two := &PointMsg{
		Discrete: &DiscretePointMsg{Value: 1},
		Box:      &BoxPointMsg{Values: []float32{1}},
	}
	if _, err := ToPoint(two); err == nil {
		t.Error("expected error for double-armed union")
	}
	bad := &PointMsg{Dict: &DictPointMsg{Values: map[string]*PointMsg{"k": {}}}}
	if _, err := ToPoint(bad); err == nil {
		t.Error("expected error for bad nested message")
	}
}

func TestToSpaceRejectsBadUnions(t *testing.T) {
	if _, err := ToSpace(nil); err == nil {
		t.Error("expected error for nil message")
	}
	if _, err := ToSpace(&SpaceMsg{}); err == nil {
		t.Error("expected error for empty union")
	}
	two := &SpaceMsg{
		Discrete: &DiscreteSpaceMsg{High: 3},
		Box:      &BoxSpaceMsg{Dimensions: []DimensionMsg{{0, 1}}},
	}
	if _, err := ToSpace(two); err == nil {
		t.Error("expected error for double-armed union")
	}
}
