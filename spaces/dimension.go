package spaces

// Dimension is a single continuous interval. The zero value is the degenerate
// interval [0, 0].
type Dimension struct {
	Low  float32
	High float32
}

// Dim is a convenience constructor.
func Dim(low, high float32) Dimension { return Dimension{Low: low, High: high} }

// Normalize maps v from [Low, High] onto [0, 1]. When High == Low the division
// yields NaN or Inf per IEEE 754; no guard is applied and the value propagates.
func (d Dimension) Normalize(v float32) float32 {
	return (v - d.Low) / (d.High - d.Low)
}

// Rescale maps a normalized value from [0, 1] back onto [Low, High].
func (d Dimension) Rescale(norm float32) float32 {
	return norm*(d.High-d.Low) + d.Low
}

// RescaleFrom maps v from [oldLow, oldHigh] directly onto [Low, High].
func (d Dimension) RescaleFrom(v, oldLow, oldHigh float32) float32 {
	return d.Rescale((v - oldLow) / (oldHigh - oldLow))
}

// Eq returns true if both dimensions have exactly equal bounds.
func (d Dimension) Eq(other Dimension) bool { return d == other }
