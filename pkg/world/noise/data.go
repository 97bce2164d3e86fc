package noise

// Data is a precomputed row-major scalar field. It is read-only after
// creation and shared by every chunk generation call.
type Data struct {
	width  int
	height int
	values []float32
}

// NewData wraps values as a width x height field.
func NewData(width, height int, values []float32) *Data {
	return &Data{width: width, height: height, values: values}
}

// CreateWorldNoiseData samples FBM over a width x height grid at the given
// base frequency with DefaultOctaves octaves.
func CreateWorldNoiseData(pt *Permutation, width, height int, frequency float32) *Data {
	return CreateNoiseData(pt, width, height, frequency, DefaultOctaves)
}

// CreateNoiseData is CreateWorldNoiseData with an explicit octave count. The
// period is width*frequency lattice cells, so the field tiles seamlessly when
// that product is an integer.
func CreateNoiseData(pt *Permutation, width, height int, frequency float32, octaves int) *Data {
	values := make([]float32, 0, width*height)
	period := int(float32(width) * frequency)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			values = append(values, pt.FBM(float32(x)*frequency, float32(y)*frequency, period, octaves))
		}
	}
	return NewData(width, height, values)
}

// Width returns the tile width.
func (d *Data) Width() int { return d.width }

// Height returns the tile height.
func (d *Data) Height() int { return d.height }

// At returns the sample for world coordinates (x, z), wrapped into the tile.
// It reports false when the field holds no sample there.
func (d *Data) At(x, z int) (float32, bool) {
	if d == nil || d.width <= 0 || d.height <= 0 {
		return 0, false
	}
	idx := mod(z, d.height)*d.width + mod(x, d.width)
	if idx >= len(d.values) {
		return 0, false
	}
	return d.values[idx], true
}
