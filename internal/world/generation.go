// Placement of environment objects on the grid.
// Uniform placement draws each axis independently; clustered placement
// samples a layered simplex density field so resources bunch together.
package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/catsim/internal/entropy"
)

// Placement selects how generated objects are scattered.
type Placement string

const (
	PlacementUniform   Placement = "uniform"
	PlacementClustered Placement = "clustered"
)

// maxClusterTries bounds rejection sampling against the density field.
const maxClusterTries = 32

// DensityField is a normalized noise map over the grid in [0, 1].
type DensityField struct {
	noise     opensimplex.Noise
	frequency float64
	octaves   int
}

// NewDensityField builds a field from a seed. The same seed always yields
// the same field.
func NewDensityField(seed int64) *DensityField {
	return &DensityField{
		noise:     opensimplex.NewNormalized(seed),
		frequency: 0.15,
		octaves:   3,
	}
}

// At returns the density at a cell.
func (f *DensityField) At(p Position) float64 {
	return octaveNoise(f.noise, float64(p.X), float64(p.Y), f.octaves, f.frequency, 0.5)
}

// RandomPosition draws a uniformly random cell, X first then Y.
func RandomPosition(g Grid, rng entropy.Rand) Position {
	x := rng.IntN(g.Size)
	y := rng.IntN(g.Size)
	return Position{X: x, Y: y}
}

// SamplePosition draws a cell weighted by the field. Candidates are accepted
// with probability equal to their density; after maxClusterTries rejections
// the last candidate is used. A nil field is uniform.
func SamplePosition(g Grid, rng entropy.Rand, field *DensityField) Position {
	p := RandomPosition(g, rng)
	if field == nil {
		return p
	}
	for i := 0; i < maxClusterTries; i++ {
		if rng.Float64() < field.At(p) {
			return p
		}
		p = RandomPosition(g, rng)
	}
	return p
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
