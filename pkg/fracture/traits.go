package fracture

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// GeneticTraits carries the heritable modifiers of a fragment lineage.
// Each offspring receives its own independently mutated copy; siblings
// never share a traits value.
type GeneticTraits struct {
	SpeedModifier float64
	SizeModifier  float64
	MassModifier  float64
	ColorShift    int
	Generation    int
}

// DefaultTraits returns generation-zero traits with neutral modifiers.
func DefaultTraits() GeneticTraits {
	return GeneticTraits{
		SpeedModifier: 1.0,
		SizeModifier:  1.0,
		MassModifier:  1.0,
	}
}

// evolve produces an offspring's traits from a parent's. Speed jitters
// by up to 10%, size and mass by up to 5%, hue by up to 5 degrees.
func evolve(parent GeneticTraits, src rand.Source, rng *rand.Rand) GeneticTraits {
	speedJitter := distuv.Uniform{Min: 0.9, Max: 1.1, Src: src}
	bodyJitter := distuv.Uniform{Min: 0.95, Max: 1.05, Src: src}

	return GeneticTraits{
		SpeedModifier: parent.SpeedModifier * speedJitter.Rand(),
		SizeModifier:  parent.SizeModifier * bodyJitter.Rand(),
		MassModifier:  parent.MassModifier * bodyJitter.Rand(),
		ColorShift:    ((parent.ColorShift+rng.Intn(11)-5)%360 + 360) % 360,
		Generation:    parent.Generation + 1,
	}
}

// applyHueShift rotates an RGB color by a hue shift in degrees. This is
// a channel-weighted approximation rather than a true HSV rotation.
func applyHueShift(color [3]uint8, hueShift int) [3]uint8 {
	factor := float64(hueShift) / 360.0
	return [3]uint8{
		uint8(int(float64(color[0])+factor*50) % 256),
		uint8(((int(float64(color[1])-factor*25) % 256) + 256) % 256),
		uint8(int(float64(color[2])+factor*75) % 256),
	}
}
