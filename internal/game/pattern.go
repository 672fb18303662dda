package game

import (
	"math/rand/v2"
	"strings"
)

// PatternLength is the number of colors in every Pattern.
const PatternLength = 4

// Pattern is the target sequence the player has to reproduce.
type Pattern [PatternLength]Color

// String returns the colors of the pattern joined by dashes.
func (p Pattern) String() string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.String()
	}
	return strings.Join(names, "-")
}

// PatternGenerator produces random patterns. It is not safe for concurrent
// use.
type PatternGenerator struct {
	rng *rand.Rand
}

// NewPatternGenerator creates a generator seeded with seed. The same seed
// always produces the same sequence of patterns.
func NewPatternGenerator(seed uint64) *PatternGenerator {
	return &PatternGenerator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Generate returns a new pattern of independent, uniformly drawn colors.
// Repeats are allowed.
func (g *PatternGenerator) Generate() Pattern {
	var p Pattern
	for i := range p {
		p[i] = PatternColors[g.rng.IntN(len(PatternColors))]
	}
	return p
}
