// Package demo generates the random records used by the sieve binary.
package demo

import (
	"math/rand/v2"
	"strconv"

	"github.com/zoobzio/sieve"
)

// Colors is the palette records are colored from.
var Colors = []string{
	"maroon", "red", "orange", "yellow", "olive", "green", "purple",
	"fuchsia", "lime", "teal", "aqua", "blue", "navy", "black", "gray",
}

// Names is the pool of first names records are built from.
var Names = []string{
	"Maia", "Asher", "Olivia", "Atticus", "Amelia", "Jack",
	"Charlotte", "Theodore", "Isla", "Oliver", "Isabella", "Jasper",
	"Cora", "Levi", "Violet", "Arthur", "Mia", "Thomas", "Elizabeth",
}

// Generator produces records with a name of the form "First L.", a
// progress between 0 and 100 and a color from Colors. IDs are left empty
// for the Store to assign.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator drawing from src. A nil src uses a randomly
// seeded source.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// Seeded returns a Generator with a fixed seed, for reproducible runs.
func Seeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed))
}

// Produce returns a new random record.
func (g *Generator) Produce() sieve.Record {
	first := Names[g.rng.IntN(len(Names))]
	last := Names[g.rng.IntN(len(Names))]
	return sieve.Record{
		Name:     first + " " + last[:1] + ".",
		Progress: strconv.Itoa(g.rng.IntN(101)),
		Color:    Colors[g.rng.IntN(len(Colors))],
	}
}

var _ sieve.Generator = (*Generator)(nil)
