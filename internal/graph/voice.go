package graph

import "github.com/cbegin/soundscape-go/internal/effects"

// Branch is a group of sources summed into one effect chain.
type Branch struct {
	Sources []Source
	Chain   *effects.Chain
}

// Voice is a short-lived subgraph feeding the mix bus. It is silent before
// Start and is dropped by the context once the clock reaches Stop. Nothing
// holds on to a voice after it has been scheduled.
type Voice struct {
	Name        string
	Start, Stop float64
	branches    []Branch
}

// NewVoice returns an empty voice sounding from start until stop.
func NewVoice(name string, start, stop float64) *Voice {
	return &Voice{Name: name, Start: start, Stop: stop}
}

// Add appends a branch: the sources are summed and run through chain.
// A nil chain passes the sum through unchanged.
func (v *Voice) Add(chain *effects.Chain, sources ...Source) *Voice {
	if chain == nil {
		chain = effects.NewChain()
	}
	v.branches = append(v.branches, Branch{Sources: sources, Chain: chain})
	return v
}

// Branches exposes the voice wiring for inspection.
func (v *Voice) Branches() []Branch { return v.branches }

// Sounding reports whether t falls inside [Start, Stop).
func (v *Voice) Sounding(t float64) bool {
	return t >= v.Start && t < v.Stop
}

// Render produces the voice's sample at t. Callers only render while the
// voice is sounding so sources advance from their first sample.
func (v *Voice) Render(t float64) float64 {
	var out float64
	for _, b := range v.branches {
		var sum float64
		for _, s := range b.Sources {
			sum += s.Next(t)
		}
		out += b.Chain.Process(t, sum)
	}
	return out
}
