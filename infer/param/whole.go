// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import (
	"math"
	"math/rand/v2"

	"github.com/js-arias/selpath/infer/measure"
	"github.com/js-arias/selpath/infer/path"
)

// Path is the whole allele frequency path.
// It proposes new trajectories for windows of the path,
// and it is shared by the parameters
// that change the path.
type Path struct {
	p      *path.Path
	alpha1 *Alpha
	alpha2 *Alpha
	wiener measure.Wiener

	grid int
	dt   float64

	origin    measure.Origin
	hasOrigin bool

	props   int
	accepts int
}

// NewPath returns a new path parameter.
// Grid is the number of grid steps updated
// on each proposal,
// and dt the step of the time grid.
func NewPath(p *path.Path, alpha1, alpha2 *Alpha, grid int, dt float64) *Path {
	return &Path{
		p:      p,
		alpha1: alpha1,
		alpha2: alpha2,
		wiener: measure.NewWiener(p.Pop()),
		grid:   grid,
		dt:     dt,
	}
}

// SetOrigin sets the model of the allele origin
// used when the allele age is inferred.
func (pp *Path) SetOrigin(o measure.Origin) {
	pp.origin = o
	pp.hasOrigin = true
}

// Path returns the underlying path.
func (pp *Path) Path() *path.Path {
	return pp.p
}

// Measure returns the Wright-Fisher measure
// of the current selection coefficients.
func (pp *Path) Measure() *measure.WF {
	return measure.New(pp.p.Pop(), pp.alpha1.Value(), pp.alpha2.Value())
}

func (pp *Path) Kind() Kind   { return WholePath }
func (pp *Path) Name() string { return WholePath.String() }

// Propose draws a new trajectory
// for the interior of a random window of the path.
// The Hastings ratio is the Girsanov ratio
// of the new and old trajectories.
func (pp *Path) Propose(r *rand.Rand) (float64, error) {
	last := pp.p.Last()
	if last < 2 {
		return 0, nil
	}
	begin := r.IntN(last - 1)
	end := min(begin+pp.grid, last)
	return pp.redraw(r, begin, end, pp.p.Y(begin), pp.p.Y(end))
}

// Redraw replaces the trajectory between begin and end
// with a Wiener bridge
// between y0 and y1
// (in the diffusion scale)
// using the current time grid.
// It returns the log of the Girsanov ratio
// between the new and old trajectories.
func (pp *Path) redraw(r *rand.Rand, begin, end int, y0, y1 float64) (float64, error) {
	m := pp.Measure()
	old, err := pp.wiener.LogGirsanov(pp.p, m, begin, end)
	if err != nil {
		return 0, err
	}

	times := make([]float64, end-begin+1)
	for i := range times {
		times[i] = pp.p.Time(begin + i)
	}
	ys := measure.Bridge(r, pp.p.Pop(), times, y0, y1)
	traj, ok := toFreq(ys)
	pp.p.Splice(begin, end, times, traj)
	if !ok {
		return math.Inf(-1), nil
	}

	nw, err := pp.wiener.LogGirsanov(pp.p, m, begin, end)
	if err != nil {
		return 0, err
	}
	return nw - old, nil
}

// ToFreq transforms values in the diffusion scale
// into frequencies.
// It returns false if a value is outside the state space.
func toFreq(ys []float64) ([]float64, bool) {
	ok := true
	traj := make([]float64, len(ys))
	for i, y := range ys {
		if y <= 0 || y >= math.Pi {
			ok = false
		}
		traj[i] = measure.ToFreq(y)
	}
	return traj, ok
}

// Prior is included in the Girsanov ratio.
func (pp *Path) Prior() float64 {
	return 0
}

// Value of the whole path is undefined.
func (pp *Path) Value() float64 { return math.NaN() }
func (pp *Path) Old() float64   { return math.NaN() }

// Reset does nothing,
// the path is restored by the chain.
func (pp *Path) Reset()  {}
func (pp *Path) Commit() {}

func (pp *Path) IncreaseProp()   { pp.props++ }
func (pp *Path) IncreaseAccept() { pp.accepts++ }
func (pp *Path) UpdateTuning()   {}
func (pp *Path) Proposals() int  { return pp.props }
func (pp *Path) Accepted() int   { return pp.accepts }
