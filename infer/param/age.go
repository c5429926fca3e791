// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import (
	"math"
	"math/rand/v2"

	"github.com/js-arias/selpath/infer/measure"
)

// DefAgeTuning is the default proposal scale
// of the allele age,
// in diffusion time units.
const DefAgeTuning = 0.01

// Age is the age of the allele,
// i.e., the time of the first point of the path.
// The age must be older than the first sample.
type Age struct {
	scalar
	pp *Path
}

// NewAge returns the age of the allele.
// The path parameter must have an origin model.
func NewAge(pp *Path) *Age {
	if !pp.hasOrigin {
		panic("param: allele age without an origin model")
	}
	a := &Age{pp: pp}
	a.v.cur = pp.p.Time(0)
	a.tuning = DefAgeTuning
	return a
}

func (a *Age) Kind() Kind   { return AlleleAge }
func (a *Age) Name() string { return AlleleAge.String() }

// Propose moves the age of the allele
// and redraws the path between the origin
// and the first sample.
func (a *Age) Propose(r *rand.Rand) (float64, error) {
	p := a.pp.p
	anchor := p.Anchor()
	ta := p.Time(anchor)
	xa := p.Traj(anchor)

	age := p.Time(0)
	na := age + a.tuning*r.NormFloat64()
	a.v.propose(na)
	if na >= ta {
		return math.Inf(-1), nil
	}

	m := a.pp.Measure()
	w := a.pp.wiener
	old, err := w.LogGirsanov(p, m, 0, anchor)
	if err != nil {
		return 0, err
	}

	o := a.pp.origin
	times := measure.Grid(na, ta, a.pp.dt)
	ys := measure.Bridge(r, p.Pop(), times, measure.ToY(o.Freq()), measure.ToY(xa))
	traj, ok := toFreq(ys)
	p.SetAlleleAge(times, traj, anchor)
	if !ok {
		return math.Inf(-1), nil
	}

	nw, err := w.LogGirsanov(p, m, 0, p.Anchor())
	if err != nil {
		return 0, err
	}
	return nw - old + o.LogTransition(na, ta, xa) - o.LogTransition(age, ta, xa), nil
}

// Prior is flat.
func (a *Age) Prior() float64 {
	return 0
}

func (a *Age) Reset() {
	a.v.reset()
}
