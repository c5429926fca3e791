// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import (
	"math"
	"math/rand/v2"

	"github.com/js-arias/selpath/infer/measure"
)

// DefFreqTuning is the default proposal scale
// of the path endpoints,
// in the diffusion scale.
const DefFreqTuning = 0.1

// Start is the frequency at the start of the path.
// It is used when the allele age is not inferred.
// Its prior is uniform on the frequency.
type Start struct {
	scalar
	pp *Path
}

// NewStart returns the start frequency of a path.
func NewStart(pp *Path) *Start {
	s := &Start{pp: pp}
	s.v.cur = pp.p.Traj(0)
	s.tuning = DefFreqTuning
	return s
}

func (s *Start) Kind() Kind   { return StartFreq }
func (s *Start) Name() string { return StartFreq.String() }

// Propose moves the first point of the path
// and redraws the first steps of the path
// as a Wiener bridge.
func (s *Start) Propose(r *rand.Rand) (float64, error) {
	p := s.pp.p
	end := min(s.pp.grid, p.Last())

	y0 := p.Y(0)
	y1 := p.Y(end)
	ny := y0 + s.tuning*r.NormFloat64()
	s.v.propose(measure.ToFreq(ny))
	if ny <= 0 || ny >= math.Pi {
		return math.Inf(-1), nil
	}

	g, err := s.pp.redraw(r, 0, end, ny, y1)
	if err != nil || math.IsInf(g, -1) {
		return g, err
	}
	w := s.pp.wiener
	t0, t1 := p.Time(0), p.Time(end)
	return g + w.LogTransition(ny, y1, t0, t1) - w.LogTransition(y0, y1, t0, t1), nil
}

// Prior returns the log prior ratio
// of a uniform prior on the frequency
// evaluated in the diffusion scale.
func (s *Start) Prior() float64 {
	ny := measure.ToY(s.v.cur)
	if ny <= 0 || ny >= math.Pi {
		return math.Inf(-1)
	}
	return math.Log(math.Sin(ny)) - math.Log(math.Sin(measure.ToY(s.Old())))
}

func (s *Start) Reset() {
	s.v.reset()
}

// End is the frequency at the end of the path.
type End struct {
	scalar
	pp *Path
}

// NewEnd returns the end frequency of a path.
func NewEnd(pp *Path) *End {
	e := &End{pp: pp}
	e.v.cur = pp.p.Traj(pp.p.Last())
	e.tuning = DefFreqTuning
	return e
}

func (e *End) Kind() Kind   { return EndFreq }
func (e *End) Name() string { return EndFreq.String() }

// Propose moves the last point of the path
// and redraws the last steps of the path
// as a Wiener bridge.
func (e *End) Propose(r *rand.Rand) (float64, error) {
	p := e.pp.p
	last := p.Last()
	begin := max(last-e.pp.grid, 0)

	y0 := p.Y(begin)
	y1 := p.Y(last)
	ny := y1 + e.tuning*r.NormFloat64()
	e.v.propose(measure.ToFreq(ny))
	if ny <= 0 || ny >= math.Pi {
		return math.Inf(-1), nil
	}

	g, err := e.pp.redraw(r, begin, last, y0, ny)
	if err != nil || math.IsInf(g, -1) {
		return g, err
	}
	w := e.pp.wiener
	t0, t1 := p.Time(begin), p.Time(last)
	return g + w.LogTransition(y0, ny, t0, t1) - w.LogTransition(y0, y1, t0, t1), nil
}

// Prior is flat.
func (e *End) Prior() float64 {
	return 0
}

func (e *End) Reset() {
	e.v.reset()
}
