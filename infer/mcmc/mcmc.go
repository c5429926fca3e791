// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmc implements a Metropolis-Hastings sampler
// of allele frequency paths,
// selection coefficients,
// and allele ages.
package mcmc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/js-arias/selpath/infer/measure"
	"github.com/js-arias/selpath/infer/param"
	"github.com/js-arias/selpath/infer/path"
	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/sample"
	"github.com/js-arias/selpath/settings"
	"gonum.org/v1/gonum/floats"
)

// ErrConfigConflict is returned when a sample
// has an uncertain time
// but the allele age is not inferred.
var ErrConfigConflict = errors.New("uncertain sample times require the inference of the allele age")

// A DivergenceError is returned when the likelihood is NaN.
type DivergenceError struct {
	// Generation and index of the proposed parameter.
	Gen      int
	Proposal int

	// Time grid and trajectory of the path.
	Times []float64
	Traj  []float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("likelihood is NaN at generation %d, proposal %d", e.Gen, e.Proposal)
}

func (e *DivergenceError) Unwrap() error {
	return measure.ErrDivergence
}

// Maximum number of attempts
// to build the initial segment
// between the allele origin and the first sample.
const maxSegmentTries = 1000

// Time before the first sample
// used as the initial allele age.
const firstAgeOffset = 0.001

// Chain is a Markov chain
// on the parameters of an allele frequency path.
type Chain struct {
	set *settings.Settings
	r   *rand.Rand

	path   *path.Path
	pp     *param.Path
	alpha1 *param.Alpha
	alpha2 *param.Alpha
	pars   []param.Parameter
	cdf    []float64

	wiener measure.Wiener
	cur    *measure.WF
	lnL    float64

	gen  int
	prop int
}

// New creates a new chain from a set of samples
// with times in diffusion units.
func New(set *settings.Settings, samples []sample.Time, pop *popsize.Func, r *rand.Rand) (*Chain, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("expecting at least two samples, found %d", len(samples))
	}
	var uncertain []int
	for i, s := range samples[:len(samples)-1] {
		if !s.Uncertain() {
			continue
		}
		if !set.InferAge() {
			return nil, fmt.Errorf("sample %d: %w", i, ErrConfigConflict)
		}
		uncertain = append(uncertain, i)
	}

	c := &Chain{
		set:    set,
		r:      r,
		path:   path.New(samples, pop, set.DT()),
		alpha1: param.NewAlpha(param.Alpha1, set.A1Start()),
		alpha2: param.NewAlpha(param.Alpha2, set.A2Start()),
		wiener: measure.NewWiener(pop),
	}
	c.pp = param.NewPath(c.path, c.alpha1, c.alpha2, set.Grid(), set.DT())

	c.pars = []param.Parameter{c.alpha1, c.alpha2}
	weights := []float64{set.A1Prop(), set.A2Prop()}
	if set.InferAge() {
		if err := c.initAge(); err != nil {
			return nil, err
		}
		c.pars = append(c.pars, param.NewAge(c.pp))
	} else {
		c.pars = append(c.pars, param.NewStart(c.pp))
	}
	weights = append(weights, set.AgeProp())
	c.pars = append(c.pars, param.NewEnd(c.pp))
	weights = append(weights, set.EndProp())
	for _, i := range uncertain {
		c.pars = append(c.pars, param.NewTime(c.pp, i))
		weights = append(weights, set.TimeProp())
	}
	c.pars = append(c.pars, c.pp)
	weights = append(weights, set.PathProp())
	c.cdf = Cumulative(weights)

	c.cur = c.measure()
	c.lnL = SampleLogLike(c.path)
	if math.IsNaN(c.lnL) {
		return nil, c.divergence()
	}
	return c, nil
}

// InitAge sets the initial allele age
// and the segment from the allele origin
// to the first sample.
func (c *Chain) initAge() error {
	m := c.measure()
	o := m.Fisher(c.set.Origin())
	c.pp.SetOrigin(o)

	t1 := c.path.Time(0)
	x1 := c.path.Traj(0)
	age := t1 - firstAgeOffset
	for i := 0; i < maxSegmentTries; i++ {
		times, traj, ok := o.Segment(c.r, age, t1, x1, c.set.DT())
		if !ok {
			continue
		}
		c.path.SetAlleleAge(times, traj, 0)
		c.path.Commit()
		return nil
	}
	return fmt.Errorf("unable to build a path from the allele origin at frequency %.6g", o.Freq())
}

// Measure returns the Wright-Fisher measure
// of the current parameter values.
func (c *Chain) measure() *measure.WF {
	pop := c.path.Pop()
	if c.set.InferAge() {
		return measure.NewWithOrigin(pop, c.alpha1.Value(), c.alpha2.Value(), c.path.Time(0))
	}
	return measure.New(pop, c.alpha1.Value(), c.alpha2.Value())
}

// Params returns the parameters of the chain
// in the order of proposal.
// The last parameter is always the whole path.
func (c *Chain) Params() []param.Parameter {
	return c.pars
}

// CDF returns the cumulative proposal probability
// of each parameter.
func (c *Chain) CDF() []float64 {
	return c.cdf
}

// Path returns the current path.
func (c *Chain) Path() *path.Path {
	return c.path
}

// Measure returns the current Wright-Fisher measure.
func (c *Chain) Measure() *measure.WF {
	return c.cur
}

// LogLike returns the sampling log likelihood
// of the current state.
func (c *Chain) LogLike() float64 {
	return c.lnL
}

// Cumulative returns the cumulative distribution
// of a set of positive weights.
func Cumulative(weights []float64) []float64 {
	cdf := make([]float64, len(weights))
	floats.CumSum(cdf, weights)
	floats.Scale(1/cdf[len(cdf)-1], cdf)
	return cdf
}

// TuningInterval returns the number of generations
// between updates of the proposal scales.
func TuningInterval(gens int) int {
	return min(max(gens/1000, 100), 1000)
}

// Run runs the chain for the number of generations
// defined in the settings.
// The trace is written every sample generations,
// and a progress line is written into w
// every print generations.
func (c *Chain) Run(tr *Trace, w io.Writer) error {
	if err := tr.header(c); err != nil {
		return err
	}

	tune := TuningInterval(c.set.Generations())
	for c.gen = 0; c.gen < c.set.Generations(); c.gen++ {
		var pw io.Writer
		if c.gen%c.set.PrintFreq() == 0 {
			pw = w
		}
		if _, err := c.Step(pw); err != nil {
			return err
		}

		if c.gen%tune == 0 {
			for _, p := range c.pars {
				if p.Kind() == param.WholePath {
					continue
				}
				p.UpdateTuning()
			}
		}

		if c.gen%c.set.SampleFreq() == 0 {
			if err := tr.write(c); err != nil {
				return err
			}
		}
	}
	return tr.Flush()
}

// Step performs a single proposal of the chain.
// If w is not nil,
// a progress line is written on it.
// It returns true if the proposal is accepted.
func (c *Chain) Step(w io.Writer) (bool, error) {
	u := c.r.Float64()
	c.prop = c.choose(u)
	p := c.pars[c.prop]

	p.IncreaseProp()
	propRatio, err := p.Propose(c.r)
	if err != nil {
		return false, c.divergence()
	}
	priorRatio := p.Prior()

	old := c.cur
	oldlnL := c.lnL
	c.cur = c.measure()
	c.lnL = SampleLogLike(c.path)
	if math.IsNaN(c.lnL) || math.IsNaN(oldlnL) {
		return false, c.divergence()
	}
	llRatio := c.lnL - oldlnL
	if k := p.Kind(); k == param.Alpha1 || k == param.Alpha2 {
		g, err := c.wiener.LogGirsanovWF(c.path, old, c.cur, 0, c.path.Last())
		if err != nil {
			return false, c.divergence()
		}
		llRatio += g
	}

	mh := llRatio + propRatio + priorRatio
	u = c.r.Float64()
	accept := math.Log(u) < mh

	if w != nil {
		state := "Reject"
		if accept {
			state = "Accept"
		}
		fmt.Fprintf(w, "%d %d %.10g -> %.10g %.10g %.10g %.10g %.10g %.10g %s\n", c.gen, c.prop, oldlnL, c.lnL, llRatio, propRatio, priorRatio, mh, math.Log(u), state)
	}

	if accept {
		if p.Kind() != param.WholePath {
			p.IncreaseAccept()
		}
		p.Commit()
		c.path.Commit()
		return true, nil
	}

	if p.Kind() != param.WholePath {
		p.Reset()
	}
	c.path.Reset()
	c.path.Commit()
	c.cur = old
	c.lnL = oldlnL
	return false, nil
}

// Choose returns the first parameter
// with a cumulative probability larger than u.
func (c *Chain) choose(u float64) int {
	for i, v := range c.cdf {
		if u < v {
			return i
		}
	}
	return len(c.cdf) - 1
}

func (c *Chain) divergence() *DivergenceError {
	return &DivergenceError{
		Gen:      c.gen,
		Proposal: c.prop,
		Times:    c.path.Times(),
		Traj:     c.path.Trajectory(),
	}
}

// LogLike returns the log likelihood of a path
// given a Wright-Fisher measure,
// including the density of the path
// with respect to the reference Wiener measure,
// and the sampling probabilities.
func LogLike(p *path.Path, m *measure.WF, w measure.Wiener) (float64, error) {
	g, err := w.LogGirsanov(p, m, 0, p.Last())
	if err != nil {
		return 0, err
	}
	return g + SampleLogLike(p), nil
}

// SampleLogLike returns the sum of the log probabilities
// of the samples of a path.
func SampleLogLike(p *path.Path) float64 {
	var sum float64
	for i := 0; i < p.NumSamples(); i++ {
		sum += p.SampleProb(i)
	}
	return sum
}
