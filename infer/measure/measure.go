// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package measure implements the Wright-Fisher diffusion
// and the reference Wiener process
// used to evaluate allele frequency paths.
//
// Frequencies are evaluated in the transformed scale
// y = arccos(1-2x),
// in which the Wright-Fisher diffusion
// has a variance of 1/rho(t),
// where rho is the relative population size.
package measure

import (
	"math"
	"math/rand/v2"

	"github.com/js-arias/selpath/popsize"
)

// ToY transforms a frequency into the diffusion scale.
func ToY(x float64) float64 {
	return math.Acos(1 - 2*x)
}

// ToFreq transforms a value in the diffusion scale
// into a frequency.
func ToFreq(y float64) float64 {
	return (1 - math.Cos(y)) / 2
}

// WF is a Wright-Fisher diffusion with selection.
//
// The selection coefficients are scaled by 2*N0:
// alpha1 is the coefficient of the heterozygote
// and alpha2 the coefficient of the derived homozygote.
type WF struct {
	pop    *popsize.Func
	alpha1 float64
	alpha2 float64
	origin float64
}

// New returns a new Wright-Fisher measure.
func New(pop *popsize.Func, alpha1, alpha2 float64) *WF {
	return &WF{
		pop:    pop,
		alpha1: alpha1,
		alpha2: alpha2,
		origin: math.NaN(),
	}
}

// NewWithOrigin returns a new Wright-Fisher measure
// for an allele that originates at the indicated time.
func NewWithOrigin(pop *popsize.Func, alpha1, alpha2, origin float64) *WF {
	m := New(pop, alpha1, alpha2)
	m.origin = origin
	return m
}

// Alpha returns the selection coefficients of the measure.
func (m *WF) Alpha() (alpha1, alpha2 float64) {
	return m.alpha1, m.alpha2
}

// Origin returns the origin time of the allele.
// If the origin is not defined,
// it returns false.
func (m *WF) Origin() (float64, bool) {
	if math.IsNaN(m.origin) {
		return 0, false
	}
	return m.origin, true
}

// Pop returns the population size function.
func (m *WF) Pop() *popsize.Func {
	return m.pop
}

// Selection returns the selection part of the drift
// at a given frequency
// (without the x(1-x) factor).
func (m *WF) selection(x float64) float64 {
	return m.alpha1*(1-2*x) + m.alpha2*x
}

// Drift returns the drift in the diffusion scale
// multiplied by the relative population size.
func (m *WF) drift(y, rho float64) float64 {
	x := ToFreq(y)
	return rho*math.Sin(y)/2*m.selection(x) - 1/(2*math.Tan(y))
}

// Simulate simulates a path of the diffusion
// starting at frequency x0 at time t0
// and ending at time t1,
// using steps of size dt.
// The boundaries are absorbing.
func (m *WF) Simulate(r *rand.Rand, x0, t0, t1, dt float64) (times, traj []float64) {
	times = Grid(t0, t1, dt)
	traj = make([]float64, len(times))

	y := ToY(x0)
	traj[0] = x0
	for i := 1; i < len(times); i++ {
		if y <= 0 || y >= math.Pi {
			traj[i] = traj[i-1]
			continue
		}
		rho := m.pop.Size(times[i-1])
		step := times[i] - times[i-1]
		y += m.drift(y, rho)/rho*step + math.Sqrt(step/rho)*r.NormFloat64()
		y = max(0, min(y, math.Pi))
		traj[i] = ToFreq(y)
	}
	return times, traj
}

// Origin is the model of the path
// between the origin of an allele
// and the first point of a path.
type Origin struct {
	freq float64
	pop  *popsize.Func
}

// Fisher returns the model of an allele
// that originates at the indicated frequency.
func (m *WF) Fisher(freq float64) Origin {
	return Origin{
		freq: freq,
		pop:  m.pop,
	}
}

// Freq returns the frequency at the origin.
func (o Origin) Freq() float64 {
	return o.freq
}

// Segment returns a path segment
// that starts at the origin frequency at the given age
// and ends at frequency x1 at time t1,
// with steps of at most dt.
// The interior of the segment is a Wiener bridge.
// It returns false if the bridge leaves the state space.
func (o Origin) Segment(r *rand.Rand, age, t1, x1, dt float64) (times, traj []float64, ok bool) {
	times = Grid(age, t1, dt)
	ys := Bridge(r, o.pop, times, ToY(o.freq), ToY(x1))
	traj = make([]float64, len(ys))
	ok = true
	for i, y := range ys {
		if y <= 0 || y >= math.Pi {
			ok = false
		}
		traj[i] = ToFreq(y)
	}
	return times, traj, ok
}

// LogTransition returns the log density
// of the reference Wiener process
// to reach frequency x1 at time t1
// starting from the origin at the given age.
func (o Origin) LogTransition(age, t1, x1 float64) float64 {
	w := NewWiener(o.pop)
	return w.LogTransition(ToY(o.freq), ToY(x1), age, t1)
}

// Grid returns an evenly spaced time grid
// between t0 and t1
// with steps of at most dt.
// The grid always has at least two points.
func Grid(t0, t1, dt float64) []float64 {
	n := int(math.Ceil((t1 - t0) / dt))
	if n < 1 {
		n = 1
	}
	times := make([]float64, n+1)
	for i := range times {
		times[i] = t0 + float64(i)*(t1-t0)/float64(n)
	}
	times[n] = t1
	return times
}
