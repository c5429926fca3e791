// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package measure

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/js-arias/selpath/popsize"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDivergence is returned when a log density
// is not a number.
var ErrDivergence = errors.New("log density is NaN")

// A Trajectory is a sequence of frequencies
// on a time grid.
type Trajectory interface {
	// Time returns the time of a grid point.
	Time(i int) float64

	// Traj returns the frequency at a grid point.
	Traj(i int) float64
}

// Wiener is the reference Wiener process
// with a variance of 1/rho(t)
// in the diffusion scale.
type Wiener struct {
	pop *popsize.Func

	// bounds of the state space
	lo, hi float64
}

// NewWiener returns a reference Wiener measure
// bounded to the state space of the diffusion scale.
func NewWiener(pop *popsize.Func) Wiener {
	return Wiener{
		pop: pop,
		lo:  0,
		hi:  math.Pi,
	}
}

// LogTransition returns the log density
// of moving from y0 at time t0
// to y1 at time t1.
func (w Wiener) LogTransition(y0, y1, t0, t1 float64) float64 {
	v := w.pop.InvIntegral(t0, t1)
	n := distuv.Normal{
		Mu:    y0,
		Sigma: math.Sqrt(v),
	}
	return n.LogProb(y1)
}

// LogGirsanov returns the log of the density
// of a Wright-Fisher measure
// with respect to the Wiener measure
// for the trajectory between the grid points from and to.
//
// If any point is outside the state space
// it returns -Inf.
func (w Wiener) LogGirsanov(tr Trajectory, m *WF, from, to int) (float64, error) {
	var sum float64
	y := ToY(tr.Traj(from))
	for i := from; i < to; i++ {
		ny := ToY(tr.Traj(i + 1))
		if y <= w.lo || y >= w.hi {
			return math.Inf(-1), nil
		}
		t := tr.Time(i)
		rho := w.pop.Size(t)
		dt := tr.Time(i+1) - t
		d := m.drift(y, rho)
		sum += d*(ny-y) - d*d/rho*dt/2
		y = ny
	}
	if y <= w.lo || y >= w.hi {
		return math.Inf(-1), nil
	}
	if math.IsNaN(sum) {
		return sum, ErrDivergence
	}
	return sum, nil
}

// LogGirsanovWF returns the log of the density
// of the Wright-Fisher measure nw
// with respect to the Wright-Fisher measure old
// for the trajectory between the grid points from and to.
//
// The result is the difference
// between the Wiener densities of both measures,
// computed without the terms shared by both measures.
func (w Wiener) LogGirsanovWF(tr Trajectory, old, nw *WF, from, to int) (float64, error) {
	var sum float64
	y := ToY(tr.Traj(from))
	for i := from; i < to; i++ {
		ny := ToY(tr.Traj(i + 1))
		if y <= w.lo || y >= w.hi {
			return math.Inf(-1), nil
		}
		t := tr.Time(i)
		rho := w.pop.Size(t)
		dt := tr.Time(i+1) - t

		x := ToFreq(y)
		delta := rho * math.Sin(y) / 2 * (nw.selection(x) - old.selection(x))
		both := nw.drift(y, rho) + old.drift(y, rho)
		sum += delta*(ny-y) - delta*both/rho*dt/2
		y = ny
	}
	if math.IsNaN(sum) {
		return sum, ErrDivergence
	}
	return sum, nil
}

// Bridge returns a Wiener bridge
// on the indicated times,
// starting at y0 and ending at y1
// (both values in the diffusion scale).
func Bridge(r *rand.Rand, pop *popsize.Func, times []float64, y0, y1 float64) []float64 {
	ys := make([]float64, len(times))
	ys[0] = y0
	last := len(times) - 1
	ys[last] = y1
	for i := 1; i < last; i++ {
		v1 := pop.InvIntegral(times[i-1], times[i])
		v2 := pop.InvIntegral(times[i], times[last])
		mean := ys[i-1] + (y1-ys[i-1])*v1/(v1+v2)
		sd := math.Sqrt(v1 * v2 / (v1 + v2))
		ys[i] = mean + sd*r.NormFloat64()
	}
	return ys
}
