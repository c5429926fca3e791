// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package path implements the allele frequency path
// sampled in the MCMC,
// together with the samples taken from the population.
package path

import (
	"bufio"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/js-arias/selpath/infer/measure"
	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/sample"
	"gonum.org/v1/gonum/stat/combin"
)

// Dirty is the range of grid points
// changed by the last proposal,
// with the content required to undo the change.
type Dirty struct {
	// Begin and End are the first and last grid points
	// of the changed range.
	Begin int
	End   int

	times  []float64
	traj   []float64
	anchor int
}

// A Path is an allele frequency trajectory
// on a time grid.
type Path struct {
	times []float64
	traj  []float64

	// index of the first point
	// with data
	anchor int

	samples []sample.Time
	pop     *popsize.Func

	dirty *Dirty
}

// New creates a new path from a set of samples.
// Times should be in diffusion units.
//
// The time grid spans from the first to the last sample,
// with steps of at most dt,
// and includes a grid point at each sample time.
// The initial trajectory interpolates
// the sample frequencies.
func New(samples []sample.Time, pop *popsize.Func, dt float64) *Path {
	type point struct {
		t    float64
		n, k int
	}
	var pts []point
	for _, s := range samples {
		if len(pts) > 0 && pts[len(pts)-1].t == s.Time {
			pts[len(pts)-1].n += s.Size
			pts[len(pts)-1].k += s.Count
			continue
		}
		pts = append(pts, point{t: s.Time, n: s.Size, k: s.Count})
	}
	if len(pts) == 1 {
		pts = append(pts, point{t: pts[0].t + dt, n: pts[0].n, k: pts[0].k})
	}

	p := &Path{
		samples: slices.Clone(samples),
		pop:     pop,
	}
	for i := 1; i < len(pts); i++ {
		prev, next := pts[i-1], pts[i]
		y0 := measure.ToY(sample.Time{Size: prev.n, Count: prev.k}.Freq())
		y1 := measure.ToY(sample.Time{Size: next.n, Count: next.k}.Freq())
		grid := measure.Grid(prev.t, next.t, dt)
		if i > 1 {
			grid = grid[1:]
		}
		for _, t := range grid {
			w := (t - prev.t) / (next.t - prev.t)
			p.times = append(p.times, t)
			p.traj = append(p.traj, measure.ToFreq(y0+w*(y1-y0)))
		}
	}
	return p
}

// Len returns the number of grid points.
func (p *Path) Len() int {
	return len(p.times)
}

// Last returns the index of the last grid point.
func (p *Path) Last() int {
	return len(p.times) - 1
}

// Time returns the time of a grid point.
func (p *Path) Time(i int) float64 {
	return p.times[i]
}

// Traj returns the frequency at a grid point.
func (p *Path) Traj(i int) float64 {
	return p.traj[i]
}

// Y returns the value of a grid point
// in the diffusion scale.
func (p *Path) Y(i int) float64 {
	return measure.ToY(p.traj[i])
}

// Times returns a copy of the time grid.
func (p *Path) Times() []float64 {
	return slices.Clone(p.times)
}

// Trajectory returns a copy of the frequencies.
func (p *Path) Trajectory() []float64 {
	return slices.Clone(p.traj)
}

// Anchor returns the index of the grid point
// of the first sample.
// If the allele age is not inferred,
// it is always 0.
func (p *Path) Anchor() int {
	return p.anchor
}

// Pop returns the population size function.
func (p *Path) Pop() *popsize.Func {
	return p.pop
}

// NumSamples returns the number of samples.
func (p *Path) NumSamples() int {
	return len(p.samples)
}

// Sample returns a sample.
func (p *Path) Sample(i int) sample.Time {
	return p.samples[i]
}

// SetSampleTime sets the collection time of a sample.
func (p *Path) SetSampleTime(i int, t float64) {
	p.samples[i].Time = t
}

// SampleProb returns the log probability of a sample
// given the frequency of the path
// at the grid point closest to the sample time.
// The sampling is binomial.
func (p *Path) SampleProb(i int) float64 {
	s := p.samples[i]
	if s.Count > s.Size {
		return math.NaN()
	}
	x := p.freqAt(s.Time)

	lp := combin.LogGeneralizedBinomial(float64(s.Size), float64(s.Count))
	if s.Count != 0 {
		lp += float64(s.Count) * math.Log(x)
	}
	if s.Count != s.Size {
		lp += float64(s.Size-s.Count) * math.Log1p(-x)
	}
	return lp
}

// freqAt returns the frequency at the grid point
// closest to a time.
// Before the start of the path
// the frequency is 0.
func (p *Path) freqAt(t float64) float64 {
	if t < p.times[0] {
		return 0
	}
	i, ok := slices.BinarySearch(p.times, t)
	if ok {
		return p.traj[i]
	}
	if i == len(p.times) {
		return p.traj[len(p.traj)-1]
	}
	if t-p.times[i-1] < p.times[i]-t {
		return p.traj[i-1]
	}
	return p.traj[i]
}

// SetAlleleAge replaces the start of the path,
// up to the grid point index,
// with a segment that starts at the allele age.
// The first time of the segment is the age
// and its last time should be equal
// to the time of the grid point index.
//
// The change is registered as a dirty range.
func (p *Path) SetAlleleAge(times, traj []float64, index int) {
	p.Splice(0, index, times, traj)
}

// Splice replaces the grid points between begin and end
// (inclusive)
// with a new segment.
// The replaced content is kept
// until Reset or Commit are called.
//
// Only a single change can be pending,
// calling Splice with a pending change panics.
func (p *Path) Splice(begin, end int, times, traj []float64) {
	if p.dirty != nil {
		panic("path: splice with a pending change")
	}
	d := &Dirty{
		Begin:  begin,
		End:    begin + len(times) - 1,
		times:  slices.Clone(p.times[begin : end+1]),
		traj:   slices.Clone(p.traj[begin : end+1]),
		anchor: p.anchor,
	}
	if p.anchor >= end {
		p.anchor += len(times) - (end - begin + 1)
	}
	p.times = slices.Replace(p.times, begin, end+1, times...)
	p.traj = slices.Replace(p.traj, begin, end+1, traj...)
	p.dirty = d
}

// Dirty returns the range changed by the last proposal.
// It returns false if there is no pending change.
func (p *Path) Dirty() (Dirty, bool) {
	if p.dirty == nil {
		return Dirty{}, false
	}
	return *p.dirty, true
}

// Reset restores the path content
// changed by the last proposal.
// Without a pending change it does nothing.
func (p *Path) Reset() {
	d := p.dirty
	if d == nil {
		return
	}
	p.times = slices.Replace(p.times, d.Begin, d.End+1, d.times...)
	p.traj = slices.Replace(p.traj, d.Begin, d.End+1, d.traj...)
	p.anchor = d.anchor
	p.dirty = nil
}

// Commit discards the content kept
// to undo the last proposal.
func (p *Path) Commit() {
	p.dirty = nil
}

// WriteTraj writes the frequencies of the path
// separated by spaces.
func (p *Path) WriteTraj(w io.Writer) error {
	return writeValues(w, p.traj)
}

// WriteTime writes the time grid of the path
// separated by spaces.
func (p *Path) WriteTime(w io.Writer) error {
	return writeValues(w, p.times)
}

func writeValues(w io.Writer, v []float64) error {
	bw := bufio.NewWriter(w)
	for i, x := range v {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.FormatFloat(x, 'g', 20, 64))
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
