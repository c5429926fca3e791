// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import (
	"math"
	"math/rand/v2"
	"strconv"
)

// DefTimeTuning is the default proposal scale
// of an uncertain sample time,
// in diffusion time units.
const DefTimeTuning = 0.005

// Time is the collection time of a sample
// with an uncertain time.
type Time struct {
	scalar
	pp  *Path
	idx int

	oldest   float64
	youngest float64
}

// NewTime returns the collection time
// of the sample with the indicated index.
func NewTime(pp *Path, idx int) *Time {
	s := pp.p.Sample(idx)
	st := &Time{
		pp:       pp,
		idx:      idx,
		oldest:   s.Oldest,
		youngest: s.Youngest,
	}
	st.v.cur = s.Time
	st.tuning = min(DefTimeTuning, s.Youngest-s.Oldest)
	return st
}

func (s *Time) Kind() Kind { return SampleTime }

// Name returns the name of the parameter
// with the index of the sample.
func (s *Time) Name() string {
	return SampleTime.String() + "_" + strconv.Itoa(s.idx)
}

// Index returns the index of the sample.
func (s *Time) Index() int {
	return s.idx
}

// Propose uses a normal proposal
// reflected into the time bounds of the sample.
func (s *Time) Propose(r *rand.Rand) (float64, error) {
	t := reflect(s.v.cur+s.tuning*r.NormFloat64(), s.oldest, s.youngest)
	s.v.propose(t)
	s.pp.p.SetSampleTime(s.idx, t)
	return 0, nil
}

// Prior is flat.
func (s *Time) Prior() float64 {
	return 0
}

func (s *Time) Reset() {
	if s.v.reset() {
		s.pp.p.SetSampleTime(s.idx, s.v.cur)
	}
}

// Reflect reflects a value into the interval [lo, hi].
func reflect(x, lo, hi float64) float64 {
	w := hi - lo
	if w <= 0 {
		return lo
	}
	d := math.Mod(x-lo, 2*w)
	if d < 0 {
		d += 2 * w
	}
	if d > w {
		d = 2*w - d
	}
	return lo + d
}
