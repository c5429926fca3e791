// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param_test

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/js-arias/selpath/infer/measure"
	"github.com/js-arias/selpath/infer/param"
	"github.com/js-arias/selpath/infer/path"
	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/sample"
)

func TestKind(t *testing.T) {
	tests := map[param.Kind]string{
		param.Alpha1:     "alpha1",
		param.Alpha2:     "alpha2",
		param.StartFreq:  "start_freq",
		param.EndFreq:    "end_freq",
		param.AlleleAge:  "age",
		param.SampleTime: "sample_time",
		param.WholePath:  "path",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("kind %d: got %q, want %q", int(k), got, want)
		}
	}
}

func TestAlpha(t *testing.T) {
	a := param.NewAlpha(param.Alpha1, 10)
	if a.Kind() != param.Alpha1 {
		t.Errorf("kind: got %v, want %v", a.Kind(), param.Alpha1)
	}

	r := rand.New(rand.NewPCG(1, 1))
	ratio, err := a.Propose(r)
	if err != nil {
		t.Fatalf("propose: unexpected error: %v", err)
	}
	if ratio != 0 || a.Prior() != 0 {
		t.Errorf("ratios: got %.6f %.6f, want 0", ratio, a.Prior())
	}
	if a.Old() != 10 {
		t.Errorf("old: got %.6f, want %.6f", a.Old(), 10.0)
	}
	if a.Value() == 10 {
		t.Errorf("value: proposal did not change the value")
	}

	a.Reset()
	if a.Value() != 10 {
		t.Errorf("reset: got %.6f, want %.6f", a.Value(), 10.0)
	}
	a.Reset()
	if a.Value() != 10 {
		t.Errorf("second reset: got %.6f, want %.6f", a.Value(), 10.0)
	}

	a.Propose(r)
	v := a.Value()
	a.Commit()
	a.Reset()
	if a.Value() != v {
		t.Errorf("reset after commit: got %.6f, want %.6f", a.Value(), v)
	}
	if a.Old() != v {
		t.Errorf("old after commit: got %.6f, want %.6f", a.Old(), v)
	}
}

func TestTuning(t *testing.T) {
	tests := map[string]struct {
		accepts int
		scale   float64
	}{
		"high acceptance": {8, 1.2},
		"low acceptance":  {1, 0.8},
		"good acceptance": {3, 1},
	}

	for name, test := range tests {
		a := param.NewAlpha(param.Alpha2, 0)
		start := a.Tuning()
		for i := 0; i < 10; i++ {
			a.IncreaseProp()
			if i < test.accepts {
				a.IncreaseAccept()
			}
		}
		a.UpdateTuning()
		if got, want := a.Tuning(), start*test.scale; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s: got %.6f, want %.6f", name, got, want)
		}

		// without proposals the scale is unchanged
		a.UpdateTuning()
		if got, want := a.Tuning(), start*test.scale; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s: empty window: got %.6f, want %.6f", name, got, want)
		}

		if a.Proposals() != 10 || a.Accepted() != test.accepts {
			t.Errorf("%s: counters: got %d %d, want %d %d", name, a.Proposals(), a.Accepted(), 10, test.accepts)
		}
	}
}

func TestPathRollback(t *testing.T) {
	p, pp := testPath(t)
	s := param.NewStart(pp)
	e := param.NewEnd(pp)

	r := rand.New(rand.NewPCG(7, 8))
	for _, pr := range []param.Parameter{s, e, pp} {
		times := p.Times()
		traj := p.Trajectory()
		for i := 0; i < 20; i++ {
			ratio, err := pr.Propose(r)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", pr.Name(), err)
			}
			if math.IsNaN(ratio) {
				t.Fatalf("%s: ratio is NaN", pr.Name())
			}
			pr.Reset()
			p.Reset()
			p.Commit()

			if !reflect.DeepEqual(p.Times(), times) {
				t.Fatalf("%s: times changed after reset", pr.Name())
			}
			if !reflect.DeepEqual(p.Trajectory(), traj) {
				t.Fatalf("%s: trajectory changed after reset", pr.Name())
			}
		}
	}
}

func TestEndpoints(t *testing.T) {
	p, pp := testPath(t)
	s := param.NewStart(pp)
	e := param.NewEnd(pp)

	r := rand.New(rand.NewPCG(9, 10))
	for i := 0; i < 20; i++ {
		ratio, err := s.Propose(r)
		if err != nil {
			t.Fatalf("start: unexpected error: %v", err)
		}
		if !math.IsInf(ratio, -1) {
			if got := p.Traj(0); math.Abs(got-s.Value()) > 1e-12 {
				t.Errorf("start: path %.6f, value %.6f", got, s.Value())
			}
			s.Commit()
			p.Commit()
			continue
		}
		s.Reset()
		p.Reset()
		p.Commit()
	}

	for i := 0; i < 20; i++ {
		ratio, err := e.Propose(r)
		if err != nil {
			t.Fatalf("end: unexpected error: %v", err)
		}
		if !math.IsInf(ratio, -1) {
			if got := p.Traj(p.Last()); math.Abs(got-e.Value()) > 1e-12 {
				t.Errorf("end: path %.6f, value %.6f", got, e.Value())
			}
			e.Commit()
			p.Commit()
			continue
		}
		e.Reset()
		p.Reset()
		p.Commit()
	}
}

func TestAge(t *testing.T) {
	p, pp := testPath(t)
	m := measure.New(p.Pop(), 0, 0)
	o := m.Fisher(0.0001)
	pp.SetOrigin(o)

	r := rand.New(rand.NewPCG(11, 12))
	times, traj, _ := o.Segment(r, -0.01, p.Time(0), p.Traj(0), 0.01)
	p.SetAlleleAge(times, traj, 0)
	p.Commit()
	if p.Anchor() != len(times)-1 {
		t.Fatalf("anchor: got %d, want %d", p.Anchor(), len(times)-1)
	}

	a := param.NewAge(pp)
	if a.Value() != -0.01 {
		t.Errorf("age: got %.6f, want %.6f", a.Value(), -0.01)
	}

	before := p.Times()
	beforeTraj := p.Trajectory()
	for i := 0; i < 20; i++ {
		ratio, err := a.Propose(r)
		if err != nil {
			t.Fatalf("age: unexpected error: %v", err)
		}
		if math.IsNaN(ratio) {
			t.Fatalf("age: ratio is NaN")
		}
		if !math.IsInf(ratio, -1) && p.Time(0) != a.Value() {
			t.Errorf("age: path start %.6f, value %.6f", p.Time(0), a.Value())
		}
		if p.Time(p.Anchor()) != 0 {
			t.Errorf("age: anchor time %.6f, want 0", p.Time(p.Anchor()))
		}
		a.Reset()
		p.Reset()
		p.Commit()
		if !reflect.DeepEqual(p.Times(), before) || !reflect.DeepEqual(p.Trajectory(), beforeTraj) {
			t.Fatalf("age: path changed after reset")
		}
	}
}

func TestSampleTime(t *testing.T) {
	samples := []sample.Time{
		{Time: 0, Oldest: 0, Youngest: 0, Size: 10, Count: 2},
		{Time: 0.05, Oldest: 0.04, Youngest: 0.06, Size: 10, Count: 5},
		{Time: 0.1, Oldest: 0.1, Youngest: 0.1, Size: 10, Count: 7},
	}
	p := path.New(samples, popsize.Constant(10_000), 0.01)
	pp := param.NewPath(p, param.NewAlpha(param.Alpha1, 0), param.NewAlpha(param.Alpha2, 0), 5, 0.01)
	st := param.NewTime(pp, 1)
	if st.Name() != "sample_time_1" {
		t.Errorf("name: got %q, want %q", st.Name(), "sample_time_1")
	}

	r := rand.New(rand.NewPCG(13, 14))
	for i := 0; i < 100; i++ {
		st.Propose(r)
		v := st.Value()
		if v < 0.04 || v > 0.06 {
			t.Fatalf("proposal %d: time %.6f out of bounds", i, v)
		}
		if got := p.Sample(1).Time; got != v {
			t.Errorf("proposal %d: sample time %.6f, want %.6f", i, got, v)
		}
		if i%2 == 0 {
			st.Reset()
			if got := p.Sample(1).Time; got != st.Value() {
				t.Errorf("reset %d: sample time %.6f, want %.6f", i, got, st.Value())
			}
			continue
		}
		st.Commit()
	}
}

func testPath(t testing.TB) (*path.Path, *param.Path) {
	t.Helper()

	samples := []sample.Time{
		{Time: 0, Size: 20, Count: 4},
		{Time: 0.05, Size: 20, Count: 8},
		{Time: 0.1, Size: 20, Count: 12},
	}
	p := path.New(samples, popsize.Constant(10_000), 0.005)
	a1 := param.NewAlpha(param.Alpha1, 5)
	a2 := param.NewAlpha(param.Alpha2, 10)
	return p, param.NewPath(p, a1, a2, 5, 0.005)
}
