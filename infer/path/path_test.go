// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package path_test

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/selpath/infer/path"
	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/sample"
)

func newSamples() []sample.Time {
	return []sample.Time{
		{Time: 0, Oldest: 0, Youngest: 0, Size: 10, Count: 2},
		{Time: 0.05, Oldest: 0.05, Youngest: 0.05, Size: 10, Count: 5},
		{Time: 0.1, Oldest: 0.1, Youngest: 0.1, Size: 10, Count: 7},
	}
}

func newPath() *path.Path {
	return path.New(newSamples(), popsize.Constant(10_000), 0.01)
}

func TestNew(t *testing.T) {
	p := newPath()
	if p.Len() != 11 {
		t.Errorf("length: got %d, want %d", p.Len(), 11)
	}
	if p.Last() != p.Len()-1 {
		t.Errorf("last: got %d, want %d", p.Last(), p.Len()-1)
	}
	if p.Time(0) != 0 || p.Time(p.Last()) != 0.1 {
		t.Errorf("time span: got %.6f-%.6f, want %.6f-%.6f", p.Time(0), p.Time(p.Last()), 0.0, 0.1)
	}
	if p.Time(5) != 0.05 {
		t.Errorf("sample time: got %.6f, want %.6f", p.Time(5), 0.05)
	}

	st := newSamples()
	for i, s := range st {
		idx := []int{0, 5, 10}[i]
		if math.Abs(p.Traj(idx)-s.Freq()) > 1e-12 {
			t.Errorf("sample %d: got frequency %.6f, want %.6f", i, p.Traj(idx), s.Freq())
		}
	}
	for i := 0; i < p.Len(); i++ {
		if x := p.Traj(i); x <= 0 || x >= 1 {
			t.Errorf("point %d: invalid frequency %.6f", i, x)
		}
	}
	if p.NumSamples() != 3 {
		t.Errorf("samples: got %d, want %d", p.NumSamples(), 3)
	}
}

func TestSampleProb(t *testing.T) {
	p := newPath()

	s := p.Sample(1)
	x := s.Freq()
	// C(10,5) = 252
	want := math.Log(252) + 5*math.Log(x) + 5*math.Log(1-x)
	if got := p.SampleProb(1); math.Abs(got-want) > 1e-9 {
		t.Errorf("sample prob: got %.9f, want %.9f", got, want)
	}

	// before the path start,
	// the allele is absent
	p.SetSampleTime(0, -1)
	if got := p.SampleProb(0); !math.IsInf(got, -1) {
		t.Errorf("sample before start: got %.6f, want -Inf", got)
	}

	bad := newSamples()
	bad[0].Count = 12
	bp := path.New(bad, popsize.Constant(10_000), 0.01)
	if got := bp.SampleProb(0); !math.IsNaN(got) {
		t.Errorf("invalid count: got %.6f, want NaN", got)
	}
}

func TestSpliceReset(t *testing.T) {
	p := newPath()
	times := p.Times()
	traj := p.Trajectory()

	// same size
	p.Splice(2, 5, []float64{0.02, 0.03, 0.04, 0.05}, []float64{0.3, 0.31, 0.32, 0.33})
	d, ok := p.Dirty()
	if !ok {
		t.Fatalf("splice: expecting dirty range")
	}
	if d.Begin != 2 || d.End != 5 {
		t.Errorf("dirty range: got %d-%d, want %d-%d", d.Begin, d.End, 2, 5)
	}
	if p.Traj(3) != 0.31 {
		t.Errorf("splice: got %.6f, want %.6f", p.Traj(3), 0.31)
	}
	p.Reset()
	testPath(t, "same size", p, times, traj)

	// a longer prefix
	newT := []float64{-0.03, -0.02, -0.01, 0}
	newX := []float64{0.001, 0.05, 0.1, traj[0]}
	p.SetAlleleAge(newT, newX, 0)
	if p.Len() != len(times)+3 {
		t.Errorf("age: got %d points, want %d", p.Len(), len(times)+3)
	}
	if p.Anchor() != 3 {
		t.Errorf("age: got anchor %d, want %d", p.Anchor(), 3)
	}
	p.Reset()
	testPath(t, "longer", p, times, traj)
	if p.Anchor() != 0 {
		t.Errorf("reset: got anchor %d, want %d", p.Anchor(), 0)
	}

	// reset is idempotent
	p.Reset()
	testPath(t, "second reset", p, times, traj)

	// commit keeps the change
	p.SetAlleleAge(newT, newX, 0)
	p.Commit()
	if _, ok := p.Dirty(); ok {
		t.Errorf("commit: unexpected dirty range")
	}
	p.Reset()
	if p.Len() != len(times)+3 {
		t.Errorf("commit: got %d points, want %d", p.Len(), len(times)+3)
	}

	// a shorter prefix
	times = p.Times()
	traj = p.Trajectory()
	p.SetAlleleAge([]float64{-0.01, 0}, []float64{0.001, traj[3]}, p.Anchor())
	if p.Anchor() != 1 {
		t.Errorf("shorter age: got anchor %d, want %d", p.Anchor(), 1)
	}
	p.Reset()
	testPath(t, "shorter", p, times, traj)
}

func TestWrite(t *testing.T) {
	p := path.New([]sample.Time{
		{Time: 0, Size: 1, Count: 0},
		{Time: 0.5, Size: 1, Count: 1},
	}, popsize.Constant(100), 0.5)

	var buf bytes.Buffer
	if err := p.WriteTime(&buf); err != nil {
		t.Fatalf("unable to write times: %v", err)
	}
	if got, want := buf.String(), "0 0.5\n"; got != want {
		t.Errorf("times: got %q, want %q", got, want)
	}

	buf.Reset()
	if err := p.WriteTraj(&buf); err != nil {
		t.Fatalf("unable to write trajectory: %v", err)
	}
	f := strings.Fields(buf.String())
	if len(f) != 2 {
		t.Errorf("trajectory: got %d values, want %d", len(f), 2)
	}
}

func testPath(t testing.TB, name string, p *path.Path, times, traj []float64) {
	t.Helper()

	if !reflect.DeepEqual(p.Times(), times) {
		t.Errorf("%s: times: got %v, want %v", name, p.Times(), times)
	}
	if !reflect.DeepEqual(p.Trajectory(), traj) {
		t.Errorf("%s: trajectory: got %v, want %v", name, p.Trajectory(), traj)
	}
	if _, ok := p.Dirty(); ok {
		t.Errorf("%s: unexpected dirty range", name)
	}
}
