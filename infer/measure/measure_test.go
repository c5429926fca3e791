// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package measure_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/js-arias/selpath/infer/measure"
	"github.com/js-arias/selpath/popsize"
)

type traj struct {
	times []float64
	freqs []float64
}

func (tr traj) Time(i int) float64 { return tr.times[i] }
func (tr traj) Traj(i int) float64 { return tr.freqs[i] }

func newTraj() traj {
	return traj{
		times: []float64{0, 0.01, 0.02, 0.03, 0.04, 0.05},
		freqs: []float64{0.1, 0.12, 0.15, 0.13, 0.2, 0.25},
	}
}

func TestTransform(t *testing.T) {
	for _, x := range []float64{0, 0.001, 0.25, 0.5, 0.9, 1} {
		y := measure.ToY(x)
		if y < 0 || y > math.Pi {
			t.Errorf("freq %.6f: y %.6f out of range", x, y)
		}
		if got := measure.ToFreq(y); math.Abs(got-x) > 1e-12 {
			t.Errorf("freq %.6f: got %.6f", x, got)
		}
	}
}

func TestGirsanovIdentity(t *testing.T) {
	pop := popsize.Constant(10_000)
	if err := pop.Add(300, 5_000); err != nil {
		t.Fatalf("unable to add epoch: %v", err)
	}
	w := measure.NewWiener(pop)
	tr := newTraj()

	old := measure.New(pop, 10, 20)
	nw := measure.New(pop, 25, 40)

	gOld, err := w.LogGirsanov(tr, old, 0, 5)
	if err != nil {
		t.Fatalf("old measure: %v", err)
	}
	gNew, err := w.LogGirsanov(tr, nw, 0, 5)
	if err != nil {
		t.Fatalf("new measure: %v", err)
	}
	ratio, err := w.LogGirsanovWF(tr, old, nw, 0, 5)
	if err != nil {
		t.Fatalf("ratio: %v", err)
	}
	if math.Abs(ratio-(gNew-gOld)) > 1e-9 {
		t.Errorf("ratio: got %.12f, want %.12f", ratio, gNew-gOld)
	}

	same, err := w.LogGirsanovWF(tr, old, measure.New(pop, 10, 20), 0, 5)
	if err != nil {
		t.Fatalf("same measure: %v", err)
	}
	if same != 0 {
		t.Errorf("same measure: got %.12f, want 0", same)
	}

	// additivity over segments
	a, _ := w.LogGirsanov(tr, nw, 0, 2)
	b, _ := w.LogGirsanov(tr, nw, 2, 5)
	if math.Abs(a+b-gNew) > 1e-9 {
		t.Errorf("segments: got %.12f, want %.12f", a+b, gNew)
	}
}

func TestGirsanovBounds(t *testing.T) {
	pop := popsize.Constant(10_000)
	w := measure.NewWiener(pop)
	m := measure.New(pop, 0, 0)

	tr := newTraj()
	tr.freqs[3] = 0
	g, err := w.LogGirsanov(tr, m, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(g, -1) {
		t.Errorf("boundary: got %.6f, want -Inf", g)
	}

	tr = newTraj()
	tr.freqs[2] = math.NaN()
	if _, err := w.LogGirsanov(tr, m, 0, 5); !errors.Is(err, measure.ErrDivergence) {
		t.Errorf("NaN frequency: got error %v, want %v", err, measure.ErrDivergence)
	}
}

func TestBridge(t *testing.T) {
	pop := popsize.Constant(10_000)
	times := measure.Grid(0, 0.1, 0.01)
	if len(times) != 11 {
		t.Fatalf("grid: got %d points, want %d", len(times), 11)
	}
	if times[10] != 0.1 {
		t.Errorf("grid end: got %.6f, want %.6f", times[10], 0.1)
	}

	r := rand.New(rand.NewPCG(1, 2))
	ys := measure.Bridge(r, pop, times, 0.5, 1.2)
	if ys[0] != 0.5 || ys[len(ys)-1] != 1.2 {
		t.Errorf("bridge endpoints: got %.6f %.6f, want %.6f %.6f", ys[0], ys[len(ys)-1], 0.5, 1.2)
	}

	r = rand.New(rand.NewPCG(1, 2))
	again := measure.Bridge(r, pop, times, 0.5, 1.2)
	if !reflect.DeepEqual(ys, again) {
		t.Errorf("bridge with the same seed: got %v, want %v", again, ys)
	}
}

func TestOrigin(t *testing.T) {
	pop := popsize.Constant(10_000)
	m := measure.NewWithOrigin(pop, 5, 10, -0.01)
	if o, ok := m.Origin(); !ok || o != -0.01 {
		t.Errorf("origin: got %.6f %v, want %.6f", o, ok, -0.01)
	}
	if _, ok := measure.New(pop, 0, 0).Origin(); ok {
		t.Errorf("origin: want undefined origin")
	}

	f := m.Fisher(0.001)
	r := rand.New(rand.NewPCG(3, 4))
	times, freqs, ok := f.Segment(r, -0.01, 0, 0.2, 0.01)
	if !ok {
		t.Fatalf("segment: a bridge without interior points is always valid")
	}
	if len(times) != len(freqs) {
		t.Fatalf("segment: got %d times, %d freqs", len(times), len(freqs))
	}
	if times[0] != -0.01 || times[len(times)-1] != 0 {
		t.Errorf("segment times: got %.6f-%.6f", times[0], times[len(times)-1])
	}
	if math.Abs(freqs[0]-0.001) > 1e-12 || math.Abs(freqs[len(freqs)-1]-0.2) > 1e-12 {
		t.Errorf("segment freqs: got %.6f-%.6f", freqs[0], freqs[len(freqs)-1])
	}
	if lt := f.LogTransition(-0.01, 0, 0.2); math.IsNaN(lt) || math.IsInf(lt, 0) {
		t.Errorf("transition: got %.6f", lt)
	}
}

func TestSimulate(t *testing.T) {
	pop := popsize.Constant(10_000)
	m := measure.New(pop, 50, 100)
	r := rand.New(rand.NewPCG(5, 6))
	times, freqs := m.Simulate(r, 0.1, 0, 0.2, 0.001)
	if len(times) != 201 {
		t.Errorf("simulate: got %d points, want %d", len(times), 201)
	}
	for i, x := range freqs {
		if x < 0 || x > 1 {
			t.Errorf("simulate: point %d: frequency %.6f out of range", i, x)
		}
	}
}
