// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package popsize_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/js-arias/selpath/popsize"
)

const sizeFile = `# population size
start	size
0	10000
2000	5000
3000	20000
`

func TestRead(t *testing.T) {
	f, err := popsize.Read(strings.NewReader(sizeFile), 10_000)
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	testSize(t, "read", f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}
	nf, err := popsize.Read(&buf, 10_000)
	if err != nil {
		t.Logf("input data:\n%s\n", buf.String())
		t.Fatalf("unable to read data: %v", err)
	}
	testSize(t, "write", nf)
}

func testSize(t testing.TB, name string, f *popsize.Func) {
	t.Helper()

	if f.Epochs() != 3 {
		t.Errorf("%s: got %d epochs, want %d", name, f.Epochs(), 3)
	}

	sizes := []struct {
		t    float64
		size float64
	}{
		{-0.5, 1},
		{0, 1},
		{0.05, 1},
		{0.1, 0.5},
		{0.12, 0.5},
		{0.15, 2},
		{10, 2},
	}
	for _, s := range sizes {
		if got := f.Size(s.t); math.Abs(got-s.size) > 1e-12 {
			t.Errorf("%s: size at %.3f: got %.6f, want %.6f", name, s.t, got, s.size)
		}
	}

	// 0.1/1 + 0.05/0.5 + 0.05/2
	want := 0.1 + 0.1 + 0.025
	if got := f.InvIntegral(0, 0.2); math.Abs(got-want) > 1e-12 {
		t.Errorf("%s: integral: got %.6f, want %.6f", name, got, want)
	}
	if got := f.InvIntegral(0.2, 0); math.Abs(got+want) > 1e-12 {
		t.Errorf("%s: reversed integral: got %.6f, want %.6f", name, got, -want)
	}
}

func TestConstant(t *testing.T) {
	f := popsize.Constant(1000)
	if got := f.InvIntegral(0.25, 1.5); math.Abs(got-1.25) > 1e-12 {
		t.Errorf("integral: got %.6f, want %.6f", got, 1.25)
	}
	if f.N0() != 1000 {
		t.Errorf("n0: got %.1f, want %.1f", f.N0(), 1000.0)
	}
}
