// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sample_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/selpath/sample"
)

const samplesFile = `# allele samples
time	size	count	oldest	youngest
300	20	12	300	300
0	20	1	0	0
150	20	5	100	200
`

func TestRead(t *testing.T) {
	st, err := sample.Read(strings.NewReader(samplesFile))
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}

	want := []sample.Time{
		{Time: 0, Oldest: 0, Youngest: 0, Size: 20, Count: 1},
		{Time: 150, Oldest: 100, Youngest: 200, Size: 20, Count: 5},
		{Time: 300, Oldest: 300, Youngest: 300, Size: 20, Count: 12},
	}
	testSamples(t, "read", st, want)

	if st[0].Uncertain() {
		t.Errorf("sample 0: uncertain time")
	}
	if !st[1].Uncertain() {
		t.Errorf("sample 1: want uncertain time")
	}

	var buf bytes.Buffer
	if err := sample.Write(&buf, st); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}
	nst, err := sample.Read(&buf)
	if err != nil {
		t.Logf("input data:\n%s\n", buf.String())
		t.Fatalf("unable to read data: %v", err)
	}
	testSamples(t, "write", nst, want)

	sample.Scale(nst, 100)
	if nst[2].Time != 1.5 {
		t.Errorf("scale: got %.6f, want %.6f", nst[2].Time, 1.5)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"invalid count": "time\tsize\tcount\n0\t10\t11\n5\t10\t1\n",
		"single sample": "time\tsize\tcount\n0\t10\t1\n",
		"no size":       "time\tcount\n0\t1\n5\t1\n",
		"bounds":        "time\tsize\tcount\toldest\tyoungest\n0\t10\t1\t5\t1\n5\t10\t1\t5\t5\n",
	}
	for name, data := range tests {
		if _, err := sample.Read(strings.NewReader(data)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func testSamples(t testing.TB, name string, got, want []sample.Time) {
	t.Helper()

	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}
