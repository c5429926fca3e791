// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sample implements reading and writing
// of allele count samples
// taken at different times.
package sample

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
)

// A Time is a sample of a population
// taken at a given time.
//
// The collection time can be uncertain,
// in which case Oldest and Youngest
// are the bounds of the collection time.
type Time struct {
	// Time is the point estimate of the collection time.
	Time float64

	// Oldest and Youngest are the bounds
	// of the collection time.
	Oldest   float64
	Youngest float64

	// Size is the number of sampled chromosomes.
	Size int

	// Count is the number of derived alleles
	// in the sample.
	Count int
}

// Uncertain returns true if the collection time
// is not known.
func (t Time) Uncertain() bool {
	return t.Oldest < t.Youngest
}

// Freq returns a frequency estimate
// that never reaches the boundaries.
func (t Time) Freq() float64 {
	return (float64(t.Count) + 0.5) / (float64(t.Size) + 1)
}

var header = []string{
	"time",
	"size",
	"count",
}

// Read reads a set of samples from a TSV file.
//
// The TSV must contain the following fields:
//
//   - time, the collection time, in generations
//   - size, the number of sampled chromosomes
//   - count, the number of derived alleles
//
// Optionally,
// the fields oldest and youngest
// can be used to define the bounds
// of an uncertain collection time.
//
// Here is an example file:
//
//	# allele samples
//	time	size	count	oldest	youngest
//	0	20	1	0	0
//	150	20	5	100	200
//	300	20	12	300	300
//
// The resulting samples are sorted by time.
func Read(r io.Reader) ([]Time, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(h))
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}
	_, hasOld := fields["oldest"]
	_, hasYoung := fields["youngest"]

	var st []Time
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "time"
		tm, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}

		f = "size"
		sz, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}
		if sz < 0 {
			return nil, fmt.Errorf("on row %d, field %q: invalid size %d", ln, f, sz)
		}

		f = "count"
		c, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}
		if c < 0 || c > sz {
			return nil, fmt.Errorf("on row %d, field %q: invalid count %d (size %d)", ln, f, c, sz)
		}

		s := Time{
			Time:     tm,
			Oldest:   tm,
			Youngest: tm,
			Size:     sz,
			Count:    c,
		}
		if hasOld && hasYoung {
			f = "oldest"
			o, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
			}
			f = "youngest"
			y, err := strconv.ParseFloat(row[fields[f]], 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
			}
			if y < o {
				return nil, fmt.Errorf("on row %d: youngest bound %.6f before oldest bound %.6f", ln, y, o)
			}
			if o < y {
				s.Oldest = o
				s.Youngest = y
				if tm < o || tm > y {
					s.Time = (o + y) / 2
				}
			}
		}
		st = append(st, s)
	}
	if len(st) < 2 {
		return nil, fmt.Errorf("expecting at least 2 samples, found %d", len(st))
	}

	slices.SortStableFunc(st, func(a, b Time) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return st, nil
}

// Scale transforms the times of a set of samples
// from generations
// into diffusion time units
// (2*n0 generations).
func Scale(st []Time, n0 float64) {
	for i := range st {
		st[i].Time /= 2 * n0
		st[i].Oldest /= 2 * n0
		st[i].Youngest /= 2 * n0
	}
}

// Write writes a set of samples
// into a tab-delimited file.
func Write(w io.Writer, st []Time) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# allele samples\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(append(header, "oldest", "youngest")); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, s := range st {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', -1, 64),
			strconv.Itoa(s.Size),
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.Oldest, 'f', -1, 64),
			strconv.FormatFloat(s.Youngest, 'f', -1, 64),
		}
		if err := tsv.Write(row); err != nil {
			return err
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
