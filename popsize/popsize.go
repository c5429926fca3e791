// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package popsize implements a piecewise constant
// population size function.
//
// Times are measured forward,
// in units of 2*N0 generations
// (diffusion time),
// and sizes are relative to the reference size N0.
package popsize

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

// An epoch is a time interval
// with a constant population size.
type epoch struct {
	start float64 // diffusion time
	size  float64 // relative size
}

// Func is a population size function.
type Func struct {
	n0     float64
	epochs []epoch
}

// Constant returns a function with a constant size
// equal to the reference size.
func Constant(n0 float64) *Func {
	return &Func{
		n0: n0,
		epochs: []epoch{
			{start: 0, size: 1},
		},
	}
}

// N0 returns the reference population size.
func (f *Func) N0() float64 {
	return f.n0
}

// Add adds an epoch starting at the indicated generation
// with the indicated number of individuals.
// If the epoch is already defined,
// its size will be replaced.
func (f *Func) Add(generation, size float64) error {
	if size <= 0 {
		return fmt.Errorf("invalid population size %.6f", size)
	}
	st := generation / (2 * f.n0)
	rel := size / f.n0
	i, ok := slices.BinarySearchFunc(f.epochs, st, func(e epoch, t float64) int {
		switch {
		case e.start < t:
			return -1
		case e.start > t:
			return 1
		}
		return 0
	})
	if ok {
		f.epochs[i].size = rel
		return nil
	}
	f.epochs = slices.Insert(f.epochs, i, epoch{start: st, size: rel})
	return nil
}

// Epochs returns the number of epochs.
func (f *Func) Epochs() int {
	return len(f.epochs)
}

// find returns the index of the epoch
// that contains the indicated time
// (i.e., the latest epoch that starts
// at or before the time).
// Times before the first epoch
// use the first epoch.
func (f *Func) find(t float64) int {
	i, ok := slices.BinarySearchFunc(f.epochs, t, func(e epoch, t float64) int {
		switch {
		case e.start < t:
			return -1
		case e.start > t:
			return 1
		}
		return 0
	})
	if ok {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}

// Size returns the relative population size
// at a given diffusion time.
func (f *Func) Size(t float64) float64 {
	return f.epochs[f.find(t)].size
}

// InvIntegral returns the integral of 1/size
// between times s and t
// (the variance of the reference Wiener process
// accumulated over the interval).
func (f *Func) InvIntegral(s, t float64) float64 {
	if t < s {
		return -f.InvIntegral(t, s)
	}
	var sum float64
	i := f.find(s)
	for from := s; from < t; i++ {
		to := t
		if i+1 < len(f.epochs) && f.epochs[i+1].start < t {
			to = f.epochs[i+1].start
		}
		sum += (to - from) / f.epochs[i].size
		from = to
	}
	return sum
}

var header = []string{
	"start",
	"size",
}

// Read reads a population size function from a TSV file.
//
// The TSV must contain the following fields:
//
//   - start, the generation in which the epoch starts
//   - size, the number of individuals during the epoch
//
// Here is an example file:
//
//	# population size
//	start	size
//	0	10000
//	2000	5000
//	3000	20000
//
// The reference size n0 is used to scale the values.
func Read(r io.Reader, n0 float64) (*Func, error) {
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

	f := &Func{n0: n0}
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		fn := "start"
		st, err := strconv.ParseFloat(row[fields[fn]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, fn, err)
		}

		fn = "size"
		sz, err := strconv.ParseFloat(row[fields[fn]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, fn, err)
		}
		if err := f.Add(st, sz); err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, fn, err)
		}
	}
	if len(f.epochs) == 0 {
		return nil, errors.New("no epochs defined")
	}

	return f, nil
}

// Write writes a population size function
// into a tab-delimited file.
func (f *Func) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# population size\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, e := range f.epochs {
		row := []string{
			strconv.FormatFloat(e.start*2*f.n0, 'f', -1, 64),
			strconv.FormatFloat(e.size*f.n0, 'f', -1, 64),
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
