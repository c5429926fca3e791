// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mcmc

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/js-arias/selpath/infer/param"
)

// Trace writes the state of a chain
// into three streams:
// the parameter values,
// the path trajectories,
// and the path time grids.
type Trace struct {
	param *bufio.Writer
	tsv   *csv.Writer
	traj  *bufio.Writer
	time  *bufio.Writer
}

// NewTrace returns a new trace
// that writes the parameter values into param,
// the path trajectory into traj,
// and the time grid of the path into time.
func NewTrace(param, traj, time io.Writer) *Trace {
	pw := bufio.NewWriter(param)
	tsv := csv.NewWriter(pw)
	tsv.Comma = '\t'
	return &Trace{
		param: pw,
		tsv:   tsv,
		traj:  bufio.NewWriter(traj),
		time:  bufio.NewWriter(time),
	}
}

func (tr *Trace) header(c *Chain) error {
	h := []string{"gen", "lnL", "pathlnL"}
	for _, p := range c.pars {
		if p.Kind() == param.WholePath {
			continue
		}
		h = append(h, p.Name())
	}
	if err := tr.tsv.Write(h); err != nil {
		return fmt.Errorf("while writing trace header: %v", err)
	}
	return nil
}

func (tr *Trace) write(c *Chain) error {
	pathlnL, err := c.wiener.LogGirsanov(c.path, c.cur, 0, c.path.Last())
	if err != nil {
		return c.divergence()
	}

	gen := strconv.Itoa(c.gen)
	row := []string{
		gen,
		formatValue(c.lnL),
		formatValue(pathlnL),
	}
	for _, p := range c.pars {
		if p.Kind() == param.WholePath {
			continue
		}
		row = append(row, formatValue(p.Value()))
	}
	if err := tr.tsv.Write(row); err != nil {
		return fmt.Errorf("while writing trace: %v", err)
	}

	tr.traj.WriteString(gen + " ")
	if err := c.path.WriteTraj(tr.traj); err != nil {
		return fmt.Errorf("while writing trajectory: %v", err)
	}
	tr.time.WriteString(gen + " ")
	if err := c.path.WriteTime(tr.time); err != nil {
		return fmt.Errorf("while writing time grid: %v", err)
	}
	return nil
}

// Flush writes any buffered data
// into the underlying writers.
func (tr *Trace) Flush() error {
	tr.tsv.Flush()
	if err := tr.tsv.Error(); err != nil {
		return fmt.Errorf("while writing trace: %v", err)
	}
	if err := tr.param.Flush(); err != nil {
		return fmt.Errorf("while writing trace: %v", err)
	}
	if err := tr.traj.Flush(); err != nil {
		return fmt.Errorf("while writing trajectory: %v", err)
	}
	if err := tr.time.Flush(); err != nil {
		return fmt.Errorf("while writing time grid: %v", err)
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
