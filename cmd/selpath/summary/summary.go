// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package summary implements a command to summarize
// the parameters sampled by an MCMC.
package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"gonum.org/v1/gonum/stat"
)

var Command = &command.Command{
	Usage: `summary [--burnin <value>] <param-file>`,
	Short: "summarize the parameters of an MCMC",
	Long: `
Command summary reads a parameter trace file produced by 'selpath mcmc' and
prints the posterior mean, standard deviation, median, and the 95% credible
interval of each parameter.

The argument of the command is the name of the parameter trace file (the file
with the '.param' extension).

By default, the first 10% of the samples are discarded as burn-in. Use the
flag --burnin to set a different proportion, as a value between 0 and 1.

The output is a tab-delimited table printed into the standard output.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var burnin float64

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&burnin, "burnin", 0.1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting parameter trace file")
	}
	if burnin < 0 || burnin >= 1 {
		return c.UsageError("flag --burnin: value must be between 0 and 1")
	}

	names, cols, err := readTrace(args[0])
	if err != nil {
		return err
	}

	skip := int(float64(len(cols[0])) * burnin)
	if skip >= len(cols[0]) {
		return fmt.Errorf("on file %q: no samples after burn-in", args[0])
	}

	w := c.Stdout()
	fmt.Fprintf(w, "param\tsamples\tmean\tsd\tmedian\tlow95\thigh95\n")
	for i, n := range names {
		if n == "gen" {
			continue
		}
		v := slices.Clone(cols[i][skip:])
		slices.Sort(v)
		mean, sd := stat.MeanStdDev(v, nil)
		med := stat.Quantile(0.5, stat.Empirical, v, nil)
		low := stat.Quantile(0.025, stat.Empirical, v, nil)
		high := stat.Quantile(0.975, stat.Empirical, v, nil)
		fmt.Fprintf(w, "%s\t%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n", n, len(v), mean, sd, med, low, high)
	}
	return nil
}

func readTrace(name string) ([]string, [][]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	names := make([]string, len(head))
	for i, h := range head {
		names[i] = strings.TrimSpace(h)
	}
	if !slices.Contains(names, "gen") {
		return nil, nil, fmt.Errorf("on file %q: expecting field %q", name, "gen")
	}

	cols := make([][]float64, len(names))
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}
		for i, v := range row {
			x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, names[i], err)
			}
			cols[i] = append(cols[i], x)
		}
	}
	if len(cols[0]) == 0 {
		return nil, nil, fmt.Errorf("on file %q: no samples", name)
	}
	for i, n := range names {
		for _, x := range cols[i] {
			if math.IsNaN(x) {
				return nil, nil, fmt.Errorf("on file %q: field %q: NaN value", name, n)
			}
		}
	}
	return names, cols, nil
}
