// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plotcmd implements a command to draw
// the allele frequency paths sampled by an MCMC.
package plotcmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/selpath/gradient"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `plot [--burnin <value>] [--max <number>]
	[--n0 <value>] [--gradient <name>]
	[-o|--output <file>]
	<trace-prefix>`,
	Short: "draw the sampled allele frequency paths",
	Long: `
Command plot reads the trajectory and time grid files produced by
'selpath mcmc' and draws the sampled allele frequency paths as a PNG image.

The argument of the command is the prefix of the trace files, i.e., the file
names without the '.traj' and '.time' extensions.

By default, the first 10% of the samples are discarded as burn-in. Use the
flag --burnin to set a different proportion, as a value between 0 and 1. By
default, at most 100 paths are drawn, evenly spaced along the chain. Use the
flag --max to set a different number.

By default, time is drawn in diffusion units (2*n0 generations). Use the flag
--n0 with the reference population size to draw time in generations.

Paths are colored by their generation in the chain. Use the flag --gradient to
set the color scheme. Valid values are 'gray', 'incandescent', 'iridescent'
(the default), and 'rainbow'.

By default, the image is stored with the trace prefix and the '.png'
extension. Use the flag --output, or -o, to set a different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var burnin float64
var maxPaths int
var n0 float64
var gradName string
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&burnin, "burnin", 0.1, "")
	c.Flags().IntVar(&maxPaths, "max", 100, "")
	c.Flags().Float64Var(&n0, "n0", 0, "")
	c.Flags().StringVar(&gradName, "gradient", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting trace prefix")
	}
	if burnin < 0 || burnin >= 1 {
		return c.UsageError("flag --burnin: value must be between 0 and 1")
	}
	if maxPaths < 1 {
		return c.UsageError("flag --max: expecting a positive number")
	}
	g, err := gradient.Parse(gradName)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --gradient: %v", err))
	}

	prefix := args[0]
	traj, err := readLines(prefix + ".traj")
	if err != nil {
		return err
	}
	times, err := readLines(prefix + ".time")
	if err != nil {
		return err
	}
	if len(traj) != len(times) {
		return fmt.Errorf("trace %q: %d trajectories, %d time grids", prefix, len(traj), len(times))
	}

	skip := int(float64(len(traj)) * burnin)
	traj = traj[skip:]
	times = times[skip:]
	if len(traj) == 0 {
		return fmt.Errorf("trace %q: no samples after burn-in", prefix)
	}

	step := 1
	if len(traj) > maxPaths {
		step = len(traj) / maxPaths
	}

	scale := 1.0
	xLabel := "time (2N0 generations)"
	if n0 > 0 {
		scale = 2 * n0
		xLabel = "time (generations)"
	}

	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "frequency"
	p.Y.Min = 0
	p.Y.Max = 1

	for i := 0; i < len(traj); i += step {
		tr, tm := traj[i], times[i]
		if len(tr.values) != len(tm.values) {
			return fmt.Errorf("trace %q: generation %d: %d frequencies, %d times", prefix, tr.gen, len(tr.values), len(tm.values))
		}
		xys := make(plotter.XYs, len(tr.values))
		for j, x := range tr.values {
			xys[j].X = tm.values[j] * scale
			xys[j].Y = x
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("trace %q: generation %d: %v", prefix, tr.gen, err)
		}
		v := 0.0
		if len(traj) > 1 {
			v = float64(i) / float64(len(traj)-1)
		}
		line.Color = g.Gradient(v)
		p.Add(line)
	}

	if output == "" {
		output = prefix + ".png"
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, output); err != nil {
		return err
	}
	return nil
}

// A sampled is a line of a trace file.
type sampled struct {
	gen    int
	values []float64
}

func readLines(name string) ([]sampled, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []sampled
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for ln := 1; s.Scan(); ln++ {
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		gen, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("on file %q: on line %d: %v", name, ln, err)
		}
		values := make([]float64, 0, len(fields)-1)
		for _, v := range fields[1:] {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on line %d: %v", name, ln, err)
			}
			values = append(values, x)
		}
		lines = append(lines, sampled{gen: gen, values: values})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return lines, nil
}
