// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to simulate
// allele samples from a Wright-Fisher diffusion.
package sim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/selpath/infer/measure"
	"github.com/js-arias/selpath/project"
	"github.com/js-arias/selpath/sample"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var Command = &command.Command{
	Usage: `sim [--alpha1 <value>] [--alpha2 <value>]
	[--freq <value>] [--times <value>,...] [--size <number>]
	[--seed <value>] [-f|--file <samples-file>]
	[--traj <file>]
	<project-file>`,
	Short: "simulate allele samples",
	Long: `
Command sim simulates an allele frequency path under a Wright-Fisher diffusion
with selection, and takes binomial samples from the path. The samples are
stored as the samples file of a project.

The argument of the command is the name of the project file. If no project
file exists, a new project will be created. The population size history, the
reference population size, and the step of the time grid are taken from the
project.

The flags --alpha1 and --alpha2 define the selection coefficients, scaled by
2*n0, of the heterozygote and the derived homozygote. By default both are 0.

The flag --freq defines the frequency of the allele at the first sample. The
default value is 0.1.

The flag --times defines the times of the samples, in generations, as a list
of comma separated values. The default is '0,500,1000,1500,2000'. The flag
--size defines the number of chromosomes in each sample. The default is 20.

By default, the seed of the random number generator is taken from the current
time. Use the flag --seed to set a seed.

By default the samples will be stored in the samples file currently defined
for the project. If the project does not have a samples file, a new one will
be created with the name 'samples.tab'. A different file name can be defined
using the flag --file, or -f.

The simulated path can be stored using the flag --traj with a file name. The
file will contain the time grid and the trajectory as two lines of space
separated values.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var alpha1 float64
var alpha2 float64
var startFreq float64
var timesFlag string
var sampleSize int
var seedFlag uint64
var samplesFile string
var trajFile string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&alpha1, "alpha1", 0, "")
	c.Flags().Float64Var(&alpha2, "alpha2", 0, "")
	c.Flags().Float64Var(&startFreq, "freq", 0.1, "")
	c.Flags().StringVar(&timesFlag, "times", "0,500,1000,1500,2000", "")
	c.Flags().IntVar(&sampleSize, "size", 20, "")
	c.Flags().Uint64Var(&seedFlag, "seed", 0, "")
	c.Flags().StringVar(&samplesFile, "file", "", "")
	c.Flags().StringVar(&samplesFile, "f", "", "")
	c.Flags().StringVar(&trajFile, "traj", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if startFreq <= 0 || startFreq >= 1 {
		return c.UsageError("flag --freq: frequency must be between 0 and 1")
	}
	if sampleSize < 1 {
		return c.UsageError("flag --size: expecting a positive number")
	}
	gens, err := parseTimes(timesFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --times: %v", err))
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	set, err := p.Settings()
	if err != nil {
		return err
	}
	pop, err := p.PopSize(set.N0())
	if err != nil {
		return err
	}

	seed := seedFlag
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed))
	src := exprand.NewSource(seed)

	n0 := set.N0()
	m := measure.New(pop, alpha1, alpha2)
	t0 := gens[0] / (2 * n0)
	t1 := gens[len(gens)-1] / (2 * n0)
	times, traj := m.Simulate(r, startFreq, t0, t1, set.DT())

	samples := make([]sample.Time, 0, len(gens))
	for _, g := range gens {
		x := freqAt(times, traj, g/(2*n0))
		bin := distuv.Binomial{
			N:   float64(sampleSize),
			P:   x,
			Src: src,
		}
		samples = append(samples, sample.Time{
			Time:     g,
			Oldest:   g,
			Youngest: g,
			Size:     sampleSize,
			Count:    int(bin.Rand()),
		})
	}

	if samplesFile == "" {
		samplesFile = p.Path(project.Samples)
		if samplesFile == "" {
			samplesFile = "samples.tab"
		}
	}
	if err := writeSamples(samplesFile, samples); err != nil {
		return err
	}
	p.Add(project.Samples, samplesFile)
	if err := p.Write(); err != nil {
		return err
	}

	if trajFile != "" {
		if err := writeTraj(trajFile, times, traj); err != nil {
			return err
		}
	}
	return nil
}

func parseTimes(s string) ([]float64, error) {
	var gens []float64
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		g, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	if len(gens) < 2 {
		return nil, errors.New("expecting at least two sample times")
	}
	slices.Sort(gens)
	gens = slices.Compact(gens)
	if len(gens) < 2 {
		return nil, errors.New("expecting at least two different sample times")
	}
	return gens, nil
}

// FreqAt returns the frequency
// at the closest point of the time grid.
func freqAt(times, traj []float64, t float64) float64 {
	i, ok := slices.BinarySearch(times, t)
	if ok {
		return traj[i]
	}
	if i == len(times) {
		return traj[len(traj)-1]
	}
	if i > 0 && t-times[i-1] < times[i]-t {
		return traj[i-1]
	}
	return traj[i]
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func writeSamples(name string, samples []sample.Time) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := sample.Write(f, samples); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func writeTraj(name string, times, traj []float64) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	for _, v := range [][]float64{times, traj} {
		for i, x := range v {
			if i > 0 {
				fmt.Fprintf(f, " ")
			}
			fmt.Fprintf(f, "%.20g", x)
		}
		fmt.Fprintf(f, "\n")
	}
	return nil
}
