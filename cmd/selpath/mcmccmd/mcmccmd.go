// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmccmd implements a command to sample
// allele frequency paths and selection coefficients
// using a Markov chain Monte Carlo.
package mcmccmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/selpath/infer/mcmc"
	"github.com/js-arias/selpath/project"
	"github.com/js-arias/selpath/sample"
)

var Command = &command.Command{
	Usage: `mcmc [--seed <value>] [-o|--output <prefix>]
	[--quiet] <project-file>`,
	Short: "perform a Bayesian inference of selection",
	Long: `
Command mcmc reads a selpath project and samples allele frequency paths,
selection coefficients, and optionally, the age of the allele, using a
Markov chain Monte Carlo.

The argument of the command is the name of the project file.

The parameters of the MCMC are read from the settings file of the project. If
no settings are defined, the default values will be used. See 'selpath help
settings-files' for the valid parameters.

The chain is written into three files: a file with the parameter values, with
the extension '.param', a file with the sampled trajectories, with the
extension '.traj', and a file with the time grid of each sampled trajectory,
with the extension '.time'. See 'selpath help trace-files' for the format of
the files. The prefix of the output files is the output name defined in the
settings. To set a different prefix, use the flag --output, or -o.

By default, the random seed is read from the settings. If it is 0, the seed
is taken from the current time. Use the flag --seed to set a different seed.

While running, the command prints the progress of the chain into the standard
output. Each line contains the generation, the index of the proposed
parameter, the old and new sampling log likelihoods, the likelihood ratio,
the proposal ratio, the prior ratio, the Metropolis-Hastings ratio, the
logarithm of the acceptance draw, and whether the proposal was accepted. Use
the flag --quiet to suppress the progress lines.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seedFlag uint64
var output string
var quiet bool

func setFlags(c *command.Command) {
	c.Flags().Uint64Var(&seedFlag, "seed", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().BoolVar(&quiet, "quiet", false, "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	set, err := p.Settings()
	if err != nil {
		return err
	}
	if set.Linked() {
		fmt.Fprintf(c.Stderr(), "inference with linked sites is not implemented\n")
		return nil
	}
	if output == "" {
		output = set.Output()
	}

	samples, err := p.Samples()
	if err != nil {
		return err
	}
	sample.Scale(samples, set.N0())

	pop, err := p.PopSize(set.N0())
	if err != nil {
		return err
	}

	seed := set.Seed()
	if seedFlag != 0 {
		seed = seedFlag
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed))

	chain, err := mcmc.New(set, samples, pop, r)
	if err != nil {
		return reportError(c.Stderr(), err)
	}

	paramF, err := os.Create(output + ".param")
	if err != nil {
		return err
	}
	defer closeFile(paramF, &err)
	trajF, err := os.Create(output + ".traj")
	if err != nil {
		return err
	}
	defer closeFile(trajF, &err)
	timeF, err := os.Create(output + ".time")
	if err != nil {
		return err
	}
	defer closeFile(timeF, &err)

	var progress io.Writer = c.Stdout()
	if quiet {
		progress = io.Discard
	}
	tr := mcmc.NewTrace(paramF, trajF, timeF)
	if err := chain.Run(tr, progress); err != nil {
		tr.Flush()
		return reportError(c.Stderr(), err)
	}
	return nil
}

// ReportError writes the path of a divergent chain.
func reportError(w io.Writer, err error) error {
	var de *mcmc.DivergenceError
	if !errors.As(err, &de) {
		return err
	}
	fmt.Fprintf(w, "# trajectory\n")
	for i, x := range de.Traj {
		if i > 0 {
			fmt.Fprintf(w, " ")
		}
		fmt.Fprintf(w, "%.20g", x)
	}
	fmt.Fprintf(w, "\n# time\n")
	for i, t := range de.Times {
		if i > 0 {
			fmt.Fprintf(w, " ")
		}
		fmt.Fprintf(w, "%.20g", t)
	}
	fmt.Fprintf(w, "\n")
	return err
}

func closeFile(f *os.File, err *error) {
	e := f.Close()
	if e != nil && *err == nil {
		*err = e
	}
}
