// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/project"
	"github.com/js-arias/selpath/sample"
	"github.com/js-arias/selpath/settings"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a selpath project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
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
	printSettings(c.Stdout(), set)

	if err := readSamples(c.Stdout(), p.Path(project.Samples), set.N0()); err != nil {
		return err
	}

	psF := p.Path(project.PopSize)
	if psF != "" {
		if err := readPopSize(c.Stdout(), psF, set.N0()); err != nil {
			return err
		}
	}

	return nil
}

func printSettings(w io.Writer, set *settings.Settings) {
	fmt.Fprintf(w, "MCMC settings:\n")
	if set.Name() != "" {
		fmt.Fprintf(w, "\tfile: %s\n", set.Name())
	} else {
		fmt.Fprintf(w, "\tfile: undefined (using defaults)\n")
	}
	fmt.Fprintf(w, "\tgenerations: %d\n", set.Generations())
	fmt.Fprintf(w, "\tsample frequency: %d\n", set.SampleFreq())
	fmt.Fprintf(w, "\treference size: %.0f\n", set.N0())
	fmt.Fprintf(w, "\tinfer allele age: %v\n", set.InferAge())
	fmt.Fprintf(w, "\toutput: %s\n", set.Output())
	fmt.Fprintf(w, "\n")
}

func readSamples(w io.Writer, name string, n0 float64) error {
	fmt.Fprintf(w, "Samples:\n")
	if name == "" {
		fmt.Fprintf(w, "\tfile: undefined\n")
		fmt.Fprintf(w, "\n")
		return nil
	}

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := sample.Read(f)
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}

	var chrom, uncertain int
	for _, s := range st {
		chrom += s.Size
		if s.Uncertain() {
			uncertain++
		}
	}
	first := st[0].Time
	last := st[len(st)-1].Time
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\tsamples: %d\n", len(st))
	fmt.Fprintf(w, "\tchromosomes: %d\n", chrom)
	fmt.Fprintf(w, "\tuncertain times: %d\n", uncertain)
	fmt.Fprintf(w, "\ttime range: %.1f-%.1f generations [%.6f-%.6f 2N0]\n", first, last, first/(2*n0), last/(2*n0))
	fmt.Fprintf(w, "\n")
	return nil
}

func readPopSize(w io.Writer, name string, n0 float64) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	ps, err := popsize.Read(f, n0)
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}

	fmt.Fprintf(w, "Population size:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\tepochs: %d\n", ps.Epochs())
	fmt.Fprintf(w, "\tpresent size: %.0f\n", ps.Size(0)*n0)
	fmt.Fprintf(w, "\n")
	return nil
}
