// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add
// data files to a selpath project.
package add

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/project"
	"github.com/js-arias/selpath/sample"
)

var Command = &command.Command{
	Usage: `add [--type <dataset>] <project-file> <file>`,
	Short: "add a data file to a project",
	Long: `
Command add checks that a file is a valid data file and adds it to a selpath
project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

The second argument is the name of the file to be added.

By default, the file is added as an allele samples file. Use the flag --type
to set a different type of file. Valid values are:

	samples   allele samples (see 'selpath help sample-files')
	popsize   population size (see 'selpath help popsize-files')
	`,
	SetFlags: setFlags,
	Run:      run,
}

var typeFlag string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&typeFlag, "type", "samples", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting data file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	name := args[1]

	var set project.Dataset
	switch typeFlag {
	case "samples":
		set = project.Samples
		err = checkSamples(name)
	case "popsize":
		set = project.PopSize
		err = checkPopSize(name)
	default:
		return c.UsageError(fmt.Sprintf("flag --type: unknown dataset %q", typeFlag))
	}
	if err != nil {
		return err
	}

	p.Add(set, name)
	if err := p.Write(); err != nil {
		return err
	}
	return nil
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

func checkSamples(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := sample.Read(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func checkPopSize(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	// any reference size is valid to check the file
	if _, err := popsize.Read(f, 1); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
