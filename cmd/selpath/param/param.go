// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to manage
// the MCMC settings of a project.
package param

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/selpath/project"
	"github.com/js-arias/selpath/settings"
)

var Command = &command.Command{
	Usage: `param [--add <settings-file>] [--file <file-name>]
	<project-file> [<parameter>=<value>...]`,
	Short: "manage MCMC settings",
	Long: `
Command param manages the settings of the MCMC defined for a selpath project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

By default, the command will print the currently defined settings.

If the flag --add is defined, it will use the indicated file as the settings
file of the project.

One or more parameters can be set with arguments of the form
<parameter>=<value>, for example:

	selpath param project.tab gen=100000 age=true

See 'selpath help settings-files' for the valid parameters.

By default, any change on the settings will be stored in the current settings
file. If the project does not have a settings file, a new one will be created
with the name 'settings.tab'. Use the flag --file to define a new settings
file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var setFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
	c.Flags().StringVar(&setFile, "file", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	if addFile != "" {
		if _, err := settings.Read(addFile); err != nil {
			return err
		}
		p.Add(project.Settings, addFile)
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}

	set, err := p.Settings()
	if err != nil {
		return err
	}
	if set.Name() == "" {
		set.SetName("settings.tab")
	}
	if setFile != "" {
		set.SetName(setFile)
	}

	ed := false
	for _, a := range args[1:] {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return c.UsageError(fmt.Sprintf("invalid argument %q: expecting <parameter>=<value>", a))
		}
		prm := settings.Param(strings.ToLower(strings.TrimSpace(k)))
		if _, ok := set.Get(prm); !ok {
			return c.UsageError(fmt.Sprintf("unknown parameter %q", k))
		}
		if err := set.Set(prm, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("parameter %q: %v", k, err)
		}
		ed = true
	}

	if p.Path(project.Settings) != set.Name() {
		if err := set.Write(); err != nil {
			return err
		}
		p.Add(project.Settings, set.Name())
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}
	if ed {
		if err := set.Write(); err != nil {
			return err
		}
		return nil
	}

	printSettings(c.Stdout(), set)
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

func printSettings(w io.Writer, set *settings.Settings) {
	fmt.Fprintf(w, "file: %s\n", set.Name())
	for _, p := range settings.Params {
		v, _ := set.Get(p)
		fmt.Fprintf(w, "%-9s %s\n", string(p)+":", v)
	}
}
