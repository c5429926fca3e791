// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/selpath/popsize"
	"github.com/js-arias/selpath/sample"
	"github.com/js-arias/selpath/settings"
)

// Settings reads the MCMC settings
// as defined in a project.
// If no file is defined,
// it returns the default settings.
func (p *Project) Settings() (*settings.Settings, error) {
	name := p.Path(Settings)
	if name == "" {
		return settings.New(""), nil
	}
	return settings.Read(name)
}

// Samples reads the allele count samples
// as defined in a project.
func (p *Project) Samples() ([]sample.Time, error) {
	name := p.Path(Samples)
	if name == "" {
		return nil, fmt.Errorf("samples not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := sample.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return st, nil
}

// PopSize reads the population size function
// as defined in a project.
// If no file is defined,
// it returns a constant size function.
func (p *Project) PopSize(n0 float64) (*popsize.Func, error) {
	name := p.Path(PopSize)
	if name == "" {
		return popsize.Constant(n0), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ps, err := popsize.Read(f, n0)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return ps, nil
}
