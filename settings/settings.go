// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package settings implements reading and writing
// of the parameters of an MCMC run.
package settings

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Param is a keyword to identify
// the type of parameter in a settings file.
type Param string

// Valid parameters
const (
	// Generations is the number of generations of the MCMC.
	Generations Param = "gen"

	// PrintFreq is the frequency of progress lines.
	PrintFreq Param = "print"

	// SampleFreq is the frequency of the samples
	// written into the trace files.
	SampleFreq Param = "sample"

	// DT is the step of the time grid,
	// in diffusion time units.
	DT Param = "dt"

	// Grid is the number of grid steps
	// updated by a path proposal.
	Grid Param = "grid"

	// Output is the base name of the trace files.
	Output Param = "output"

	// N0 is the reference population size.
	N0 Param = "n0"

	// Starting values of the selection coefficients.
	A1Start Param = "a1start"
	A2Start Param = "a2start"

	// Proposal weights of each parameter type.
	A1Prop   Param = "a1prop"
	A2Prop   Param = "a2prop"
	AgeProp  Param = "ageprop"
	EndProp  Param = "endprop"
	TimeProp Param = "timeprop"
	PathProp Param = "pathprop"

	// InferAge sets the inference of the allele age.
	InferAge Param = "age"

	// Origin is the allele frequency
	// at the allele origin.
	Origin Param = "origin"

	// Linked sets the inference with linked sites.
	Linked Param = "linked"

	// Seed is the seed of the random source.
	Seed Param = "seed"
)

// Params is the list of valid parameters
// in the order used in settings files.
var Params = []Param{
	Generations,
	PrintFreq,
	SampleFreq,
	DT,
	Grid,
	Output,
	N0,
	A1Start,
	A2Start,
	A1Prop,
	A2Prop,
	AgeProp,
	EndProp,
	TimeProp,
	PathProp,
	InferAge,
	Origin,
	Linked,
	Seed,
}

// Settings is a collection of MCMC parameters.
type Settings struct {
	name string // file name

	gen    int
	print  int
	sample int
	grid   int
	dt     float64
	output string
	n0     float64

	a1, a2 float64

	a1Prop, a2Prop   float64
	ageProp, endProp float64
	timeProp         float64
	pathProp         float64

	inferAge bool
	origin   float64
	linked   bool
	seed     uint64
}

// New creates a new collection of settings
// with default values.
func New(name string) *Settings {
	return &Settings{
		name:     name,
		gen:      1_000_000,
		print:    1000,
		sample:   1000,
		grid:     10,
		dt:       0.001,
		output:   "selpath",
		n0:       10_000,
		a1Prop:   1,
		a2Prop:   1,
		ageProp:  2,
		endProp:  2,
		timeProp: 1,
		pathProp: 5,
		origin:   0.0001,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a settings file from a TSV file.
//
// The TSV must contains the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# selpath settings
//	parameter	value
//	gen	100000
//	print	100
//	sample	100
//	age	true
func Read(name string) (*Settings, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := read(f, name)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return s, nil
}

func read(r io.Reader, name string) (*Settings, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	s := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		p := Param(strings.ToLower(strings.TrimSpace(row[fields["parameter"]])))
		v := strings.TrimSpace(row[fields["value"]])
		if err := s.Set(p, v); err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, "value", err)
		}
	}
	return s, nil
}

// Set sets a parameter from its string value.
// Unknown parameters are ignored.
func (s *Settings) Set(p Param, v string) error {
	switch p {
	case Generations:
		return setInt(&s.gen, v, 1)
	case PrintFreq:
		return setInt(&s.print, v, 1)
	case SampleFreq:
		return setInt(&s.sample, v, 1)
	case Grid:
		return setInt(&s.grid, v, 1)
	case DT:
		return setPositive(&s.dt, v)
	case Output:
		if v == "" {
			return errors.New("empty output name")
		}
		s.output = v
	case N0:
		return setPositive(&s.n0, v)
	case A1Start:
		return setFloat(&s.a1, v)
	case A2Start:
		return setFloat(&s.a2, v)
	case A1Prop:
		return setWeight(&s.a1Prop, v)
	case A2Prop:
		return setWeight(&s.a2Prop, v)
	case AgeProp:
		return setWeight(&s.ageProp, v)
	case EndProp:
		return setWeight(&s.endProp, v)
	case TimeProp:
		return setWeight(&s.timeProp, v)
	case PathProp:
		return setWeight(&s.pathProp, v)
	case InferAge:
		return setBool(&s.inferAge, v)
	case Origin:
		var o float64
		if err := setPositive(&o, v); err != nil {
			return err
		}
		if o >= 1 {
			return fmt.Errorf("invalid origin frequency %q", v)
		}
		s.origin = o
	case Linked:
		return setBool(&s.linked, v)
	case Seed:
		sd, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		s.seed = sd
	}
	return nil
}

// Get returns the value of a parameter
// as a string.
// It returns false if the parameter is not valid.
func (s *Settings) Get(p Param) (string, bool) {
	ff := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	switch p {
	case Generations:
		return strconv.Itoa(s.gen), true
	case PrintFreq:
		return strconv.Itoa(s.print), true
	case SampleFreq:
		return strconv.Itoa(s.sample), true
	case DT:
		return ff(s.dt), true
	case Grid:
		return strconv.Itoa(s.grid), true
	case Output:
		return s.output, true
	case N0:
		return ff(s.n0), true
	case A1Start:
		return ff(s.a1), true
	case A2Start:
		return ff(s.a2), true
	case A1Prop:
		return ff(s.a1Prop), true
	case A2Prop:
		return ff(s.a2Prop), true
	case AgeProp:
		return ff(s.ageProp), true
	case EndProp:
		return ff(s.endProp), true
	case TimeProp:
		return ff(s.timeProp), true
	case PathProp:
		return ff(s.pathProp), true
	case InferAge:
		return strconv.FormatBool(s.inferAge), true
	case Origin:
		return ff(s.origin), true
	case Linked:
		return strconv.FormatBool(s.linked), true
	case Seed:
		return strconv.FormatUint(s.seed, 10), true
	}
	return "", false
}

func setInt(p *int, v string, min int) error {
	i, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if i < min {
		return fmt.Errorf("invalid value %d", i)
	}
	*p = i
	return nil
}

func setFloat(p *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*p = f
	return nil
}

func setPositive(p *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if f <= 0 {
		return fmt.Errorf("invalid value %q", v)
	}
	*p = f
	return nil
}

func setWeight(p *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if f < 0 {
		return fmt.Errorf("invalid proposal weight %q", v)
	}
	*p = f
	return nil
}

func setBool(p *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*p = b
	return nil
}

// Name returns the name of the settings file.
func (s *Settings) Name() string { return s.name }

// Generations returns the number of MCMC generations.
func (s *Settings) Generations() int { return s.gen }

// PrintFreq returns the frequency of progress lines.
func (s *Settings) PrintFreq() int { return s.print }

// SampleFreq returns the frequency of trace samples.
func (s *Settings) SampleFreq() int { return s.sample }

// Grid returns the number of grid steps
// updated on each path proposal.
func (s *Settings) Grid() int { return s.grid }

// DT returns the step of the time grid.
func (s *Settings) DT() float64 { return s.dt }

// Output returns the base name of the output files.
func (s *Settings) Output() string { return s.output }

// N0 returns the reference population size.
func (s *Settings) N0() float64 { return s.n0 }

// A1Start and A2Start return the starting values
// of the selection coefficients.
func (s *Settings) A1Start() float64 { return s.a1 }
func (s *Settings) A2Start() float64 { return s.a2 }

// Proposal weights.
func (s *Settings) A1Prop() float64   { return s.a1Prop }
func (s *Settings) A2Prop() float64   { return s.a2Prop }
func (s *Settings) AgeProp() float64  { return s.ageProp }
func (s *Settings) EndProp() float64  { return s.endProp }
func (s *Settings) TimeProp() float64 { return s.timeProp }
func (s *Settings) PathProp() float64 { return s.pathProp }

// InferAge returns true if the allele age is inferred.
func (s *Settings) InferAge() bool { return s.inferAge }

// Origin returns the allele frequency at its origin.
func (s *Settings) Origin() float64 { return s.origin }

// Linked returns true if linked sites are requested.
func (s *Settings) Linked() bool { return s.linked }

// Seed returns the seed of the random source.
// A zero value means a time based seed.
func (s *Settings) Seed() uint64 { return s.seed }

// SetName sets the name of the settings file.
func (s *Settings) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.name = name
}

// Write writes the settings into a file.
func (s *Settings) Write() (err error) {
	f, err := os.Create(s.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := s.write(f); err != nil {
		return fmt.Errorf("on file %q: %v", s.name, err)
	}
	return nil
}

func (s *Settings) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# selpath settings\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, p := range Params {
		v, _ := s.Get(p)
		if err := tsv.Write([]string{string(p), v}); err != nil {
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
