// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements the parameters
// updated by the MCMC.
//
// Each parameter proposes a new value,
// reports the prior ratio of the proposal,
// and can be reset to its previous value
// if the proposal is rejected.
package param

import (
	"math/rand/v2"
)

// Kind is the type of a parameter.
type Kind int

// Valid parameter kinds.
const (
	// Selection coefficient of the heterozygote.
	Alpha1 Kind = iota

	// Selection coefficient of the derived homozygote.
	Alpha2

	// Frequency at the start of the path.
	StartFreq

	// Frequency at the end of the path.
	EndFreq

	// Age of the allele.
	AlleleAge

	// Uncertain collection time of a sample.
	SampleTime

	// The whole path.
	WholePath
)

var kindNames = map[Kind]string{
	Alpha1:     "alpha1",
	Alpha2:     "alpha2",
	StartFreq:  "start_freq",
	EndFreq:    "end_freq",
	AlleleAge:  "age",
	SampleTime: "sample_time",
	WholePath:  "path",
}

func (k Kind) String() string {
	return kindNames[k]
}

// A Parameter is a parameter of the MCMC.
type Parameter interface {
	// Kind returns the type of the parameter.
	Kind() Kind

	// Name returns the name of the parameter
	// as used in the trace files.
	Name() string

	// Propose proposes a new value
	// and returns the log of the Hastings ratio
	// of the proposal.
	Propose(r *rand.Rand) (float64, error)

	// Prior returns the log of the prior ratio
	// between the proposed and the previous value.
	Prior() float64

	// Value returns the current value.
	Value() float64

	// Old returns the value before the last proposal.
	Old() float64

	// Reset restores the value before the last proposal.
	Reset()

	// Commit accepts the last proposal.
	Commit()

	IncreaseProp()
	IncreaseAccept()

	// UpdateTuning updates the proposal scale
	// using the acceptance rate
	// since the last update.
	UpdateTuning()

	// Proposals and Accepted return the number
	// of proposals and accepted proposals.
	Proposals() int
	Accepted() int
}

// Acceptance bounds used for tuning.
const (
	minAccept = 0.2
	maxAccept = 0.4
)

// A value is a two slot value holder.
// A proposal fills the pending slot
// that is cleared on commit,
// or restored on reset.
type value struct {
	cur     float64
	old     float64
	pending bool
}

func (v *value) propose(x float64) {
	if !v.pending {
		v.old = v.cur
	}
	v.cur = x
	v.pending = true
}

// Reset returns true if there was a pending value.
func (v *value) reset() bool {
	if !v.pending {
		return false
	}
	v.cur = v.old
	v.pending = false
	return true
}

func (v *value) commit() {
	v.pending = false
}

func (v *value) prev() float64 {
	if v.pending {
		return v.old
	}
	return v.cur
}

// Scalar is the shared state of a scalar parameter.
type scalar struct {
	v      value
	tuning float64

	props   int
	accepts int

	winProps   int
	winAccepts int
}

func (s *scalar) Value() float64 { return s.v.cur }
func (s *scalar) Old() float64   { return s.v.prev() }
func (s *scalar) Commit()        { s.v.commit() }
func (s *scalar) Proposals() int { return s.props }
func (s *scalar) Accepted() int  { return s.accepts }

// Tuning returns the current proposal scale.
func (s *scalar) Tuning() float64 { return s.tuning }

func (s *scalar) IncreaseProp() {
	s.props++
	s.winProps++
}

func (s *scalar) IncreaseAccept() {
	s.accepts++
	s.winAccepts++
}

func (s *scalar) UpdateTuning() {
	if s.winProps == 0 {
		return
	}
	rate := float64(s.winAccepts) / float64(s.winProps)
	switch {
	case rate > maxAccept:
		s.tuning *= 1.2
	case rate < minAccept:
		s.tuning *= 0.8
	}
	s.winProps = 0
	s.winAccepts = 0
}
