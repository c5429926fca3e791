// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package param

import "math/rand/v2"

// DefAlphaTuning is the default proposal scale
// for selection coefficients.
const DefAlphaTuning = 5.0

// Alpha is a selection coefficient
// with a flat prior.
type Alpha struct {
	scalar
	kind Kind
}

// NewAlpha returns a new selection coefficient.
// Kind should be Alpha1 or Alpha2.
func NewAlpha(k Kind, start float64) *Alpha {
	if k != Alpha1 && k != Alpha2 {
		panic("param: invalid selection coefficient kind")
	}
	a := &Alpha{kind: k}
	a.v.cur = start
	a.tuning = DefAlphaTuning
	return a
}

func (a *Alpha) Kind() Kind   { return a.kind }
func (a *Alpha) Name() string { return a.kind.String() }

// Propose uses a symmetric normal proposal.
func (a *Alpha) Propose(r *rand.Rand) (float64, error) {
	a.v.propose(a.v.cur + a.tuning*r.NormFloat64())
	return 0, nil
}

// Prior is flat.
func (a *Alpha) Prior() float64 {
	return 0
}

func (a *Alpha) Reset() {
	a.v.reset()
}
