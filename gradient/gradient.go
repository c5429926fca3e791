// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package gradient implements color gradients
// used to draw sampled trajectories.
package gradient

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/js-arias/blind"
)

// Gradienter is an interface for types
// that return a color gradient.
type Gradienter interface {
	Gradient(v float64) color.Color
}

// Parse returns a gradient from its name.
// Valid names are "gray", "incandescent",
// "iridescent", and "rainbow".
func Parse(name string) (Gradienter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gray", "grey":
		return GrayScale{}, nil
	case "incandescent":
		return Incandescent{}, nil
	case "iridescent", "":
		return Iridescent{}, nil
	case "rainbow":
		return RainbowPurpleToRed{}, nil
	}
	return nil, fmt.Errorf("unknown gradient %q", name)
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

// GrayScale returns a gray scale
// between 200 (light gray)
// and 0 (black).
type GrayScale struct{}

func (g GrayScale) Gradient(v float64) color.Color {
	c := 200 - uint8(clamp(v)*200)
	return color.RGBA{c, c, c, 255}
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	return blind.Sequential(blind.RainbowPurpleToRed, clamp(v))
}
