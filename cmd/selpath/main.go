// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Selpath is a tool for the inference of selection
// from allele frequency time series.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/selpath/cmd/selpath/add"
	"github.com/js-arias/selpath/cmd/selpath/mcmccmd"
	"github.com/js-arias/selpath/cmd/selpath/param"
	"github.com/js-arias/selpath/cmd/selpath/plotcmd"
	"github.com/js-arias/selpath/cmd/selpath/prj"
	"github.com/js-arias/selpath/cmd/selpath/sim"
	"github.com/js-arias/selpath/cmd/selpath/summary"
)

var app = &command.Command{
	Usage: "selpath <command> [<argument>...]",
	Short: "a tool for the inference of selection from allele time series",
}

func init() {
	app.Add(add.Command)
	app.Add(mcmccmd.Command)
	app.Add(param.Command)
	app.Add(plotcmd.Command)
	app.Add(prj.Command)
	app.Add(sim.Command)
	app.Add(summary.Command)
}

func main() {
	app.Main()
}
