// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(popSizeGuide)
	app.Add(projectsGuide)
	app.Add(samplesGuide)
	app.Add(settingsGuide)
	app.Add(traceGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Selpath requires several files to read and process allele data. To reduce the
burden of keeping track of many files, a single project file is used to hold
the reference of all files required in the analysis. This guide explains the
structure of the file, but most of the time, the best and most secure way to
edit or view this file is by using selpath commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# selpath project files
	dataset	path
	popsize	popsize.tab
	samples	samples.tab
	settings	settings.tab

The valid file types are:

- Allele samples. Defined by the dataset keyword "samples". This file
  contains the allele counts sampled at different times in the form of a
  tab-delimited file. The recommended way to add a samples file is by using
  the command 'selpath add'.
- Population size. Defined by the dataset keyword "popsize". This file
  contains the population size history in the form of a tab-delimited file.
  If it is not defined, a population of constant size will be used. The
  recommended way to add a population size file is by using the command
  'selpath add'.
- MCMC settings. Defined by the dataset keyword "settings". This file
  contains the parameters of the MCMC in the form of a tab-delimited file. If
  it is not defined, the default settings will be used. The recommended way
  to add or edit a settings file is by using the command 'selpath param'.
	`,
}

var samplesGuide = &command.Command{
	Usage: "sample-files",
	Short: "about allele sample files",
	Long: `
In selpath, allele samples are stored in a tab-delimited file with the
following fields:

	- time      the time of the sample, in generations
	- size      the number of sampled chromosomes
	- count     the number of derived alleles in the sample
	- oldest    optional, the oldest possible time of the sample
	- youngest  optional, the youngest possible time of the sample

Time goes forward, so the oldest time is smaller than the youngest time.
Negative values are valid. If the oldest and youngest times are different,
the time of the sample is uncertain, and it will be sampled by the MCMC.
Uncertain times can only be used if the allele age is also inferred.

Here is an example file:

	# allele samples
	time	size	count	oldest	youngest
	-4000	20	1	-4500	-3500
	-2000	20	5	-2000	-2000
	0	20	12	0	0

If several samples share the same time, their counts are pooled when
building the initial path.
	`,
}

var popSizeGuide = &command.Command{
	Usage: "popsize-files",
	Short: "about population size files",
	Long: `
The population size is a piecewise constant function of time. It is stored in
a tab-delimited file with the following fields:

	- start  the time, in generations, in which the epoch starts
	- size   the number of individuals of the population in the epoch

The first epoch extends to the oldest time, and the last epoch extends to the
present. The sizes are scaled by the reference population size (the "n0"
parameter of the settings), and the times are scaled in units of 2*n0
generations.

Here is an example file:

	# population size
	start	size
	-8000	10000
	-3000	5000
	-1000	20000
	`,
}

var settingsGuide = &command.Command{
	Usage: "settings-files",
	Short: "about MCMC settings files",
	Long: `
The parameters of an MCMC run are stored in a tab-delimited file with the
following fields:

	- parameter  the name of the parameter
	- value      the value of the parameter

The valid parameters are:

	gen       number of generations of the MCMC (default 1000000)
	print     frequency of the progress lines (default 1000)
	sample    frequency of the samples in the trace files (default 1000)
	dt        step of the time grid, in 2*n0 generations (default 0.001)
	grid      grid steps updated by a path proposal (default 10)
	output    base name of the trace files (default "selpath")
	n0        reference population size (default 10000)
	a1start   starting value of alpha1 (default 0)
	a2start   starting value of alpha2 (default 0)
	a1prop    proposal weight of alpha1 (default 1)
	a2prop    proposal weight of alpha2 (default 1)
	ageprop   proposal weight of the start frequency,
	          or the allele age (default 2)
	endprop   proposal weight of the end frequency (default 2)
	timeprop  proposal weight of each uncertain time (default 1)
	pathprop  proposal weight of the path (default 5)
	age       if true, the allele age is inferred (default false)
	origin    allele frequency at the allele origin (default 0.0001)
	linked    if true, use linked sites (not implemented)
	seed      seed of the random number generator,
	          if 0, a time based seed is used (default 0)

Selection coefficients are scaled by 2*n0: alpha1 is the coefficient of the
heterozygote, and alpha2 the coefficient of the derived homozygote.

Here is an example file:

	# selpath settings
	parameter	value
	gen	100000
	sample	100
	age	true
	`,
}

var traceGuide = &command.Command{
	Usage: "trace-files",
	Short: "about MCMC trace files",
	Long: `
An MCMC run writes three files, with the output name as prefix.

The file with the '.param' extension is a tab-delimited file with the
following fields:

	- gen            the generation
	- lnL            the log likelihood of the samples
	- pathlnL        the log density of the path
	                 with respect to a Wiener process
	- alpha1         the selection coefficient of the heterozygote
	- alpha2         the selection coefficient of the derived homozygote
	- start_freq     the frequency at the start of the path
	                 (if the allele age is not inferred)
	- age            the age of the allele, in 2*n0 generations
	                 (if the allele age is inferred)
	- end_freq       the frequency at the end of the path
	- sample_time_i  the time of each sample with an uncertain time

The file with the '.traj' extension contains a line for each sampled
generation: the generation, and the frequencies of the path, separated by
spaces. The file with the '.time' extension contains the time grid of each
sampled path, in the same format.
	`,
}
