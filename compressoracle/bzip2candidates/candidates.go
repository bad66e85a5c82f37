// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bzip2candidates

import "strconv"

// Candidate is a plausible bz2 compressor invocation.
type Candidate struct {
	Program string
	Args    []string
}

// Programs lists the bz2-compatible compressor binaries tried, in order
// (spec §3, §4.1).
var Programs = []string{"bzip2", "pbzip2", "zgz"}

// Derive builds the default (non-try-harder) candidate list: for each
// program, the level flag derived from the header, plus --old-bzip2 for
// zgz.
func Derive(h Header) []Candidate {
	level := "-" + string(h.Level)
	out := make([]Candidate, 0, len(Programs))
	for _, prog := range Programs {
		args := []string{level}
		if prog == "zgz" {
			args = append(args, "--old-bzip2")
		}
		out = append(out, Candidate{Program: prog, Args: args})
	}
	return out
}

// BlockSizeSweep returns the pbzip2 -b<N> values to try, in the order
// spec §4.1 mandates: 1..10 (skipping 9, already tried as the header-derived
// default), then 15, 20, ..., 95, then every remaining value from 11..100
// filling the gaps left by the first two passes.
func BlockSizeSweep() []int {
	tried := map[int]bool{9: true}
	var order []int

	for n := 1; n <= 10; n++ {
		if tried[n] {
			continue
		}
		tried[n] = true
		order = append(order, n)
	}
	for n := 15; n <= 95; n += 5 {
		tried[n] = true
		order = append(order, n)
	}
	for n := 11; n <= 100; n++ {
		if tried[n] {
			continue
		}
		tried[n] = true
		order = append(order, n)
	}
	return order
}

// DeriveTryHarder builds the pbzip2 candidates for the block-size sweep,
// each combined with the level flag the header reported plus whatever
// -b<N> the sweep is currently trying.
func DeriveTryHarder(h Header) []Candidate {
	level := "-" + string(h.Level)
	sweep := BlockSizeSweep()
	out := make([]Candidate, 0, len(sweep))
	for _, n := range sweep {
		out = append(out, Candidate{
			Program: "pbzip2",
			Args:    []string{level, "-b" + strconv.Itoa(n)},
		})
	}
	return out
}
