// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package compressoracle

// Candidate is one plausible compressor invocation in the oracle's ordered
// search (spec §4.1/§5): a program name, its argument list, and (for bz2)
// which of several compatible binaries to use. Candidates are cheap to
// construct; gzipcandidates and bzip2candidates build the whole ordered
// list up front as plain argument lists, and no candidate's compressed
// output is materialised, so the caller can stop at the first exact match.
type Candidate struct {
	// Program is the external compressor binary to invoke.
	Program string

	// Args is the full argument list, in the exact order that will be
	// persisted (space-joined) into a wrapper delta's `params` entry.
	Args []string
}

// ParamString renders Args the way they are stored in a wrapper delta's
// `params` entry: space-separated, in order.
func (c Candidate) ParamString() string {
	out := ""
	for i, a := range c.Args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
