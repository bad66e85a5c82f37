// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gzipcandidates

import "strconv"

// Candidate is a plausible gz compressor invocation. It is a plain struct
// (rather than compressoracle.Candidate) so that this package has no
// dependency on compressoracle, which in turn depends on this package to
// build its search order.
type Candidate struct {
	Args []string
}

// Program is the external compressor binary every gz Candidate invokes.
// The grammar accepted via Args (--gnu, --quirk, --osflag, ...) is retar's
// own, not necessarily the flags of any single real-world gzip build.
const Program = "gzip"

func levelArg(xfl byte) []string {
	switch xfl {
	case 2:
		return []string{"-9"}
	case 4:
		return []string{"-1"}
	}
	return nil
}

func baseArgs(h Header) []string {
	var args []string
	if !h.HasName {
		args = append(args, "-n")
		if h.MTime != 0 {
			args = append(args, "-M")
		}
	}
	args = append(args, levelArg(h.ExtraFlags)...)
	return args
}

func osFlagName(os byte) string {
	return strconv.Itoa(int(os))
}

// Derive builds the ordered candidate list spec §4.1 describes for a parsed
// gzip header: GNU variants first when OS says Unix, then a BSD-compatible
// variant honouring the stored name and OS flag, then the buggy-bsd quirk,
// then (when OS says NTFS) the ntfs quirk.
func Derive(h Header) []Candidate {
	base := baseArgs(h)
	var out []Candidate

	if h.OS == osUnix {
		gnu := append([]string{"--gnu"}, base...)
		out = append(out, Candidate{Args: gnu})

		gnuRsync := append([]string{"--gnu", "--rsyncable"}, base...)
		out = append(out, Candidate{Args: gnuRsync})
	}

	bsdArgs := append([]string{}, base...)
	if h.HasName {
		bsdArgs = append(bsdArgs, "--original-name")
	}
	bsdArgs = append(bsdArgs, "--osflag", osFlagName(h.OS))
	out = append(out, Candidate{Args: append([]string{}, bsdArgs...)})

	buggyBSD := append(append([]string{}, bsdArgs...), "--quirk", "buggy-bsd")
	out = append(out, Candidate{Args: buggyBSD})

	if h.OS == osNTFS {
		ntfs := append(append([]string{}, bsdArgs...), "--quirk", "ntfs")
		out = append(out, Candidate{Args: ntfs})
	}

	return out
}
