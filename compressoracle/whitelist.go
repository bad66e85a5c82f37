// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package compressoracle

import (
	"strings"

	"github.com/pristinearchive/retar/errkinds"
)

// gzValueFlags are the gz tokens which consume the following token as a
// value rather than standing alone.
var gzValueFlags = map[string]bool{
	"--quirk":   true,
	"--osflag":  true,
}

// gzBareTokens are the gz tokens that never take a value. --original-name
// is deliberately bare: the actual filename bytes travel in the wrapper
// delta's separate `filename` entry (see gzipcandidates), not inline in
// this space-separated string, so that filenames containing spaces round
// trip exactly.
var gzBareTokens = map[string]bool{
	"--gnu": true, "--rsyncable": true, "-n": true, "-m": true, "-M": true,
	"--original-name": true,
}

func isGzLevelToken(tok string) bool {
	return len(tok) == 2 && tok[0] == '-' && tok[1] >= '1' && tok[1] <= '9'
}

// ValidateGzipParams checks a stored gz wrapper delta's params string
// against the whitelist in spec §4.1, before any compressor process is
// spawned.
func ValidateGzipParams(params string) error {
	toks := strings.Fields(params)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case gzBareTokens[t], isGzLevelToken(t):
			continue
		case gzValueFlags[t]:
			if i+1 >= len(toks) {
				return &errkinds.ParamValidationError{Type: "gz", Token: t}
			}
			i++ // skip the value
		default:
			return &errkinds.ParamValidationError{Type: "gz", Token: t}
		}
	}
	return nil
}

// bz2BareTokens are the whitelisted bz2 params tokens (spec §4.1).
var bz2BareTokens = map[string]bool{
	"--old-bzip2": true,
}

func isBz2LevelToken(tok string) bool {
	return len(tok) == 2 && tok[0] == '-' && tok[1] >= '1' && tok[1] <= '9'
}

// ValidateBzip2Params checks a stored bz2 wrapper delta's params string
// against the whitelist in spec §4.1.
func ValidateBzip2Params(params string) error {
	for _, t := range strings.Fields(params) {
		if bz2BareTokens[t] || isBz2LevelToken(t) {
			continue
		}
		return &errkinds.ParamValidationError{Type: "bz2", Token: t}
	}
	return nil
}

// Bz2SupportedPrograms are the bz2 compressor binaries a wrapper delta may
// name (spec §3, §4.1).
var Bz2SupportedPrograms = map[string]bool{
	"bzip2": true, "pbzip2": true, "zgz": true,
}

// ValidateBzip2Program checks a stored bz2 wrapper delta's program field.
func ValidateBzip2Program(program string) error {
	if !Bz2SupportedPrograms[program] {
		return &errkinds.ParamValidationError{Type: "bz2", Token: program}
	}
	return nil
}
