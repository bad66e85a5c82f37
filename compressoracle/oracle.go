// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package compressoracle

import (
	"context"
	"strconv"
	"strings"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/logging"

	"github.com/pristinearchive/retar/binpatch"
	"github.com/pristinearchive/retar/compressoracle/bzip2candidates"
	"github.com/pristinearchive/retar/compressoracle/gzipcandidates"
	"github.com/pristinearchive/retar/errkinds"
	"github.com/pristinearchive/retar/tardata"
)

// SearchOptions configures an oracle search. It mirrors the handful of
// retar.Options fields the oracle cares about; reproduce maps them across
// so this package stays free of a dependency on the retar facade.
type SearchOptions struct {
	TryHarder             bool
	MaxResidualPatchRatio float64
}

func (o SearchOptions) ratio() float64 {
	if o.MaxResidualPatchRatio <= 0 {
		return 0.10
	}
	return o.MaxResidualPatchRatio
}

// GzipResult carries everything a gz wrapper delta needs to persist
// (spec §3's Compressed-Wrapper Delta table).
type GzipResult struct {
	Version   string // "2.0" or "3.0"
	Params    string
	Filename  string
	Timestamp uint32
	SHA1      []byte
	Patch     []byte // nil unless Version == "3.0"
}

// IdentifyGzip runs the candidate search described in spec §4.1 against a
// gz member whose decompressed plaintext is known, returning the exact
// invocation (or, failing that, the smallest residual patch).
func IdentifyGzip(ctx context.Context, plaintext, original []byte, originalPath string, scratchDir string, opts SearchOptions) (GzipResult, error) {
	header, err := gzipcandidates.Parse(original)
	if err != nil {
		return GzipResult{}, errors.Annotate(err).Reason("parsing gz header").Err()
	}

	res := GzipResult{
		Filename:  header.OriginalName,
		Timestamp: header.MTime,
		SHA1:      tardata.SHA1Sum(original),
	}

	candidates := gzipcandidates.Derive(header)
	for _, c := range candidates {
		stored := Candidate{Program: gzipcandidates.Program, Args: c.Args}
		invoke := Candidate{Program: gzipcandidates.Program, Args: buildGzipInvocationArgs(c.Args, header.OriginalName, header.MTime)}
		ok, err := MatchesExactly(ctx, invoke, plaintext, originalPath)
		if err != nil {
			return GzipResult{}, err
		}
		if ok {
			res.Version = "2.0"
			res.Params = stored.ParamString()
			return res, nil
		}
	}

	// No exact match: re-run every candidate to completion and keep the
	// smallest residual patch (spec §4.1).
	var bestArgs string
	var bestPatch []byte
	for _, c := range candidates {
		stored := Candidate{Program: gzipcandidates.Program, Args: c.Args}
		invoke := Candidate{Program: gzipcandidates.Program, Args: buildGzipInvocationArgs(c.Args, header.OriginalName, header.MTime)}
		out, err := RunToCompletion(ctx, invoke, plaintext)
		if err != nil {
			logging.Debugf(ctx, "compressoracle: candidate %q failed to run: %s", stored.ParamString(), err)
			continue
		}
		patch, err := binpatch.Diff(ctx, out, original, scratchDir)
		if err != nil {
			return GzipResult{}, err
		}
		if bestPatch == nil || len(patch) < len(bestPatch) {
			bestPatch = patch
			bestArgs = stored.ParamString()
		}
	}
	if bestPatch == nil {
		return GzipResult{}, &errkinds.ReproductionFailureError{Type: "gz"}
	}

	warnOnLargeResidual(ctx, "gz", len(bestPatch), len(original), opts.ratio())

	res.Version = "3.0"
	res.Params = bestArgs
	res.Patch = bestPatch
	return res, nil
}

// RestoreGzip reconstructs a gz member's compressed bytes given a wrapper
// delta's stored params/filename/timestamp, validating params against the
// whitelist (spec §4.1) before ever spawning the compressor.
func RestoreGzip(ctx context.Context, params, filename string, timestamp uint32, plaintext []byte) ([]byte, error) {
	if err := ValidateGzipParams(params); err != nil {
		return nil, err
	}
	args := buildGzipInvocationArgs(strings.Fields(params), filename, timestamp)
	cand := Candidate{Program: gzipcandidates.Program, Args: args}
	return RunToCompletion(ctx, cand, plaintext)
}

// buildGzipInvocationArgs expands the stored (whitelisted) params tokens
// into the real invocation: --original-name is stored bare (its value
// would be unsafe to inline in a space-separated string) and gets the
// actual filename appended here; every other token passes through as-is.
func buildGzipInvocationArgs(tokens []string, filename string, timestamp uint32) []string {
	args := make([]string, 0, len(tokens)+2)
	for _, t := range tokens {
		args = append(args, t)
		if t == "--original-name" {
			args = append(args, filename)
		}
	}
	if containsToken(tokens, "-M") {
		args = append(args, "--timestamp", strconv.FormatUint(uint64(timestamp), 10))
	}
	return args
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// Bzip2Result carries everything a bz2 wrapper delta needs to persist.
type Bzip2Result struct {
	Version string // "2.0" only — spec defines no residual-patch fallback for bz2
	Program string
	Params  string
	SHA1    []byte
}

// IdentifyBzip2 runs the candidate search described in spec §4.1 against a
// bz2 member, including the optional pbzip2 block-size sweep.
func IdentifyBzip2(ctx context.Context, plaintext, original []byte, originalPath string, opts SearchOptions) (Bzip2Result, error) {
	header, err := bzip2candidates.Parse(original)
	if err != nil {
		return Bzip2Result{}, errors.Annotate(err).Reason("parsing bz2 header").Err()
	}

	res := Bzip2Result{SHA1: tardata.SHA1Sum(original)}

	if ok, match, err := tryBzip2Candidates(ctx, bzip2candidates.Derive(header), plaintext, originalPath); err != nil {
		return Bzip2Result{}, err
	} else if ok {
		res.Version = "2.0"
		res.Program = match.Program
		res.Params = strings.Join(match.Args, " ")
		return res, nil
	}

	if !opts.TryHarder {
		return Bzip2Result{}, &errkinds.ReproductionFailureError{Type: "bz2"}
	}

	logging.Warningf(ctx, "compressoracle: bz2 try-harder block-size sweep engaged for %s", originalPath)
	if ok, match, err := tryBzip2Candidates(ctx, bzip2candidates.DeriveTryHarder(header), plaintext, originalPath); err != nil {
		return Bzip2Result{}, err
	} else if ok {
		res.Version = "2.0"
		res.Program = match.Program
		res.Params = strings.Join(match.Args, " ")
		return res, nil
	}

	return Bzip2Result{}, &errkinds.ReproductionFailureError{Type: "bz2"}
}

func tryBzip2Candidates(ctx context.Context, cands []bzip2candidates.Candidate, plaintext []byte, originalPath string) (bool, bzip2candidates.Candidate, error) {
	for _, c := range cands {
		cand := Candidate{Program: c.Program, Args: c.Args}
		ok, err := MatchesExactly(ctx, cand, plaintext, originalPath)
		if err != nil {
			return false, bzip2candidates.Candidate{}, err
		}
		if ok {
			return true, c, nil
		}
	}
	return false, bzip2candidates.Candidate{}, nil
}

// RestoreBzip2 reconstructs a bz2 member's compressed bytes given a
// wrapper delta's stored program/params, validating both against the
// whitelist (spec §4.1) before spawning the compressor.
func RestoreBzip2(ctx context.Context, program, params string, plaintext []byte) ([]byte, error) {
	if err := ValidateBzip2Program(program); err != nil {
		return nil, err
	}
	if err := ValidateBzip2Params(params); err != nil {
		return nil, err
	}
	cand := Candidate{Program: program, Args: strings.Fields(params)}
	return RunToCompletion(ctx, cand, plaintext)
}

func warnOnLargeResidual(ctx context.Context, kind string, patchSize, originalSize int, maxRatio float64) {
	if originalSize == 0 {
		return
	}
	ratio := float64(patchSize) / float64(originalSize)
	switch {
	case ratio >= 1.0:
		logging.Warningf(ctx, "compressoracle: %s residual patch >= 100%% of original size: storing entire file in delta", kind)
	case ratio > maxRatio:
		logging.Warningf(ctx, "compressoracle: %s residual patch is %.1f%% of original size", kind, ratio*100)
	}
}

