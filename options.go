// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package retar

import "github.com/pristinearchive/retar/tardata"

// Options is threaded by value through every top-level operation. It
// replaces the global verbosity/debug/keep/try flags that a scripted
// reimplementation of this system would otherwise reach for.
type Options struct {
	// KeepScratch prevents the scratch directory for a top-level operation
	// from being removed on exit. Useful for debugging a failed
	// reproduction.
	KeepScratch bool

	// TryHarder enables the expensive bzip2 block-size sweep in the
	// compressor oracle (spec §4.1) when no candidate in the default
	// ordered list reproduces the input exactly.
	TryHarder bool

	// MaxResidualPatchRatio is the fraction (0..1) of the original
	// compressed size above which the oracle's residual-patch fallback logs
	// a warning. Zero uses the default of 0.10 (10%), per spec §4.1.
	MaxResidualPatchRatio float64

	// ScratchDigest, if non-zero, makes the driver log a digest of the
	// scratch tree's canonical tar using the given scheme whenever
	// KeepScratch is set, so that two preserved scratch trees produced on
	// different machines can be compared without transferring them.
	ScratchDigest tardata.ChecksumScheme

	// FlatEncodeWrapper makes GenDelta store the outer compression's wrapper
	// delta using spec §6's flat RFC-822/MIME encoding (deltacontainer/
	// flatrecode) instead of the default gzipped-tar container. GenTar reads
	// either encoding back regardless of this setting. Content-tracking
	// repositories that want a single self-describing blob rather than a
	// nested archive use this; the default container stays more compact.
	FlatEncodeWrapper bool
}

// DefaultOptions returns the Options a top-level driver invocation uses when
// the caller supplies none.
func DefaultOptions() Options {
	return Options{
		MaxResidualPatchRatio: 0.10,
	}
}

func (o Options) residualPatchRatio() float64 {
	if o.MaxResidualPatchRatio <= 0 {
		return 0.10
	}
	return o.MaxResidualPatchRatio
}
