// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package canonicaltar

// buildOptionData mirrors the teacher's CreateOption/createOptionData
// functional-options shape (sar/create.go), generalised to C2's two
// boolean modes (spec §4.2, §4.4).
type buildOptionData struct {
	createMissing bool
	clobberSource bool
}

// BuildOption configures a single Build call.
type BuildOption func(*buildOptionData)

// WithCreateMissing makes Normalize create an empty directory for a
// manifest path absent from disk instead of flagging a full-tree sweep.
// gendelta never needs this (the scratch tree it extracts into always has
// every manifest entry); it exists for callers reproducing from a working
// tree that may be missing entries tar's own name-canonicalisation quirks
// introduced.
func WithCreateMissing() BuildOption {
	return func(o *buildOptionData) { o.createMissing = true }
}

// WithClobberSource makes Prepack move the working tree into its final
// position instead of copying it. gendelta uses this (the scratch tree it
// extracted is disposable); gentar does not (the caller's working tree may
// be reused).
func WithClobberSource() BuildOption {
	return func(o *buildOptionData) { o.clobberSource = true }
}
