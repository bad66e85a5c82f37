// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package compressoracle implements C1, the compressor oracle: given a
// compressed file and its decompressed plaintext, it determines the exact
// external-compressor invocation that reproduces the compressed bytes, or
// (failing that) the smallest residual binary patch and the invocation that
// produced it.
//
// The gzip- and bzip2-specific pieces of candidate derivation live in the
// gzipcandidates and bzip2candidates subpackages; this package holds what
// both share: the Candidate type, the filter-pipeline replay mechanism, and
// the restore-time parameter whitelist (spec §4.1).
package compressoracle
