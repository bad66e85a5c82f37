// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package retar regenerates byte-identical tar, tar.gz and tar.bz2 archives
// from the current content of a content-tracking repository plus a small
// auxiliary delta blob.
//
// The repository preserves file contents but not the things an archiver
// would otherwise default: entry ordering, exact compressed bytes, and
// metadata like timestamps, modes and symlink targets. A delta produced by
// GenDelta captures exactly that residue — an ordered manifest, a binary
// patch between a canonical tar and the original inner tar, and (when the
// archive was compressed) a nested wrapper delta describing the exact
// compressor invocation that reproduces the outer compression. GenTar runs
// the process in reverse: given a delta and a working tree whose file
// contents match the archive, it reconstructs the original bytes.
//
// The four components are:
//
//   - compressoracle: identifies the exact gzip/bzip2 invocation (or, failing
//     that, the smallest residual patch) that reproduces a compressed stream.
//   - canonicaltar: builds a deterministic tar stream from a working tree and
//     a manifest, independent of filesystem metadata.
//   - deltacontainer: packs and unpacks the tar-delta and wrapper-delta wire
//     formats.
//   - reproduce: orchestrates the above into GenDelta and GenTar.
//
// CLI argument parsing, scratch-directory lifecycle policy beyond what
// Options exposes, and the content-tracking repository itself are out of
// scope for this package; see the repository package for the interfaces it
// expects from such a store.
package retar
