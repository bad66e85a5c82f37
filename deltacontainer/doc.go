// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package deltacontainer implements C3: packing and unpacking the two
// on-disk delta formats defined in spec §3 — the Tar Delta and, nested
// inside it when the original archive was compressed, the
// Compressed-Wrapper Delta. Both are small gzipped tars with a fixed set
// of named entries; `version` and `type` are always read first to gate
// decoding before anything else is trusted (spec §4.3).
//
// Unlike canonicaltar, which shells out to the system tar binary because
// its output must byte-match whatever external archiver produced the
// original, this package's container format is entirely retar's own: no
// third party ever needs to reproduce these bytes independently, so
// archive/tar and compress/gzip are used directly. See DESIGN.md.
package deltacontainer
