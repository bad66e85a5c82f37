// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package canonicaltar implements C2, the canonical tar builder: given a
// working-tree root and a manifest, it produces a tar byte stream whose
// metadata is fully deterministic, regardless of what the filesystem
// happened to record for timestamps, ownership, or symlink targets.
//
// Building proceeds in three steps, each in its own file: Prepack
// reintroduces the manifest's common wrapping directory when the working
// tree omits it, Normalize rewrites the tree in place to the fixed shape
// the archiver expects, and Build shells out to the system tar binary with
// every metadata-affecting flag pinned.
package canonicaltar
