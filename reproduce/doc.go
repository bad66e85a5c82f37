// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package reproduce implements C4, the reproduction driver: GenDelta and
// GenTar, the two top-level operations that compose C1 (compressoracle),
// C2 (canonicaltar), the external binary-patch tool (binpatch), and C3
// (deltacontainer) into the control flow spec §2 describes. Checkout and
// Commit are thin wrappers over the repository package's interface that
// sit above GenDelta/GenTar; they do not belong to the core.
package reproduce
