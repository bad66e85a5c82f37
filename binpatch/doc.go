// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package binpatch wraps the external binary-patch tool (spec §6): a
// diff(pre, post) -> patch / apply(pre, patch) -> post pair of operations
// used both by the canonical-tar/inner-tar patch in a tar delta and, on the
// residual-patch fallback path, by the compressor oracle.
//
// The real-world tool this wraps is xdelta3, chosen because it is the
// binary-delta tool pristine-tar-style reproduction systems actually use
// and because its "diff produced a patch, whether or not the inputs turned
// out identical" exit-code contract matches spec §6/§9 exactly: exit 0 or 1
// both mean "diff succeeded", any other status is fatal.
package binpatch
