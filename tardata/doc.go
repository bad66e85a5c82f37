// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package tardata implements the small IO primitives shared by every
// component of retar: sniffing an archive's compression kind from its
// leading bytes, computing pluggable digests over scratch artifacts, and a
// couple of io.Closer adapters used to hang custom close behavior off of a
// plain io.Writer/io.Reader.
package tardata
