// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tardata

import "io"

// WriteCloseHook adapts an io.Writer into an io.WriteCloser, running onClose
// (if non-nil) when Close is called. It attaches finalization logic
// (flushing a compressor, writing a trailer) to a plain writer without
// defining a one-off type at the call site.
type WriteCloseHook struct {
	io.Writer
	OnClose func() error
}

// Close implements io.Closer.
func (w WriteCloseHook) Close() error {
	if w.OnClose == nil {
		return nil
	}
	return w.OnClose()
}

// ReadCloseHook is the read-side counterpart of WriteCloseHook.
type ReadCloseHook struct {
	io.Reader
	OnClose func() error
}

// Close implements io.Closer.
func (r ReadCloseHook) Close() error {
	if r.OnClose == nil {
		return nil
	}
	return r.OnClose()
}
