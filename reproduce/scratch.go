// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"context"
	"os"
	"path/filepath"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/logging"

	retar "github.com/pristinearchive/retar"
)

// Scratch owns the scratch directory for one top-level driver invocation
// (spec §5 "Shared resources": each top-level operation owns its own
// scratch root; nested invocations receive their own sub-scratch). Close
// removes the tree unless the caller asked to keep it.
type Scratch struct {
	Root string
	keep bool
}

// NewScratch creates a fresh scratch directory. keep disables removal on
// Close, mirroring Options.KeepScratch.
func NewScratch(keep bool) (*Scratch, error) {
	root, err := os.MkdirTemp("", "retar-scratch-")
	if err != nil {
		return nil, errors.Annotate(err).Reason("making scratch directory").Err()
	}
	return &Scratch{Root: root, keep: keep}, nil
}

// Sub returns (creating if needed) a named subdirectory of the scratch
// root, for nested invocations that need their own sub-scratch.
func (s *Scratch) Sub(name string) (string, error) {
	path := filepath.Join(s.Root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", errors.Annotate(err).Reason("making scratch subdirectory %(name)q").D("name", name).Err()
	}
	return path, nil
}

// Close removes the scratch tree unless it was created with keep=true.
func (s *Scratch) Close() error {
	if s.keep {
		return nil
	}
	return os.RemoveAll(s.Root)
}

// digestScratch logs a debug digest of a preserved scratch artifact, so two
// scratch trees kept from runs on different machines can be compared without
// transferring them (spec §6, Options.ScratchDigest). It is a no-op unless
// the caller both kept the scratch tree and named a scheme.
func digestScratch(ctx context.Context, opts retar.Options, label string, data []byte) {
	if !opts.KeepScratch || opts.ScratchDigest == 0 {
		return
	}
	if err := opts.ScratchDigest.Valid(); err != nil {
		logging.Warningf(ctx, "reproduce: scratch digest: %s", err)
		return
	}
	logging.Debugf(ctx, "reproduce: scratch %s digest (%s): %x", label, opts.ScratchDigest, opts.ScratchDigest.Sum(data))
}
