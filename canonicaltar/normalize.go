// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package canonicaltar

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/logging"

	"github.com/pristinearchive/retar/tardata/manifest"
)

var epoch = time.Unix(0, 0)

// Normalize rewrites root in place so that its manifest-listed entries have
// fully deterministic metadata (spec §4.2's normalisation algorithm):
// symlinks become empty regular files, setuid/setgid/sticky directory bits
// are cleared, and every touched entry's atime/mtime is reset to epoch 0.
//
// If any manifest path is absent from disk and createMissing was not
// requested, Normalize falls back to a full-tree sweep that applies the
// same three steps to every entry under root, on the theory that tar's own
// name-canonicalisation quirks may have left the manifest and the disk
// disagreeing about exactly which paths exist (spec §4.2, §9 Open
// Question — see DESIGN.md for the instrumentation decision).
func Normalize(ctx context.Context, root string, m manifest.Manifest, opts ...BuildOption) error {
	var cfg buildOptionData
	for _, o := range opts {
		o(&cfg)
	}

	needsFullSweep := false
	for _, p := range m {
		abs := filepath.Join(root, p)
		missing, err := normalizeEntry(abs, cfg.createMissing)
		if err != nil {
			return errors.Annotate(err).Reason("normalising %(path)q").D("path", p).Err()
		}
		if missing {
			needsFullSweep = true
		}
	}

	if !needsFullSweep {
		return nil
	}

	logging.Debugf(ctx, "canonicaltar: manifest disagreed with disk, running full-tree sweep under %s", root)
	return filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return errors.Annotate(err).Reason("walking %(path)q during full sweep").D("path", path).Err()
		}
		if path == root {
			return nil
		}
		if _, err := normalizeEntry(path, false); err != nil {
			return errors.Annotate(err).Reason("full-sweep normalising %(path)q").D("path", path).Err()
		}
		return nil
	})
}

// normalizeEntry applies steps 1, 3, and 4 of the normalisation algorithm
// to a single filesystem entry. It reports missing=true when the entry is
// absent and createMissing is false, signalling that the caller should fall
// back to a full-tree sweep (step 2).
func normalizeEntry(abs string, createMissing bool) (missing bool, err error) {
	info, err := os.Lstat(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, err
		}
		if !createMissing {
			return true, nil
		}
		if err := os.MkdirAll(abs, 0755); err != nil {
			return false, err
		}
		return false, os.Chtimes(abs, epoch, epoch)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(abs); err != nil {
			return false, err
		}
		f, err := os.Create(abs)
		if err != nil {
			return false, err
		}
		if err := f.Close(); err != nil {
			return false, err
		}
		return false, os.Chtimes(abs, epoch, epoch)
	}

	if info.IsDir() && info.Mode()&(os.ModeSetuid|os.ModeSetgid|os.ModeSticky) != 0 {
		if err := os.Chmod(abs, 0755); err != nil {
			return false, err
		}
	}

	return false, os.Chtimes(abs, epoch, epoch)
}
