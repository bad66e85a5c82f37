// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package canonicaltar

import (
	"io"
	"os"
	"path/filepath"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/tardata/manifest"
)

// Prepack resolves the working-tree root the archiver should actually use
// (spec §4.2's subdirectory pre-pack). When every manifest entry shares a
// single first path component c, the content-tracking repository's
// checkout omits that wrapping directory entirely, so Prepack interposes
// workdir/c and moves (clobberSource) or copies (otherwise) root into it.
// If root already has c as an immediate child — as it does whenever the
// caller extracted an archive that already contained the wrapping
// directory — root is already correctly laid out and is returned as-is.
//
// When the manifest has no common top component (or a bare top-level
// entry, per spec §9), root is returned unchanged: the archive root stays
// at the working tree itself.
func Prepack(root string, m manifest.Manifest, scratchRoot string, opts ...BuildOption) (string, error) {
	var cfg buildOptionData
	for _, o := range opts {
		o(&cfg)
	}

	c, ok := m.CommonTopComponent()
	if !ok {
		return root, nil
	}

	if info, err := os.Stat(filepath.Join(root, c)); err == nil && info.IsDir() {
		return root, nil
	}

	workdir := filepath.Join(scratchRoot, "workdir")
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return "", errors.Annotate(err).Reason("making prepack workdir").Err()
	}
	dest := filepath.Join(workdir, c)

	if cfg.clobberSource {
		if err := os.Rename(root, dest); err != nil {
			return "", errors.Annotate(err).Reason("moving %(root)q into prepack position").D("root", root).Err()
		}
		return workdir, nil
	}

	if err := copyTree(root, dest); err != nil {
		return "", errors.Annotate(err).Reason("copying %(root)q into prepack position").D("root", root).Err()
	}
	return workdir, nil
}

// copyTree recursively copies src to dst, preserving symlink targets and
// regular file bytes. Directory/file metadata is not preserved: Normalize
// resets it all immediately afterward, so there is nothing worth carrying
// over here.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(linkTarget, target)
		case info.IsDir():
			return os.MkdirAll(target, 0755)
		default:
			return copyFile(path, target, info.Mode())
		}
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
