// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/luci/luci-go/common/errors"
)

// extractTar writes every entry of data under destDir. It is used only at
// gendelta time, to turn the inner tar back into a working tree that C2
// can normalise and re-archive (spec §4.4 step 3); dispatch by entry type
// mirrors the teacher's UnpackTo (sar/unpack.go), simplified to a single
// synchronous pass since there is no checksum stream to overlap I/O with
// here.
func extractTar(data []byte, destDir string) error {
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Annotate(err).Reason("reading tar entry during extraction").Err()
		}

		target := filepath.Join(destDir, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o777); err != nil {
				return errors.Annotate(err).Reason("making dir %(name)q").D("name", hdr.Name).Err()
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
				return errors.Annotate(err).Reason("making parent dir for %(name)q").D("name", hdr.Name).Err()
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return errors.Annotate(err).Reason("writing symlink %(name)q").D("name", hdr.Name).Err()
			}
		case tar.TypeReg, tar.TypeRegA:
			if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
				return errors.Annotate(err).Reason("making parent dir for %(name)q").D("name", hdr.Name).Err()
			}
			f, err := os.Create(target)
			if err != nil {
				return errors.Annotate(err).Reason("creating file %(name)q").D("name", hdr.Name).Err()
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return errors.Annotate(err).Reason("writing file %(name)q").D("name", hdr.Name).Err()
			}
			if err := f.Close(); err != nil {
				return errors.Annotate(err).Reason("closing file %(name)q").D("name", hdr.Name).Err()
			}
		}
	}
	return nil
}
