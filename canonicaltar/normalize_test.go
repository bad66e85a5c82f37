// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package canonicaltar

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pristinearchive/retar/tardata/manifest"
)

func TestNormalize(tst *testing.T) {
	tst.Parallel()

	Convey("Normalize", tst, func() {
		root := tst.TempDir()

		Convey("replaces a symlink with an empty file", func() {
			target := filepath.Join(root, "target.txt")
			So(os.WriteFile(target, []byte("hi"), 0o644), ShouldBeNil)
			link := filepath.Join(root, "link")
			So(os.Symlink(target, link), ShouldBeNil)

			m := manifest.Manifest{"target.txt", "link"}
			So(Normalize(context.Background(), root, m), ShouldBeNil)

			info, err := os.Lstat(link)
			So(err, ShouldBeNil)
			So(info.Mode()&os.ModeSymlink, ShouldEqual, 0)
			So(info.Size(), ShouldEqual, 0)
		})

		Convey("clears setgid on a directory", func() {
			dir := filepath.Join(root, "sticky")
			So(os.Mkdir(dir, 0o755), ShouldBeNil)
			So(os.Chmod(dir, 0o755|os.ModeSetgid), ShouldBeNil)

			m := manifest.Manifest{"sticky"}
			So(Normalize(context.Background(), root, m), ShouldBeNil)

			info, err := os.Lstat(dir)
			So(err, ShouldBeNil)
			So(info.Mode()&os.ModeSetgid, ShouldEqual, 0)
		})

		Convey("falls back to a full sweep when a manifest path is missing", func() {
			present := filepath.Join(root, "present.txt")
			So(os.WriteFile(present, []byte("x"), 0o644), ShouldBeNil)
			extra := filepath.Join(root, "untracked.txt")
			So(os.WriteFile(extra, []byte("y"), 0o644), ShouldBeNil)

			m := manifest.Manifest{"present.txt", "missing.txt"}
			So(Normalize(context.Background(), root, m), ShouldBeNil)

			info, err := os.Lstat(extra)
			So(err, ShouldBeNil)
			So(info.ModTime().Unix(), ShouldEqual, 0)
		})

		Convey("creates missing entries instead of sweeping when requested", func() {
			m := manifest.Manifest{"newdir"}
			So(Normalize(context.Background(), root, m, WithCreateMissing()), ShouldBeNil)

			info, err := os.Lstat(filepath.Join(root, "newdir"))
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)
			So(info.ModTime().Unix(), ShouldEqual, 0)
		})
	})
}

func TestPrepack(tst *testing.T) {
	tst.Parallel()

	Convey("Prepack", tst, func() {
		root := tst.TempDir()
		scratch := tst.TempDir()
		So(os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644), ShouldBeNil)

		Convey("interposes the wrapping directory when absent", func() {
			m := manifest.Manifest{"pkg-1.0/file.txt"}
			workdir, err := Prepack(root, m, scratch, WithClobberSource())
			So(err, ShouldBeNil)
			So(workdir, ShouldEqual, filepath.Join(scratch, "workdir"))

			_, err = os.Lstat(filepath.Join(workdir, "pkg-1.0", "file.txt"))
			So(err, ShouldBeNil)
		})

		Convey("leaves root untouched when the wrapping directory already exists", func() {
			So(os.Mkdir(filepath.Join(root, "pkg-1.0"), 0o755), ShouldBeNil)
			So(os.Rename(filepath.Join(root, "file.txt"), filepath.Join(root, "pkg-1.0", "file.txt")), ShouldBeNil)

			m := manifest.Manifest{"pkg-1.0/file.txt"}
			workdir, err := Prepack(root, m, scratch)
			So(err, ShouldBeNil)
			So(workdir, ShouldEqual, root)
		})

		Convey("leaves root untouched when there is no common top component", func() {
			m := manifest.Manifest{"file.txt"}
			workdir, err := Prepack(root, m, scratch)
			So(err, ShouldBeNil)
			So(workdir, ShouldEqual, root)
		})
	})
}
