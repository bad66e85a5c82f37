// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func buildTestTar(tst *testing.T, entries map[string]string, symlinks map[string]string) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range entries {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			tst.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			tst.Fatal(err)
		}
	}
	for name, target := range symlinks {
		hdr := &tar.Header{Name: name, Mode: 0o777, Typeflag: tar.TypeSymlink, Linkname: target}
		if err := tw.WriteHeader(hdr); err != nil {
			tst.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		tst.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractTar(tst *testing.T) {
	tst.Parallel()

	Convey("extractTar", tst, func() {
		dest := tst.TempDir()
		data := buildTestTar(tst,
			map[string]string{"a.txt": "hello", "sub/b.txt": "world"},
			map[string]string{"link": "a.txt"},
		)

		So(extractTar(data, dest), ShouldBeNil)

		a, err := os.ReadFile(filepath.Join(dest, "a.txt"))
		So(err, ShouldBeNil)
		So(string(a), ShouldEqual, "hello")

		b, err := os.ReadFile(filepath.Join(dest, "sub", "b.txt"))
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "world")

		target, err := os.Readlink(filepath.Join(dest, "link"))
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "a.txt")
	})
}

func TestWriteAtomic(tst *testing.T) {
	tst.Parallel()

	Convey("writeAtomic", tst, func() {
		dir := tst.TempDir()
		path := filepath.Join(dir, "out.tar")

		So(writeAtomic(path, []byte("first")), ShouldBeNil)
		got, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(got), ShouldEqual, "first")

		So(writeAtomic(path, []byte("second")), ShouldBeNil)
		got, err = os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(got), ShouldEqual, "second")

		_, err = os.Stat(path + ".retar-tmp")
		So(os.IsNotExist(err), ShouldBeTrue)
	})
}
