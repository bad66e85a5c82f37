// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deltacontainer

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	. "github.com/luci/luci-go/common/testing/assertions"

	"github.com/pristinearchive/retar/tardata/manifest"
)

func TestTarDelta(tst *testing.T) {
	tst.Parallel()

	Convey("TarDelta round-trips", tst, func() {
		d := TarDelta{
			Version:  "2.0",
			Manifest: manifest.Manifest{"a", "sub/b"},
			Patch:    []byte("binary patch bytes"),
		}

		packed, err := PackTarDelta(context.Background(), d)
		So(err, ShouldBeNil)

		got, err := UnpackTarDelta(packed)
		So(err, ShouldBeNil)
		So(got.Version, ShouldEqual, d.Version)
		So(got.Manifest, ShouldResemble, d.Manifest)
		So(got.Patch, ShouldResemble, d.Patch)
		So(got.Wrapper, ShouldBeNil)
	})

	Convey("TarDelta carries a nested wrapper", tst, func() {
		d := TarDelta{
			Version:  "2.0",
			Manifest: manifest.Manifest{"a"},
			Patch:    []byte("patch"),
			Wrapper:  []byte("nested wrapper delta bytes"),
		}
		packed, err := PackTarDelta(context.Background(), d)
		So(err, ShouldBeNil)

		got, err := UnpackTarDelta(packed)
		So(err, ShouldBeNil)
		So(got.Wrapper, ShouldResemble, d.Wrapper)
	})

	Convey("TarDelta records the wrapper encoding when set", tst, func() {
		d := TarDelta{
			Version:         "2.0",
			Manifest:        manifest.Manifest{"a"},
			Patch:           []byte("patch"),
			Wrapper:         []byte("flat-encoded wrapper bytes"),
			WrapperEncoding: WrapperEncodingFlat,
		}
		packed, err := PackTarDelta(context.Background(), d)
		So(err, ShouldBeNil)

		got, err := UnpackTarDelta(packed)
		So(err, ShouldBeNil)
		So(got.WrapperEncoding, ShouldEqual, WrapperEncodingFlat)
	})

	Convey("leaves WrapperEncoding empty when unset", tst, func() {
		d := TarDelta{Version: "2.0", Manifest: manifest.Manifest{"a"}, Patch: []byte("patch")}
		packed, err := PackTarDelta(context.Background(), d)
		So(err, ShouldBeNil)

		got, err := UnpackTarDelta(packed)
		So(err, ShouldBeNil)
		So(got.WrapperEncoding, ShouldEqual, "")
	})

	Convey("rejects an unsupported version", tst, func() {
		d := TarDelta{Version: "3.0", Manifest: manifest.Manifest{"a"}, Patch: []byte("x")}
		packed, err := PackTarDelta(context.Background(), d)
		So(err, ShouldBeNil)

		_, err = UnpackTarDelta(packed)
		So(err, ShouldErrLike, `unsupported version "3.0"`)
	})

	Convey("reports a missing required entry", tst, func() {
		packed, err := packEntries(context.Background(), []string{"version", "type"}, map[string][]byte{
			"version": []byte("2.0"),
			"type":    []byte("tar"),
		})
		So(err, ShouldBeNil)

		_, err = UnpackTarDelta(packed)
		So(err, ShouldErrLike, "manifest")
	})
}
