// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package flatrecode

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	. "github.com/luci/luci-go/common/testing/assertions"

	"github.com/pristinearchive/retar/tardata"
)

func TestFlatRecode(tst *testing.T) {
	tst.Parallel()

	Convey("single-body gz round-trips", tst, func() {
		d := FlatRecode{
			Type:      "gz",
			SHA1:      tardata.SHA1Sum([]byte("compressed bytes")),
			Params:    "--gnu -n",
			Filename:  "hello world.txt",
			Timestamp: 1577836800,
			Plaintext: []byte("inner tar bytes"),
		}
		encoded, err := Encode(d)
		So(err, ShouldBeNil)

		got, err := Decode(encoded)
		So(err, ShouldBeNil)
		So(got.Type, ShouldEqual, "gz")
		So(got.Filename, ShouldEqual, "hello world.txt")
		So(got.Timestamp, ShouldEqual, d.Timestamp)
		So(got.Params, ShouldEqual, d.Params)
		So(got.Plaintext, ShouldResemble, d.Plaintext)
		So(got.Patch, ShouldBeNil)
		So(got.SHA1, ShouldResemble, d.SHA1)
	})

	Convey("multipart bz2 with a residual patch round-trips", tst, func() {
		d := FlatRecode{
			Type:      "bz2",
			SHA1:      tardata.SHA1Sum([]byte("compressed bytes")),
			Params:    "-9",
			Program:   "zgz",
			Patch:     []byte("residual patch bytes"),
			Plaintext: []byte("inner tar bytes"),
		}
		encoded, err := Encode(d)
		So(err, ShouldBeNil)

		got, err := Decode(encoded)
		So(err, ShouldBeNil)
		So(got.Program, ShouldEqual, "zgz")
		So(got.Patch, ShouldResemble, d.Patch)
		So(got.Plaintext, ShouldResemble, d.Plaintext)
	})

	Convey("rejects a mismatched Flat-Recode-Version", tst, func() {
		d := FlatRecode{Type: "gz", SHA1: tardata.SHA1Sum([]byte("x")), Plaintext: []byte("y")}
		encoded, err := Encode(d)
		So(err, ShouldBeNil)

		tampered := []byte(replaceOnce(string(encoded), "Flat-Recode-Version: 1.0", "Flat-Recode-Version: 2.0"))
		_, err = Decode(tampered)
		So(err, ShouldErrLike, "unsupported version")
	})
}

func replaceOnce(s, old, new string) string {
	for i := 0; i+len(old) <= len(s); i++ {
		if s[i:i+len(old)] == old {
			return s[:i] + new + s[i+len(old):]
		}
	}
	return s
}
