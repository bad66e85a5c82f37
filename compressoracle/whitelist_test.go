// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package compressoracle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateGzipParams(tst *testing.T) {
	tst.Parallel()

	Convey("ValidateGzipParams", tst, func() {
		Convey("accepts bare and level tokens", func() {
			So(ValidateGzipParams("--gnu -n -M -9"), ShouldBeNil)
		})

		Convey("accepts --original-name bare, with no inline value", func() {
			So(ValidateGzipParams("--original-name --osflag 3"), ShouldBeNil)
		})

		Convey("accepts a value flag followed by its value", func() {
			So(ValidateGzipParams("--quirk buggy-bsd"), ShouldBeNil)
		})

		Convey("rejects a value flag with nothing following it", func() {
			err := ValidateGzipParams("--osflag")
			So(err, ShouldNotBeNil)
		})

		Convey("rejects an unknown token", func() {
			err := ValidateGzipParams("--not-a-real-flag")
			So(err, ShouldNotBeNil)
		})

		Convey("rejects a level token outside 1-9", func() {
			err := ValidateGzipParams("-0")
			So(err, ShouldNotBeNil)
		})

		Convey("accepts the empty string", func() {
			So(ValidateGzipParams(""), ShouldBeNil)
		})
	})
}

func TestValidateBzip2Params(tst *testing.T) {
	tst.Parallel()

	Convey("ValidateBzip2Params", tst, func() {
		Convey("accepts a level token", func() {
			So(ValidateBzip2Params("-9"), ShouldBeNil)
		})

		Convey("accepts --old-bzip2", func() {
			So(ValidateBzip2Params("--old-bzip2 -1"), ShouldBeNil)
		})

		Convey("rejects an unknown token", func() {
			err := ValidateBzip2Params("--gnu")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidateBzip2Program(tst *testing.T) {
	tst.Parallel()

	Convey("ValidateBzip2Program", tst, func() {
		Convey("accepts every whitelisted program", func() {
			for prog := range Bz2SupportedPrograms {
				So(ValidateBzip2Program(prog), ShouldBeNil)
			}
		})

		Convey("rejects an arbitrary binary name", func() {
			err := ValidateBzip2Program("gzip")
			So(err, ShouldNotBeNil)
		})
	})
}
