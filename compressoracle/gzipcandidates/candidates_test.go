// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gzipcandidates

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func argsOf(cands []Candidate) [][]string {
	out := make([][]string, len(cands))
	for i, c := range cands {
		out[i] = c.Args
	}
	return out
}

func TestDerive(tst *testing.T) {
	tst.Parallel()

	Convey("Derive", tst, func() {
		Convey("tries GNU variants first on a Unix-origin header with no name", func() {
			h := Header{OS: osUnix, MTime: 1577836800}
			cands := Derive(h)
			So(len(cands), ShouldBeGreaterThanOrEqualTo, 2)
			So(cands[0].Args, ShouldResemble, []string{"--gnu", "-n", "-M"})
			So(cands[1].Args, ShouldResemble, []string{"--gnu", "--rsyncable", "-n", "-M"})
		})

		Convey("omits -M when the header carries no timestamp", func() {
			h := Header{OS: osUnix, MTime: 0}
			cands := Derive(h)
			So(cands[0].Args, ShouldResemble, []string{"--gnu", "-n"})
		})

		Convey("appends the level flag derived from XFL", func() {
			h := Header{OS: osUnix, ExtraFlags: 2}
			cands := Derive(h)
			So(cands[0].Args, ShouldContain, "-9")

			h.ExtraFlags = 4
			cands = Derive(h)
			So(cands[0].Args, ShouldContain, "-1")
		})

		Convey("skips the GNU variants entirely on a non-Unix origin", func() {
			h := Header{OS: osNTFS, HasName: true, OriginalName: "foo.txt"}
			cands := Derive(h)
			for _, c := range cands {
				So(c.Args, ShouldNotContain, "--gnu")
			}
		})

		Convey("includes --original-name only when the header carried a name", func() {
			withName := Derive(Header{OS: osUnix, HasName: true, OriginalName: "foo.txt"})
			withoutName := Derive(Header{OS: osUnix, HasName: false})

			foundWith := false
			for _, c := range withName {
				if contains(c.Args, "--original-name") {
					foundWith = true
				}
			}
			So(foundWith, ShouldBeTrue)

			for _, c := range withoutName {
				So(c.Args, ShouldNotContain, "--original-name")
			}
		})

		Convey("appends the buggy-bsd quirk variant after the plain BSD variant", func() {
			h := Header{OS: osUnix}
			cands := Derive(h)
			found := false
			for i, c := range cands {
				if contains(c.Args, "--quirk") {
					So(c.Args, ShouldContain, "buggy-bsd")
					So(i, ShouldBeGreaterThan, 0)
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("adds the ntfs quirk variant only when OS says NTFS", func() {
			unix := Derive(Header{OS: osUnix})
			ntfs := Derive(Header{OS: osNTFS})

			for _, c := range unix {
				So(c.Args, ShouldNotContain, "ntfs")
			}
			foundNTFS := false
			for _, c := range ntfs {
				if contains(c.Args, "ntfs") {
					foundNTFS = true
				}
			}
			So(foundNTFS, ShouldBeTrue)
		})

		Convey("osflag carries the header's numeric OS code", func() {
			h := Header{OS: osNTFS}
			cands := Derive(h)
			found := false
			for _, c := range cands {
				for i, a := range c.Args {
					if a == "--osflag" {
						So(c.Args[i+1], ShouldEqual, "11")
						found = true
					}
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
