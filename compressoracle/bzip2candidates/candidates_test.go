// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bzip2candidates

import (
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDerive(tst *testing.T) {
	tst.Parallel()

	Convey("Derive", tst, func() {
		Convey("tries every program in order with the header's level", func() {
			cands := Derive(Header{Level: '5'})
			So(len(cands), ShouldEqual, len(Programs))
			for i, prog := range Programs {
				So(cands[i].Program, ShouldEqual, prog)
				So(cands[i].Args[0], ShouldEqual, "-5")
			}
		})

		Convey("zgz carries the --old-bzip2 flag, the others don't", func() {
			cands := Derive(Header{Level: '9'})
			for _, c := range cands {
				if c.Program == "zgz" {
					So(c.Args, ShouldContain, "--old-bzip2")
				} else {
					So(c.Args, ShouldNotContain, "--old-bzip2")
				}
			}
		})
	})
}

func TestBlockSizeSweep(tst *testing.T) {
	tst.Parallel()

	Convey("BlockSizeSweep", tst, func() {
		order := BlockSizeSweep()

		Convey("covers every value from 1 to 100 exactly once, skipping 9", func() {
			seen := map[int]bool{}
			for _, n := range order {
				So(seen[n], ShouldBeFalse)
				seen[n] = true
			}
			So(len(order), ShouldEqual, 99)
			So(seen[9], ShouldBeFalse)
			for n := 1; n <= 100; n++ {
				if n == 9 {
					continue
				}
				So(seen[n], ShouldBeTrue)
			}
		})

		Convey("tries 1-8 and 10 before any multiple of 5 in the second pass", func() {
			posOf := map[int]int{}
			for i, n := range order {
				posOf[n] = i
			}
			So(posOf[10], ShouldBeLessThan, posOf[15])
			So(posOf[8], ShouldBeLessThan, posOf[15])
		})

		Convey("visits 15..95 in steps of 5 before filling the remaining gaps", func() {
			posOf := map[int]int{}
			for i, n := range order {
				posOf[n] = i
			}
			So(posOf[15], ShouldBeLessThan, posOf[11])
			So(posOf[95], ShouldBeLessThan, posOf[12])
		})
	})
}

func TestDeriveTryHarder(tst *testing.T) {
	tst.Parallel()

	Convey("DeriveTryHarder", tst, func() {
		cands := DeriveTryHarder(Header{Level: '9'})
		sweep := BlockSizeSweep()

		Convey("produces one pbzip2 candidate per sweep value, in order", func() {
			So(len(cands), ShouldEqual, len(sweep))
			for i, c := range cands {
				So(c.Program, ShouldEqual, "pbzip2")
				So(c.Args[0], ShouldEqual, "-9")
				So(c.Args[1], ShouldEqual, "-b"+strconv.Itoa(sweep[i]))
			}
		})
	})
}
