// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package bzip2candidates derives the ordered list of plausible bzip2
// compressor invocations, including the optional pbzip2 block-size sweep
// (spec §4.1).
package bzip2candidates

import "github.com/luci/luci-go/common/errors"

// Header is the one field bzip2's 4-byte signature carries.
type Header struct {
	Level byte // '1'..'9'
}

// Parse reads the bzip2 file signature "BZh<digit>".
func Parse(data []byte) (Header, error) {
	if len(data) < 4 {
		return Header{}, errors.New("not a valid bz2 archive: signature too short")
	}
	if data[0] != 'B' || data[1] != 'Z' || data[2] != 'h' {
		return Header{}, errors.New("not a valid bz2 archive: bad magic")
	}
	if data[3] < '1' || data[3] > '9' {
		return Header{}, errors.New("not a valid bz2 archive: bad level digit")
	}
	return Header{Level: data[3]}, nil
}
