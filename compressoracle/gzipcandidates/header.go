// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gzipcandidates derives the ordered list of plausible gzip
// compressor invocations from a parsed gzip member header (spec §4.1).
package gzipcandidates

import (
	"bytes"
	"encoding/binary"

	"github.com/luci/luci-go/common/errors"
)

// RFC 1952 OS codes this package cares about.
const (
	osUnix = 3
	osNTFS = 11
)

// flag bits in the gzip FLG byte (RFC 1952 §2.3.1).
const (
	flgFTEXT    = 1 << 0
	flgFHCRC    = 1 << 1
	flgFEXTRA   = 1 << 2
	flgFNAME    = 1 << 3
	flgFCOMMENT = 1 << 4
)

// Header is the subset of a gzip member's fixed and optional header fields
// the oracle needs to derive candidate invocations and to populate a
// wrapper delta's filename/timestamp entries.
type Header struct {
	MTime        uint32
	ExtraFlags   byte // XFL: 0 normal, 2 best (-9), 4 fast (-1)
	OS           byte
	HasName      bool
	OriginalName string
}

// Parse reads the fixed 10-byte gzip member header from data plus whatever
// optional sections (FEXTRA/FNAME/FCOMMENT/FHCRC) its flag byte indicates
// are present, in the order RFC 1952 specifies.
func Parse(data []byte) (Header, error) {
	if len(data) < 10 {
		return Header{}, errors.New("not a valid gz archive: header too short")
	}
	if data[0] != 0x1F || data[1] != 0x8B || data[2] != 0x08 {
		return Header{}, errors.New("not a valid gz archive: bad magic/method")
	}
	flg := data[3]
	h := Header{
		MTime:      binary.LittleEndian.Uint32(data[4:8]),
		ExtraFlags: data[8],
		OS:         data[9],
	}

	rest := data[10:]
	if flg&flgFEXTRA != 0 {
		if len(rest) < 2 {
			return Header{}, errors.New("not a valid gz archive: truncated FEXTRA length")
		}
		xlen := int(binary.LittleEndian.Uint16(rest[:2]))
		if len(rest) < 2+xlen {
			return Header{}, errors.New("not a valid gz archive: truncated FEXTRA data")
		}
		rest = rest[2+xlen:]
	}
	if flg&flgFNAME != 0 {
		h.HasName = true
		idx := bytes.IndexByte(rest, 0)
		if idx < 0 {
			return Header{}, errors.New("not a valid gz archive: unterminated FNAME")
		}
		h.OriginalName = string(rest[:idx])
		rest = rest[idx+1:]
	}
	if flg&flgFCOMMENT != 0 {
		idx := bytes.IndexByte(rest, 0)
		if idx < 0 {
			return Header{}, errors.New("not a valid gz archive: unterminated FCOMMENT")
		}
		rest = rest[idx+1:]
	}
	if flg&flgFHCRC != 0 {
		if len(rest) < 2 {
			return Header{}, errors.New("not a valid gz archive: truncated FHCRC")
		}
	}
	return h, nil
}
