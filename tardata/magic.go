// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tardata

import (
	"io"

	"github.com/luci/luci-go/common/errors"
)

// Kind identifies the compression wrapping (if any) an Archive carries.
type Kind byte

// The kinds of compression retar knows how to identify and replay.
const (
	KindUnknown Kind = iota
	KindNone
	KindGzip
	KindBzip2
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "tar"
	case KindGzip:
		return "gz"
	case KindBzip2:
		return "bz2"
	}
	return "unknown"
}

var (
	gzipMagic  = [3]byte{0x1F, 0x8B, 0x08}
	bzip2Magic = [3]byte{0x42, 0x5A, 0x68}
)

// sniffLen is the number of leading bytes DetectKind needs to see. Callers
// that have fewer bytes available (a truncated file) get KindNone, i.e. the
// input is treated as an uncompressed tar.
const sniffLen = 3

// DetectKind reads the first few bytes of r and classifies the compression
// wrapping per spec §3: gzip if bytes 0-2 are {0x1F, 0x8B, 0x08}, bzip2 if
// bytes 0-2 are {0x42, 0x5A, 0x68}, otherwise assumed to be an uncompressed
// tar. It does not rewind r; callers that need the consumed bytes back
// should wrap r in a bufio.Reader or io.TeeReader before calling this.
func DetectKind(r io.Reader) (Kind, []byte, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnknown, buf[:n], errors.Annotate(err).Reason("sniffing compression kind").Err()
	}
	buf = buf[:n]
	if n < sniffLen {
		return KindNone, buf, nil
	}
	var head [3]byte
	copy(head[:], buf)
	switch head {
	case gzipMagic:
		return KindGzip, buf, nil
	case bzip2Magic:
		return KindBzip2, buf, nil
	default:
		return KindNone, buf, nil
	}
}
