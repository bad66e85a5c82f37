// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tardata

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"

	"github.com/luci/luci-go/common/errors"
)

// ChecksumScheme names a digest algorithm. The wire-format guard fields
// (sha1sum, Pristine-SHA1) always use SHA-1 directly via crypto/sha1 — that
// choice is pinned by spec §3/§6 and is not pluggable. ChecksumScheme exists
// for the scratch-tree debug digest (Options.ScratchDigest), where the
// algorithm is an implementation convenience rather than part of any wire
// format.
type ChecksumScheme byte

// Supported debug-digest schemes. ChecksumScheme zero value is "unset": the
// driver skips digesting scratch artifacts unless a caller opts in.
const (
	ChecksumSHA2_256 ChecksumScheme = iota + 1
	ChecksumSHA2_512
	ChecksumBLAKE2s
	ChecksumBLAKE2b
	ChecksumSHA3_256
	ChecksumSHA3_512
)

// Valid reports whether c is a recognized scheme.
func (c ChecksumScheme) Valid() error {
	switch c {
	case ChecksumSHA2_256, ChecksumSHA2_512, ChecksumBLAKE2s, ChecksumBLAKE2b, ChecksumSHA3_256, ChecksumSHA3_512:
		return nil
	}
	return errors.Reason("unknown checksum scheme 0x%(c)x").D("c", byte(c)).Err()
}

// String implements fmt.Stringer, used in the driver's debug log line.
func (c ChecksumScheme) String() string {
	switch c {
	case ChecksumSHA2_256:
		return "sha2-256"
	case ChecksumSHA2_512:
		return "sha2-512"
	case ChecksumBLAKE2s:
		return "blake2s"
	case ChecksumBLAKE2b:
		return "blake2b"
	case ChecksumSHA3_256:
		return "sha3-256"
	case ChecksumSHA3_512:
		return "sha3-512"
	}
	return "invalid"
}

// Hash returns a fresh hash.Hash for the scheme. It panics if c is invalid;
// callers are expected to have validated c already (it only ever comes from
// a compile-time constant or a value already checked with Valid).
func (c ChecksumScheme) Hash() hash.Hash {
	switch c {
	case ChecksumSHA2_256:
		return sha256.New()
	case ChecksumSHA2_512:
		return sha512.New()
	case ChecksumBLAKE2s:
		h, _ := blake2s.New256(nil)
		return h
	case ChecksumBLAKE2b:
		h, _ := blake2b.New512(nil)
		return h
	case ChecksumSHA3_256:
		return sha3.New256()
	case ChecksumSHA3_512:
		return sha3.New512()
	}
	panic(c.Valid())
}

// Sum hashes data with the scheme and returns the digest.
func (c ChecksumScheme) Sum(data []byte) []byte {
	h := c.Hash()
	h.Write(data)
	return h.Sum(nil)
}

// SHA1Sum computes the SHA-1 digest used by the wire-format pristine
// guards. It is a thin named wrapper so call sites read as intent
// ("the pristine guard digest") rather than a bare crypto/sha1 call.
func SHA1Sum(data []byte) []byte {
	h := sha1.Sum(data)
	return h[:]
}
