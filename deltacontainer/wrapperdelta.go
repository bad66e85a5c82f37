// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deltacontainer

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/errkinds"
	"github.com/pristinearchive/retar/tardata"
)

// wrapperDeltaEntryOrder fixes the on-disk entry order for a packed
// wrapper delta (spec §3).
var wrapperDeltaEntryOrder = []string{"version", "type", "params", "program", "filename", "timestamp", "sha1sum", "delta"}

// WrapperDelta is the decoded form of spec §3's Compressed-Wrapper Delta:
// everything C1 needs to re-invoke the compressor that reproduced a gz or
// bz2 member, plus the pristine-SHA1 guard and an optional residual patch.
type WrapperDelta struct {
	Version   string // "2.0" (exact match) or "3.0" (residual patch present)
	Type      string // "gz" or "bz2"
	Params    string
	Program   string // bz2 only
	Filename  string // gz only
	Timestamp uint32 // gz only
	SHA1      []byte // pristine guard, 20 raw bytes
	Patch     []byte // nil unless Version == "3.0"
}

// PackWrapperDelta encodes d into the gzipped-tar wire format spec §3
// defines, base64-encoding the SHA-1 guard as the format requires.
func PackWrapperDelta(ctx context.Context, d WrapperDelta) ([]byte, error) {
	values := map[string][]byte{
		"version": []byte(d.Version),
		"type":    []byte(d.Type),
		"params":  []byte(d.Params),
		"sha1sum": []byte(base64.StdEncoding.EncodeToString(d.SHA1)),
	}
	switch d.Type {
	case "bz2":
		values["program"] = []byte(d.Program)
	case "gz":
		values["filename"] = []byte(d.Filename)
		values["timestamp"] = []byte(strconv.FormatUint(uint64(d.Timestamp), 10))
	}
	if d.Patch != nil {
		values["delta"] = d.Patch
	}
	return packEntries(ctx, wrapperDeltaEntryOrder, values)
}

// UnpackWrapperDelta decodes a wrapper delta, validating version and type
// before trusting anything else in it (spec §4.1's whitelist check happens
// later, at restore time, not here).
func UnpackWrapperDelta(data []byte) (WrapperDelta, error) {
	entries, err := unpackEntries(data)
	if err != nil {
		return WrapperDelta{}, err
	}

	typeBytes, err := requireEntry(entries, "type")
	if err != nil {
		return WrapperDelta{}, err
	}
	kind := string(typeBytes)
	if kind != "gz" && kind != "bz2" {
		return WrapperDelta{}, errors.Reason("wrapper delta has unexpected type %(typ)q").D("typ", kind).Err()
	}

	versionBytes, err := requireEntry(entries, "version")
	if err != nil {
		return WrapperDelta{}, err
	}
	version := string(versionBytes)
	if !wrapperVersionSupported(kind, version) {
		return WrapperDelta{}, &errkinds.UnsupportedVersionError{Container: "wrapper delta", Version: version}
	}

	paramsBytes, err := requireEntry(entries, "params")
	if err != nil {
		return WrapperDelta{}, err
	}
	// The pristine-SHA1 guard is mandatory for the flat encoding but
	// optional for this container (spec §3): legacy deltas may omit it
	// entirely, in which case VerifySHA1 is a no-op.
	var sha1 []byte
	if sha1Bytes, ok := entries["sha1sum"]; ok && len(sha1Bytes) > 0 {
		sha1, err = base64.StdEncoding.DecodeString(string(sha1Bytes))
		if err != nil {
			return WrapperDelta{}, errors.Annotate(err).Reason("decoding sha1sum").Err()
		}
	}

	d := WrapperDelta{
		Version: version,
		Type:    kind,
		Params:  string(paramsBytes),
		SHA1:    sha1,
		Patch:   entries["delta"],
	}

	switch kind {
	case "bz2":
		program, err := requireEntry(entries, "program")
		if err != nil {
			return WrapperDelta{}, err
		}
		d.Program = string(program)
	case "gz":
		filename, err := requireEntry(entries, "filename")
		if err != nil {
			return WrapperDelta{}, err
		}
		d.Filename = string(filename)
		timestamp, err := requireEntry(entries, "timestamp")
		if err != nil {
			return WrapperDelta{}, err
		}
		ts, err := strconv.ParseUint(strings.TrimSpace(string(timestamp)), 10, 32)
		if err != nil {
			return WrapperDelta{}, errors.Annotate(err).Reason("parsing timestamp").Err()
		}
		d.Timestamp = uint32(ts)
	}

	return d, nil
}

// wrapperVersionSupported implements spec §8's version gate, which
// differs by compression type: gz defines a 3.0 residual-patch variant
// bz2 never had, so its ceiling sits one major version higher.
func wrapperVersionSupported(kind, version string) bool {
	v, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return false
	}
	if v < 2.0 {
		return false
	}
	if kind == "gz" {
		return v < 4.0
	}
	return v < 3.0
}

// VerifySHA1 implements spec §3/§8's SHA-1 guard: when d carries a
// pristine-SHA1, the reproduced output's digest must match it exactly or
// reproduction fails without overwriting anything.
func VerifySHA1(d WrapperDelta, reproduced []byte) error {
	if len(d.SHA1) == 0 {
		return nil
	}
	actual := tardata.SHA1Sum(reproduced)
	if string(actual) != string(d.SHA1) {
		return &errkinds.SHA1MismatchError{
			Expected: base64.StdEncoding.EncodeToString(d.SHA1),
			Actual:   base64.StdEncoding.EncodeToString(actual),
		}
	}
	return nil
}
