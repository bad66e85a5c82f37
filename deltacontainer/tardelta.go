// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deltacontainer

import (
	"context"
	"strconv"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/errkinds"
	"github.com/pristinearchive/retar/tardata/manifest"
)

// tarDeltaEntryOrder fixes the on-disk entry order for a packed tar delta
// (spec §3). Order only affects byte layout, not semantics, but a fixed
// order keeps PackTarDelta deterministic.
var tarDeltaEntryOrder = []string{"version", "type", "manifest", "delta", "wrapper", "wrapper-encoding"}

// WrapperEncodingFlat marks TarDelta.WrapperEncoding when Wrapper holds
// spec §6's flat RFC-822/MIME encoding (deltacontainer/flatrecode) rather
// than the default gzipped-tar wrapper-delta container.
const WrapperEncodingFlat = "flat"

// TarDelta is the decoded form of spec §3's Tar Delta: a patch from the
// canonical tar to the original inner tar, the manifest that reproduces
// it, and — when the original archive was compressed — the nested wrapper
// delta bytes that reproduce the outer compression.
type TarDelta struct {
	Version  string // "2.0" today; "3.0" is reserved (sha1 guard) and unsupported
	Manifest manifest.Manifest
	Patch    []byte
	Wrapper  []byte // nil unless the outer archive was compressed

	// WrapperEncoding names how Wrapper is encoded. Empty means the default
	// container (PackWrapperDelta/UnpackWrapperDelta); WrapperEncodingFlat
	// means flatrecode.Encode/Decode.
	WrapperEncoding string
}

// PackTarDelta encodes d into the gzipped-tar wire format spec §3 defines.
func PackTarDelta(ctx context.Context, d TarDelta) ([]byte, error) {
	values := map[string][]byte{
		"version":  []byte(d.Version),
		"type":     []byte("tar"),
		"manifest": d.Manifest.Format(),
		"delta":    d.Patch,
	}
	if d.Wrapper != nil {
		values["wrapper"] = d.Wrapper
	}
	if d.WrapperEncoding != "" {
		values["wrapper-encoding"] = []byte(d.WrapperEncoding)
	}
	return packEntries(ctx, tarDeltaEntryOrder, values)
}

// UnpackTarDelta decodes a tar delta, validating version and type before
// trusting anything else in it (spec §4.3, §4.4 step 1).
func UnpackTarDelta(data []byte) (TarDelta, error) {
	entries, err := unpackEntries(data)
	if err != nil {
		return TarDelta{}, err
	}

	versionBytes, err := requireEntry(entries, "version")
	if err != nil {
		return TarDelta{}, err
	}
	version := string(versionBytes)
	if !tarDeltaVersionSupported(version) {
		return TarDelta{}, &errkinds.UnsupportedVersionError{Container: "tar delta", Version: version}
	}

	typeBytes, err := requireEntry(entries, "type")
	if err != nil {
		return TarDelta{}, err
	}
	if string(typeBytes) != "tar" {
		return TarDelta{}, errors.Reason("tar delta has unexpected type %(typ)q").D("typ", string(typeBytes)).Err()
	}

	manifestBytes, err := requireEntry(entries, "manifest")
	if err != nil {
		return TarDelta{}, err
	}
	patch, err := requireEntry(entries, "delta")
	if err != nil {
		return TarDelta{}, err
	}

	d := TarDelta{
		Version:         version,
		Manifest:        manifest.Parse(manifestBytes),
		Patch:           patch,
		Wrapper:         entries["wrapper"],
		WrapperEncoding: string(entries["wrapper-encoding"]),
	}
	if err := d.Manifest.Validate(); err != nil {
		return TarDelta{}, errors.Annotate(err).Reason("tar delta manifest").Err()
	}
	return d, nil
}

// tarDeltaVersionSupported implements spec §4.4/§8's version gate for tar
// deltas: accept 2.0, reject anything >= 3.0 (reserved for future use) or
// < 2.0.
func tarDeltaVersionSupported(version string) bool {
	v, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return false
	}
	return v >= 2.0 && v < 3.0
}
