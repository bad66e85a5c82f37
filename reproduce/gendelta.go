// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"archive/tar"
	"bytes"
	"context"
	"os"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/logging"

	retar "github.com/pristinearchive/retar"
	"github.com/pristinearchive/retar/binpatch"
	"github.com/pristinearchive/retar/canonicaltar"
	"github.com/pristinearchive/retar/compressoracle"
	"github.com/pristinearchive/retar/deltacontainer"
	"github.com/pristinearchive/retar/deltacontainer/flatrecode"
	"github.com/pristinearchive/retar/tardata"
	"github.com/pristinearchive/retar/tardata/manifest"
)

// GenDelta implements spec §4.4's gendelta(archive_path) -> delta_bytes.
func GenDelta(ctx context.Context, archivePath string, opts retar.Options) ([]byte, error) {
	archiveBytes, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, errors.Annotate(err).Reason("reading archive %(path)q").D("path", archivePath).Err()
	}

	kind, _, err := tardata.DetectKind(bytes.NewReader(archiveBytes))
	if err != nil {
		return nil, err
	}

	scratch, err := NewScratch(opts.KeepScratch)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			logging.Warningf(ctx, "reproduce: failed to remove scratch dir %s: %s", scratch.Root, err)
		}
	}()

	searchOpts := compressoracle.SearchOptions{TryHarder: opts.TryHarder, MaxResidualPatchRatio: opts.MaxResidualPatchRatio}

	var innerTar []byte
	var wrapperPacked []byte
	var wrapperEncoding string

	switch kind {
	case tardata.KindNone:
		innerTar = archiveBytes

	case tardata.KindGzip:
		innerTar, err = decompress(ctx, kind, archiveBytes)
		if err != nil {
			return nil, err
		}
		wrapperScratch, err := scratch.Sub("wrapper")
		if err != nil {
			return nil, err
		}
		gz, err := compressoracle.IdentifyGzip(ctx, innerTar, archiveBytes, archivePath, wrapperScratch, searchOpts)
		if err != nil {
			return nil, err
		}
		if opts.FlatEncodeWrapper {
			wrapperPacked, err = flatrecode.Encode(flatrecode.FlatRecode{
				Type:      "gz",
				SHA1:      gz.SHA1,
				Params:    gz.Params,
				Filename:  gz.Filename,
				Timestamp: gz.Timestamp,
				Patch:     gz.Patch,
				Plaintext: innerTar,
			})
			wrapperEncoding = deltacontainer.WrapperEncodingFlat
		} else {
			wrapperPacked, err = deltacontainer.PackWrapperDelta(ctx, deltacontainer.WrapperDelta{
				Version:   gz.Version,
				Type:      "gz",
				Params:    gz.Params,
				Filename:  gz.Filename,
				Timestamp: gz.Timestamp,
				SHA1:      gz.SHA1,
				Patch:     gz.Patch,
			})
		}
		if err != nil {
			return nil, err
		}

	case tardata.KindBzip2:
		innerTar, err = decompress(ctx, kind, archiveBytes)
		if err != nil {
			return nil, err
		}
		bz, err := compressoracle.IdentifyBzip2(ctx, innerTar, archiveBytes, archivePath, searchOpts)
		if err != nil {
			return nil, err
		}
		if opts.FlatEncodeWrapper {
			wrapperPacked, err = flatrecode.Encode(flatrecode.FlatRecode{
				Type:      "bz2",
				SHA1:      bz.SHA1,
				Params:    bz.Params,
				Program:   bz.Program,
				Plaintext: innerTar,
			})
			wrapperEncoding = deltacontainer.WrapperEncodingFlat
		} else {
			wrapperPacked, err = deltacontainer.PackWrapperDelta(ctx, deltacontainer.WrapperDelta{
				Version: bz.Version,
				Type:    "bz2",
				Params:  bz.Params,
				Program: bz.Program,
				SHA1:    bz.SHA1,
			})
		}
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Reason("gendelta: could not classify %(path)q").D("path", archivePath).Err()
	}

	m, err := manifest.FromTarReader(tar.NewReader(bytes.NewReader(innerTar)))
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Annotate(err).Reason("validating manifest").Err()
	}

	extractDir, err := scratch.Sub("extract")
	if err != nil {
		return nil, err
	}
	if err := extractTar(innerTar, extractDir); err != nil {
		return nil, err
	}

	canonicalScratch, err := scratch.Sub("canonical")
	if err != nil {
		return nil, err
	}
	canonicalTar, err := canonicaltar.Build(ctx, extractDir, m, canonicalScratch, canonicaltar.WithClobberSource())
	if err != nil {
		return nil, err
	}
	digestScratch(ctx, opts, "canonical", canonicalTar)

	patchScratch, err := scratch.Sub("patch")
	if err != nil {
		return nil, err
	}
	patch, err := binpatch.Diff(ctx, canonicalTar, innerTar, patchScratch)
	if err != nil {
		return nil, err
	}

	logging.Debugf(ctx, "reproduce: gendelta %s: kind=%s manifest entries=%d patch=%d bytes", archivePath, kind, len(m), len(patch))

	return deltacontainer.PackTarDelta(ctx, deltacontainer.TarDelta{
		Version:         "2.0",
		Manifest:        m,
		Patch:           patch,
		Wrapper:         wrapperPacked,
		WrapperEncoding: wrapperEncoding,
	})
}
