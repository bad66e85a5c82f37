// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
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
)

// GenTar implements spec §4.4's gentar(delta_bytes, working-tree) ->
// archive_path.
func GenTar(ctx context.Context, deltaBytes []byte, workingTree, archivePath string, opts retar.Options) error {
	td, err := deltacontainer.UnpackTarDelta(deltaBytes)
	if err != nil {
		return err
	}
	if err := td.Manifest.Validate(); err != nil {
		return errors.Annotate(err).Reason("validating stored manifest").Err()
	}

	scratch, err := NewScratch(opts.KeepScratch)
	if err != nil {
		return err
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			logging.Warningf(ctx, "reproduce: failed to remove scratch dir %s: %s", scratch.Root, err)
		}
	}()

	canonicalScratch, err := scratch.Sub("canonical")
	if err != nil {
		return err
	}
	canonicalTar, err := canonicaltar.Build(ctx, workingTree, td.Manifest, canonicalScratch)
	if err != nil {
		return err
	}
	digestScratch(ctx, opts, "canonical", canonicalTar)

	patchScratch, err := scratch.Sub("patch")
	if err != nil {
		return err
	}
	innerTar, err := binpatch.Apply(ctx, canonicalTar, td.Patch, patchScratch)
	if err != nil {
		return err
	}

	if len(td.Wrapper) == 0 {
		return writeAtomic(archivePath, innerTar)
	}

	// Both wrapper encodings decode to the same handful of fields; only how
	// they arrive on the wire differs (spec §6's flat encoding vs the
	// default gzipped-tar container).
	var kind, params, filename, program string
	var timestamp uint32
	var residualPatch, sha1 []byte

	switch td.WrapperEncoding {
	case deltacontainer.WrapperEncodingFlat:
		fr, err := flatrecode.Decode(td.Wrapper)
		if err != nil {
			return err
		}
		kind, params, filename, program, timestamp = fr.Type, fr.Params, fr.Filename, fr.Program, fr.Timestamp
		residualPatch, sha1 = fr.Patch, fr.SHA1
	default:
		wd, err := deltacontainer.UnpackWrapperDelta(td.Wrapper)
		if err != nil {
			return err
		}
		kind, params, filename, program, timestamp = wd.Type, wd.Params, wd.Filename, wd.Program, wd.Timestamp
		residualPatch, sha1 = wd.Patch, wd.SHA1
	}

	var compressed []byte
	switch kind {
	case "gz":
		compressed, err = compressoracle.RestoreGzip(ctx, params, filename, timestamp, innerTar)
	case "bz2":
		compressed, err = compressoracle.RestoreBzip2(ctx, program, params, innerTar)
	default:
		err = errors.Reason("gentar: wrapper delta has unknown type %(typ)q").D("typ", kind).Err()
	}
	if err != nil {
		return err
	}

	if residualPatch != nil {
		residualScratch, err := scratch.Sub("residual")
		if err != nil {
			return err
		}
		compressed, err = binpatch.Apply(ctx, compressed, residualPatch, residualScratch)
		if err != nil {
			return err
		}
	}

	if err := deltacontainer.VerifySHA1(deltacontainer.WrapperDelta{SHA1: sha1}, compressed); err != nil {
		return err
	}

	return writeAtomic(archivePath, compressed)
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so that a failed reproduction never leaves a partially-written
// archive at the requested path (spec §8 "must not overwrite an existing
// output file" on a SHA-1 mismatch is a stronger version of this same
// guarantee).
func writeAtomic(path string, data []byte) error {
	tmp := path + ".retar-tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Annotate(err).Reason("writing %(path)q").D("path", tmp).Err()
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Annotate(err).Reason("renaming into place %(path)q").D("path", path).Err()
	}
	return nil
}
