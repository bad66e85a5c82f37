// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package canonicaltar

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/tardata/manifest"
)

// Program is the external tar binary invoked to produce the canonical
// byte stream. Exposed as a var so tests can point it at a stand-in.
var Program = "tar"

// Build runs the full C2 pipeline — Prepack then Normalize — against root,
// then invokes the archiver to produce the canonical tar byte stream (spec
// §4.2's contract: bytewise-equal output for equal (W-contents-per-M, M)
// regardless of filesystem metadata). scratchRoot is used for Prepack's
// possible workdir/c interposition and for the manifest file handed to
// --files-from.
func Build(ctx context.Context, root string, m manifest.Manifest, scratchRoot string, opts ...BuildOption) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Annotate(err).Reason("validating manifest").Err()
	}

	archiveRoot, err := Prepack(root, m, scratchRoot, opts...)
	if err != nil {
		return nil, err
	}

	if err := Normalize(ctx, archiveRoot, m, opts...); err != nil {
		return nil, err
	}

	return invokeArchiver(ctx, archiveRoot, m, scratchRoot)
}

// invokeArchiver shells out to Program with every metadata-affecting flag
// pinned per spec §4.2/§6: forced-zero owner/group, numeric owner, no
// recursion beyond the manifest, uniform mode 0644, and the manifest
// itself as --files-from. Locale is forced to C so that filename bytes are
// passed through unmodified rather than being transcoded by the archiver.
func invokeArchiver(ctx context.Context, root string, m manifest.Manifest, scratchRoot string) ([]byte, error) {
	manifestPath := filepath.Join(scratchRoot, "files-from")
	if err := os.WriteFile(manifestPath, m.Format(), 0o644); err != nil {
		return nil, errors.Annotate(err).Reason("writing --files-from manifest").Err()
	}
	defer os.Remove(manifestPath)

	cmd := exec.CommandContext(ctx, Program,
		"--create",
		"--no-recursion",
		"--owner=0",
		"--group=0",
		"--numeric-owner",
		"--mode=0644",
		"--files-from="+manifestPath,
		"--directory="+root,
		"--file=-",
	)
	cmd.Env = append(os.Environ(), "LC_ALL=C", "LANG=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Annotate(err).Reason("running %(prog)q: %(stderr)s").
			D("prog", Program).D("stderr", stderr.String()).Err()
	}
	return stdout.Bytes(), nil
}
