// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package binpatch

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/luci/luci-go/common/errors"
)

// Program is the external binary-patch tool this package shells out to.
// Exposed as a var (rather than a hardcoded literal) so tests can point it
// at a stand-in binary.
var Program = "xdelta3"

// Diff computes a binary patch that transforms pre into post and returns
// the patch bytes. Per spec §6/§9, the tool may exit 0 (identical) or 1
// ("files differed" — still success); any other status is fatal.
func Diff(ctx context.Context, pre, post []byte, scratchDir string) ([]byte, error) {
	prePath := filepath.Join(scratchDir, "diff.pre")
	postPath := filepath.Join(scratchDir, "diff.post")
	patchPath := filepath.Join(scratchDir, "diff.patch")
	if err := os.WriteFile(prePath, pre, 0o644); err != nil {
		return nil, errors.Annotate(err).Reason("writing pre-image").Err()
	}
	if err := os.WriteFile(postPath, post, 0o644); err != nil {
		return nil, errors.Annotate(err).Reason("writing post-image").Err()
	}
	defer os.Remove(prePath)
	defer os.Remove(postPath)
	defer os.Remove(patchPath)

	cmd := exec.CommandContext(ctx, Program, "-e", "-f", "-s", prePath, postPath, patchPath)
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			if code != 0 && code != 1 {
				return nil, errors.Annotate(err).Reason("%(prog)s diff exited %(code)d").
					D("prog", Program).D("code", code).Err()
			}
		} else {
			return nil, errors.Annotate(err).Reason("running %(prog)s diff").D("prog", Program).Err()
		}
	}

	patch, err := os.ReadFile(patchPath)
	if err != nil {
		return nil, errors.Annotate(err).Reason("reading patch output").Err()
	}
	return patch, nil
}

// Apply applies patch (produced by Diff) to pre and returns the
// reconstructed post-image. The patcher must reproduce post exactly given
// the same pre-image Diff was run against; it is not expected to tolerate
// a different pre-image (spec §9: "no fuzzy matching").
func Apply(ctx context.Context, pre, patch []byte, scratchDir string) ([]byte, error) {
	prePath := filepath.Join(scratchDir, "apply.pre")
	patchPath := filepath.Join(scratchDir, "apply.patch")
	postPath := filepath.Join(scratchDir, "apply.post")
	if err := os.WriteFile(prePath, pre, 0o644); err != nil {
		return nil, errors.Annotate(err).Reason("writing pre-image").Err()
	}
	if err := os.WriteFile(patchPath, patch, 0o644); err != nil {
		return nil, errors.Annotate(err).Reason("writing patch").Err()
	}
	defer os.Remove(prePath)
	defer os.Remove(patchPath)
	defer os.Remove(postPath)

	cmd := exec.CommandContext(ctx, Program, "-d", "-f", "-s", prePath, patchPath, postPath)
	if err := cmd.Run(); err != nil {
		return nil, errors.Annotate(err).Reason("running %(prog)s decode").D("prog", Program).Err()
	}

	post, err := os.ReadFile(postPath)
	if err != nil {
		return nil, errors.Annotate(err).Reason("reading reconstructed output").Err()
	}
	return post, nil
}
