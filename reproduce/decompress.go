// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/tardata"
)

// decompress runs the external decompressor for kind against compressed
// and returns the plaintext (spec §6's "Decompressor" contract: reads
// compressed bytes on stdin, writes plaintext on stdout, exits 0 or — for
// gz only — 2, tolerated as success for trailing-garbage tolerance).
func decompress(ctx context.Context, kind tardata.Kind, compressed []byte) ([]byte, error) {
	var prog string
	switch kind {
	case tardata.KindGzip:
		prog = "gzip"
	case tardata.KindBzip2:
		prog = "bzip2"
	default:
		return nil, errors.Reason("decompress: unsupported kind %(kind)s").D("kind", kind.String()).Err()
	}

	cmd := exec.CommandContext(ctx, prog, "-dc")
	cmd.Stdin = bytes.NewReader(compressed)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if ok && kind == tardata.KindGzip && exitErr.ExitCode() == 2 {
			return out.Bytes(), nil
		}
		return nil, errors.Annotate(err).Reason("running %(prog)q -dc: %(stderr)s").
			D("prog", prog).D("stderr", stderr.String()).Err()
	}
	return out.Bytes(), nil
}
