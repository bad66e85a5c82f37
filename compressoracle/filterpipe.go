// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package compressoracle

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/luci/luci-go/common/errors"
)

// childHandle wraps a spawned *exec.Cmd so that abandoning it (the
// early-kill path below) always reaps the process instead of leaking it,
// per spec §5 and the scoped-resource-discipline design note (spec §9).
type childHandle struct {
	cmd *exec.Cmd
}

func (h childHandle) killAndReap() {
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
	_ = h.cmd.Wait()
}

// MatchesExactly runs candidate against plaintext and reports whether its
// compressed output is byte-identical to target, without ever materialising
// the candidate's full output: the compressor child streams into a second
// "cmp" child that reads alongside it, and the instant cmp reports a
// difference the compressor child is killed and reaped (spec §4.1, §5).
//
// target is read from targetPath rather than held in memory so that the
// comparator child can stream it directly; the oracle always has the
// original compressed file on disk already.
func MatchesExactly(ctx context.Context, c Candidate, plaintext []byte, targetPath string) (bool, error) {
	compressor := exec.CommandContext(ctx, c.Program, c.Args...)
	compressor.Stdin = bytes.NewReader(plaintext)

	compressedOut, err := compressor.StdoutPipe()
	if err != nil {
		return false, errors.Annotate(err).Reason("wiring compressor stdout").Err()
	}

	comparator := exec.CommandContext(ctx, "cmp", "-s", "-", targetPath)
	comparator.Stdin = compressedOut

	if err := compressor.Start(); err != nil {
		return false, errors.Annotate(err).Reason("starting compressor %(prog)q").D("prog", c.Program).Err()
	}
	compressorHandle := childHandle{compressor}

	if err := comparator.Start(); err != nil {
		compressorHandle.killAndReap()
		return false, errors.Annotate(err).Reason("starting comparator").Err()
	}
	comparatorHandle := childHandle{comparator}

	type waitResult struct {
		who string
		err error
	}
	done := make(chan waitResult, 2)
	go func() { done <- waitResult{"compressor", compressor.Wait()} }()
	go func() { done <- waitResult{"comparator", comparator.Wait()} }()

	first := <-done
	switch first.who {
	case "comparator":
		// cmp exits 0 on equal, 1 on first-byte mismatch (or length
		// mismatch), >1 on its own failure. Either way the compressor is no
		// longer needed: kill it so it isn't left writing into a pipe
		// nobody reads from.
		compressorHandle.killAndReap()
		if first.err == nil {
			return true, nil
		}
		if exitErr, ok := first.err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, errors.Annotate(first.err).Reason("comparator failed").Err()

	case "compressor":
		if first.err != nil {
			comparatorHandle.killAndReap()
			return false, errors.Annotate(first.err).Reason("compressor %(prog)q failed").D("prog", c.Program).Err()
		}
		// Compressor finished normally; closing its stdout drains the pipe
		// and lets the comparator reach EOF on its own, so a plain Wait
		// reaps it without an explicit kill.
		second := <-done
		if second.err == nil {
			return true, nil
		}
		if exitErr, ok := second.err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, errors.Annotate(second.err).Reason("comparator failed").Err()
	}
	panic("unreachable")
}

// RunToCompletion runs candidate against plaintext and returns its full
// compressed output. Used only by the residual-patch fallback (spec §4.1),
// which — unlike the first-match pass — needs the materialised bytes to
// hand to the binary-patch tool.
func RunToCompletion(ctx context.Context, c Candidate, plaintext []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Stdin = bytes.NewReader(plaintext)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Annotate(err).Reason("running compressor %(prog)q to completion").D("prog", c.Program).Err()
	}
	return out, nil
}
