// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errkinds holds the handful of typed errors named in spec §7 that
// callers need to distinguish programmatically (with errors.As) rather than
// by inspecting a message string. It is a leaf package so that every layer
// of retar — compressoracle, deltacontainer, reproduce, and the retar
// package itself — can return and recognise the same concrete types without
// an import cycle.
package errkinds

import "fmt"

// ParamValidationError is returned when a stored wrapper delta's params (or
// program) field contains a token outside its compressor's whitelist,
// per spec §4.1. It is always returned before any compressor process is
// spawned.
type ParamValidationError struct {
	Type  string // "gz" or "bz2"
	Token string
}

func (e *ParamValidationError) Error() string {
	return fmt.Sprintf("retar: param validation: %q is not a whitelisted %s parameter", e.Token, e.Type)
}

// SHA1MismatchError is returned when a reproduced compressed wrapper's
// SHA-1 disagrees with the sha1sum guard stored in its wrapper delta.
type SHA1MismatchError struct {
	Expected string
	Actual   string
}

func (e *SHA1MismatchError) Error() string {
	return fmt.Sprintf("retar: sha1 mismatch: reproduced %s, expected %s", e.Actual, e.Expected)
}

// ReproductionFailureError is returned when the compressor oracle exhausts
// every candidate invocation without finding an exact match and no
// residual-patch path is configured.
type ReproductionFailureError struct {
	Type string // "gz" or "bz2"
}

func (e *ReproductionFailureError) Error() string {
	return fmt.Sprintf("retar: no %s compressor invocation reproduced the input exactly", e.Type)
}

// RepositoryLookupError is returned by the commit/checkout wrappers when a
// reference does not resolve unambiguously; see the repository package.
type RepositoryLookupError struct {
	Ref        string
	Candidates []string
}

func (e *RepositoryLookupError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("retar: repository lookup: %q did not resolve to any branch", e.Ref)
	}
	return fmt.Sprintf("retar: repository lookup: %q is ambiguous: %v", e.Ref, e.Candidates)
}

// MissingDeltaEntryError is returned by deltacontainer when a required tar
// entry (spec §3's table) is absent from a decoded delta.
type MissingDeltaEntryError struct {
	Entry string
}

func (e *MissingDeltaEntryError) Error() string {
	return fmt.Sprintf("retar: delta lacks %s", e.Entry)
}

// UnsupportedVersionError is returned when a delta's version entry names a
// version this reader refuses, per spec §3/§8's version gate.
type UnsupportedVersionError struct {
	Container string // "tar delta", "wrapper delta" or "flat recode"
	Version   string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("retar: %s: unsupported version %q", e.Container, e.Version)
}

// CompressionMismatchError describes a request to restore a wrapper delta as
// a type it does not declare itself to be. No function in retar returns it:
// GenTar always restores a wrapper delta as the type the delta declares.
type CompressionMismatchError struct {
	Requested, Stored string
}

func (e *CompressionMismatchError) Error() string {
	return fmt.Sprintf("retar: compression mismatch: requested %q, delta is %q", e.Requested, e.Stored)
}
