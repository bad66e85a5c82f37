// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package repository defines the content-tracking-repository collaborator
// spec §6 places out of core scope: the thing that stores working-tree
// snapshots and delta blobs. reproduce's commit/checkout wrappers depend
// only on this interface, never on a concrete store, so the core stays
// testable without a real repository and swappable across backends (a
// content-addressed DAG store is the reference target, but anything
// implementing this interface suffices).
package repository

import "context"

// TreeID names an immutable tree snapshot within a Repository. Its
// internal structure is opaque to the core; only the Repository
// implementation interprets it.
type TreeID string

// Repository is the capability set spec §6 requires: resolve a name to a
// tree snapshot, materialise a snapshot onto disk, read and write blobs on
// a named branch, and probe branch existence ahead of a checkout.
//
// Every method takes a context.Context because every implementation this
// core will realistically be pointed at is network-backed.
type Repository interface {
	// Resolve maps a reference (tag, branch name, commit-ish) to the tree
	// snapshot it names. An ambiguous or unknown ref returns
	// *retar.RepositoryLookupError.
	Resolve(ctx context.Context, ref string) (TreeID, error)

	// Materialize extracts the tree snapshot id into dir, which must be
	// either nonexistent or empty.
	Materialize(ctx context.Context, id TreeID, dir string) error

	// ReadBlob reads the blob stored at path on branch.
	ReadBlob(ctx context.Context, branch, path string) ([]byte, error)

	// WriteBlob stores data at path on branch, committing it with message.
	WriteBlob(ctx context.Context, branch, path, message string, data []byte) error

	// BranchExists reports whether branch exists locally, remotely, or
	// both. reproduce.Checkout does not call it: an ambiguous ref is
	// reported by Resolve, as a *retar.RepositoryLookupError.
	BranchExists(ctx context.Context, branch string) (local, remote bool, err error)
}
