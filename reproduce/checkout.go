// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"context"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/repository"
)

// Checkout resolves ref against repo and materialises it into destDir,
// returning the resolved tree id so the caller can record it alongside
// whatever delta it produces (spec §4.4's commit/checkout note (d): "store
// or retrieve the delta blob plus its associated tree-id sidecar").
//
// This does not belong to the core: it is a thin wrapper that lets a CLI
// go straight from a repository reference to a GenDelta/GenTar call.
func Checkout(ctx context.Context, repo repository.Repository, ref, destDir string) (repository.TreeID, error) {
	id, err := repo.Resolve(ctx, ref)
	if err != nil {
		return "", errors.Annotate(err).Reason("resolving %(ref)q").D("ref", ref).Err()
	}
	if err := repo.Materialize(ctx, id, destDir); err != nil {
		return "", errors.Annotate(err).Reason("materialising %(ref)q into %(dir)q").D("ref", ref).D("dir", destDir).Err()
	}
	return id, nil
}
