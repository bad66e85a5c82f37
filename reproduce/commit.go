// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"context"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/repository"
)

// treeIDSidecarSuffix names the sidecar blob Commit writes next to every
// delta, recording which tree snapshot the delta was generated against.
const treeIDSidecarSuffix = ".tree-id"

// Commit stores a delta blob (produced by GenDelta) at path on branch,
// plus a sidecar blob recording the tree id it was generated from (spec
// §4.4's commit/checkout note (d)).
func Commit(ctx context.Context, repo repository.Repository, branch, path, message string, delta []byte, treeID repository.TreeID) error {
	if err := repo.WriteBlob(ctx, branch, path, message, delta); err != nil {
		return errors.Annotate(err).Reason("writing delta blob %(path)q").D("path", path).Err()
	}
	if err := repo.WriteBlob(ctx, branch, path+treeIDSidecarSuffix, message, []byte(treeID)); err != nil {
		return errors.Annotate(err).Reason("writing tree-id sidecar for %(path)q").D("path", path).Err()
	}
	return nil
}
