// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reproduce

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	. "github.com/luci/luci-go/common/testing/assertions"

	"github.com/pristinearchive/retar/errkinds"
	"github.com/pristinearchive/retar/repository"
)

// fakeRepo is an in-memory repository.Repository stand-in for unit tests.
type fakeRepo struct {
	refs  map[string]repository.TreeID
	blobs map[string][]byte
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{refs: map[string]repository.TreeID{}, blobs: map[string][]byte{}}
}

func (f *fakeRepo) Resolve(ctx context.Context, ref string) (repository.TreeID, error) {
	id, ok := f.refs[ref]
	if !ok {
		return "", &errkinds.RepositoryLookupError{Ref: ref}
	}
	return id, nil
}

func (f *fakeRepo) Materialize(ctx context.Context, id repository.TreeID, dir string) error {
	return os.WriteFile(filepath.Join(dir, "tree-id"), []byte(id), 0o644)
}

func (f *fakeRepo) ReadBlob(ctx context.Context, branch, path string) ([]byte, error) {
	return f.blobs[branch+":"+path], nil
}

func (f *fakeRepo) WriteBlob(ctx context.Context, branch, path, message string, data []byte) error {
	f.blobs[branch+":"+path] = data
	return nil
}

func (f *fakeRepo) BranchExists(ctx context.Context, branch string) (bool, bool, error) {
	return false, false, nil
}

func TestCheckout(tst *testing.T) {
	tst.Parallel()

	Convey("Checkout", tst, func() {
		repo := newFakeRepo()
		repo.refs["v1.0"] = "tree-abc"
		dest := tst.TempDir()

		id, err := Checkout(context.Background(), repo, "v1.0", dest)
		So(err, ShouldBeNil)
		So(id, ShouldEqual, repository.TreeID("tree-abc"))

		got, err := os.ReadFile(filepath.Join(dest, "tree-id"))
		So(err, ShouldBeNil)
		So(string(got), ShouldEqual, "tree-abc")
	})

	Convey("Checkout surfaces a lookup failure", tst, func() {
		repo := newFakeRepo()
		_, err := Checkout(context.Background(), repo, "nope", tst.TempDir())
		So(err, ShouldErrLike, "did not resolve")
	})
}

func TestCommit(tst *testing.T) {
	tst.Parallel()

	Convey("Commit writes the delta and a tree-id sidecar", tst, func() {
		repo := newFakeRepo()
		err := Commit(context.Background(), repo, "main", "deltas/archive.delta", "regen", []byte("delta bytes"), "tree-abc")
		So(err, ShouldBeNil)
		So(repo.blobs["main:deltas/archive.delta"], ShouldResemble, []byte("delta bytes"))
		So(repo.blobs["main:deltas/archive.delta.tree-id"], ShouldResemble, []byte("tree-abc"))
	})
}
