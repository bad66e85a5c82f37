// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package manifest implements the ordered path list that records original
// tar entry order (spec §3 "Manifest"). It is the one piece of metadata the
// content-tracking repository never preserves, so it travels inside every
// tar delta.
package manifest

import (
	"archive/tar"
	"io"
	"strings"

	"github.com/luci/luci-go/common/data/stringset"
	"github.com/luci/luci-go/common/errors"
)

// Manifest is an ordered, normalised sequence of tar entry paths. Order is
// significant: it is the traversal order the canonical tar builder replays
// (spec §3 invariant — the builder must see files only through the
// manifest, never by recursing the working tree itself).
type Manifest []string

// Normalize strips a leading "./" or "/" from p and reports whether the
// result should be kept (empty paths are dropped per spec §3).
func Normalize(p string) (string, bool) {
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		default:
			return p, p != ""
		}
	}
}

// FromTarReader builds a Manifest by reading every header from r in order,
// normalising each name per Normalize. r is expected to be positioned at
// the start of a tar stream; FromTarReader consumes it to EOF.
func FromTarReader(r *tar.Reader) (Manifest, error) {
	var m Manifest
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err).Reason("reading tar header for manifest").Err()
		}
		if name, ok := Normalize(hdr.Name); ok {
			m = append(m, name)
		}
	}
	return m, nil
}

// Parse decodes the newline-separated `manifest` entry of a tar delta
// (spec §3) back into a Manifest, preserving order and applying the same
// normalisation FromTarReader would (so a hand-edited delta can't smuggle
// an unnormalised path back in).
func Parse(raw []byte) Manifest {
	lines := strings.Split(string(raw), "\n")
	m := make(Manifest, 0, len(lines))
	for _, line := range lines {
		if name, ok := Normalize(line); ok {
			m = append(m, name)
		}
	}
	return m
}

// Format renders the Manifest as the newline-separated `manifest` entry
// spec §3 defines.
func (m Manifest) Format() []byte {
	return []byte(strings.Join(m, "\n"))
}

// Validate checks the invariants spec §3/§8 place on a manifest: no leading
// "/" or "./" (Normalize already guarantees this for anything constructed
// via this package, but Validate also catches manifests decoded from an
// untrusted or hand-edited delta), no empty entries, and no duplicate
// paths.
func (m Manifest) Validate() error {
	seen := stringset.New(len(m))
	for _, p := range m {
		if p == "" {
			return errors.New("manifest contains an empty path")
		}
		if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "./") {
			return errors.Reason("manifest path %(path)q is not normalised").D("path", p).Err()
		}
		if !seen.Add(p) {
			return errors.Reason("manifest contains duplicate path %(path)q").D("path", p).Err()
		}
	}
	return nil
}

// CommonTopComponent returns the shared first path component of every
// non-empty manifest entry, and true iff every entry shares one (spec
// §4.2's subdirectory pre-pack). It returns ("", false) when the manifest
// is empty, when any entry has no separator (a bare top-level entry, which
// per §9's design notes disables the wrapping subdirectory outright), or
// when entries disagree on their first component.
func (m Manifest) CommonTopComponent() (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	var top string
	for i, p := range m {
		idx := strings.IndexByte(p, '/')
		if idx < 0 {
			// A top-level file or directory entry: tar's own name
			// canonicalisation quirks mean the manifest can't be trusted to
			// wrap everything in a single directory.
			return "", false
		}
		component := p[:idx]
		if i == 0 {
			top = component
		} else if component != top {
			return "", false
		}
	}
	return top, true
}
