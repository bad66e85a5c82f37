// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deltacontainer

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"time"

	"github.com/luci/luci-go/common/errors"
	"github.com/luci/luci-go/common/iotools"
	"github.com/luci/luci-go/common/logging"

	"github.com/pristinearchive/retar/errkinds"
)

var epoch = time.Unix(0, 0)

// packEntries writes a gzipped tar containing one entry per name in
// order, skipping any name absent from values. Every entry gets identical
// fixed metadata (spec §4.3: mtime 0, ustar format, numeric owner, mode
// 0644, owner=group=0) so that packing the same entries twice produces
// identical bytes.
//
// The uncompressed stream is counted on its way through the gzip writer
// purely so the resulting compression ratio can be logged; it has no
// bearing on the bytes actually written.
func packEntries(ctx context.Context, order []string, values map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	counted := &iotools.CountingWriter{Writer: gw}
	tw := tar.NewWriter(counted)

	for _, name := range order {
		data, ok := values[name]
		if !ok {
			continue
		}
		hdr := &tar.Header{
			Name:       name,
			Size:       int64(len(data)),
			Mode:       0o644,
			Uid:        0,
			Gid:        0,
			Uname:      "",
			Gname:      "",
			ModTime:    epoch,
			Format:     tar.FormatUSTAR,
			Typeflag:   tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, errors.Annotate(err).Reason("writing %(name)q header").D("name", name).Err()
		}
		if _, err := tw.Write(data); err != nil {
			return nil, errors.Annotate(err).Reason("writing %(name)q body").D("name", name).Err()
		}
	}

	if err := tw.Close(); err != nil {
		return nil, errors.Annotate(err).Reason("closing container tar writer").Err()
	}
	if err := gw.Close(); err != nil {
		return nil, errors.Annotate(err).Reason("closing container gzip writer").Err()
	}
	logging.Debugf(ctx, "deltacontainer: packed %d uncompressed bytes into %d container bytes", counted.Count, buf.Len())
	return buf.Bytes(), nil
}

// unpackEntries reads a gzipped tar back into a name->bytes map. Unknown
// entries are kept (callers decide what to ignore) rather than rejected,
// per spec §4.3's "unknown entries are ignored".
func unpackEntries(data []byte) (map[string][]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Annotate(err).Reason("opening container gzip stream").Err()
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	out := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err).Reason("reading container tar entry").Err()
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Annotate(err).Reason("reading %(name)q body").D("name", hdr.Name).Err()
		}
		out[hdr.Name] = body
	}
	return out, nil
}

// requireEntry fetches name from entries or reports the spec §7
// missing-delta-entry error.
func requireEntry(entries map[string][]byte, name string) ([]byte, error) {
	v, ok := entries[name]
	if !ok {
		return nil, &errkinds.MissingDeltaEntryError{Entry: name}
	}
	return v, nil
}
