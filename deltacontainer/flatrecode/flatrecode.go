// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package flatrecode implements spec §6's flat encoding: an alternate,
// RFC-822-style wire format for a wrapper delta, meant for
// content-tracking stores that want a single blob rather than a nested
// gzipped tar. There is no wrapper-delta-specific third-party library in
// the example pack or the wider ecosystem for this; net/mail and
// mime/multipart are the standard way any Go program reads and writes an
// RFC-822 message, so this package uses them directly rather than
// hand-rolling header folding/quoting. See DESIGN.md.
package flatrecode

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/luci/luci-go/common/errors"

	"github.com/pristinearchive/retar/errkinds"
)

// Version is the only Flat-Recode-Version this package produces or
// accepts.
const Version = "1.0"

// FlatRecode is the decoded form of a flat-encoded wrapper delta. Unlike
// deltacontainer.WrapperDelta, it always carries the decompressed
// plaintext: the single-body form reproduces the original purely by
// recompressing Plaintext with Params, while the multipart form additionally
// carries a residual Patch to apply afterward.
type FlatRecode struct {
	Type      string // "gz" or "bz2"
	SHA1      []byte
	Params    string
	Program   string // bz2 only
	Filename  string // gz only, pre-percent-encoding
	Timestamp uint32 // gz only
	Patch     []byte // nil unless a residual patch was needed
	Plaintext []byte
}

// Encode renders d as the RFC-822-style message spec §6 defines.
func Encode(d FlatRecode) ([]byte, error) {
	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, value)
	}

	var bodyBuf bytes.Buffer
	if d.Patch != nil {
		boundary := hex.EncodeToString(d.SHA1)
		mw := multipart.NewWriter(&bodyBuf)
		if err := mw.SetBoundary(boundary); err != nil {
			return nil, errors.Annotate(err).Reason("setting multipart boundary").Err()
		}
		writeHeader("Content-Type", fmt.Sprintf("multipart/flat-recode; boundary=%q", boundary))

		patchPart, err := mw.CreatePart(textproto.MIMEHeader{})
		if err != nil {
			return nil, errors.Annotate(err).Reason("creating patch part").Err()
		}
		if _, err := patchPart.Write(d.Patch); err != nil {
			return nil, errors.Annotate(err).Reason("writing patch part").Err()
		}

		plaintextPart, err := mw.CreatePart(textproto.MIMEHeader{})
		if err != nil {
			return nil, errors.Annotate(err).Reason("creating plaintext part").Err()
		}
		if _, err := plaintextPart.Write(d.Plaintext); err != nil {
			return nil, errors.Annotate(err).Reason("writing plaintext part").Err()
		}
		if err := mw.Close(); err != nil {
			return nil, errors.Annotate(err).Reason("closing multipart writer").Err()
		}
	} else {
		writeHeader("Content-Type", "application/flat-recode")
		bodyBuf.Write(d.Plaintext)
	}

	writeHeader("Flat-Recode-Version", Version)
	writeHeader("Pristine-SHA1", base64.StdEncoding.EncodeToString(d.SHA1))
	writeHeader("Type", d.Type)
	switch d.Type {
	case "gz":
		writeHeader("Filename", url.QueryEscape(d.Filename))
		writeHeader("Timestamp", strconv.FormatUint(uint64(d.Timestamp), 10))
		writeHeader("Params", d.Params)
	case "bz2":
		writeHeader("Program", d.Program)
		writeHeader("Params", d.Params)
	default:
		return nil, errors.Reason("flatrecode: unknown type %(typ)q").D("typ", d.Type).Err()
	}

	buf.WriteString("\r\n")
	buf.Write(bodyBuf.Bytes())
	return buf.Bytes(), nil
}

// Decode parses a flat-encoded message. It requires the Pristine-SHA1
// header to be present and decodes it, but does not compare it with
// anything: checking the reproduced compressed output against it is left to
// the caller after recompression (GenTar does so via
// deltacontainer.VerifySHA1).
func Decode(data []byte) (FlatRecode, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return FlatRecode{}, errors.Annotate(err).Reason("parsing flat-recode message").Err()
	}

	if v := msg.Header.Get("Flat-Recode-Version"); v != Version {
		return FlatRecode{}, &errkinds.UnsupportedVersionError{Container: "flat recode", Version: v}
	}

	pristine := msg.Header.Get("Pristine-SHA1")
	if pristine == "" {
		return FlatRecode{}, &errkinds.MissingDeltaEntryError{Entry: "Pristine-SHA1"}
	}
	sha1, err := base64.StdEncoding.DecodeString(pristine)
	if err != nil {
		return FlatRecode{}, errors.Annotate(err).Reason("decoding Pristine-SHA1").Err()
	}

	kind := msg.Header.Get("Type")
	d := FlatRecode{Type: kind, SHA1: sha1}
	switch kind {
	case "gz":
		filename, err := url.QueryUnescape(msg.Header.Get("Filename"))
		if err != nil {
			return FlatRecode{}, errors.Annotate(err).Reason("decoding Filename").Err()
		}
		d.Filename = filename
		ts, err := strconv.ParseUint(msg.Header.Get("Timestamp"), 10, 32)
		if err != nil {
			return FlatRecode{}, errors.Annotate(err).Reason("parsing Timestamp").Err()
		}
		d.Timestamp = uint32(ts)
		d.Params = msg.Header.Get("Params")
	case "bz2":
		d.Program = msg.Header.Get("Program")
		d.Params = msg.Header.Get("Params")
	default:
		return FlatRecode{}, errors.Reason("flatrecode: unknown type %(typ)q").D("typ", kind).Err()
	}

	mediaType, mediaParams, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return FlatRecode{}, errors.Annotate(err).Reason("parsing Content-Type").Err()
	}

	if mediaType == "multipart/flat-recode" {
		mr := multipart.NewReader(msg.Body, mediaParams["boundary"])
		patchPart, err := mr.NextPart()
		if err != nil {
			return FlatRecode{}, errors.Annotate(err).Reason("reading patch part").Err()
		}
		patch, err := io.ReadAll(patchPart)
		if err != nil {
			return FlatRecode{}, errors.Annotate(err).Reason("reading patch part body").Err()
		}
		plaintextPart, err := mr.NextPart()
		if err != nil {
			return FlatRecode{}, errors.Annotate(err).Reason("reading plaintext part").Err()
		}
		plaintext, err := io.ReadAll(plaintextPart)
		if err != nil {
			return FlatRecode{}, errors.Annotate(err).Reason("reading plaintext part body").Err()
		}
		d.Patch = patch
		d.Plaintext = plaintext
		return d, nil
	}

	plaintext, err := io.ReadAll(msg.Body)
	if err != nil {
		return FlatRecode{}, errors.Annotate(err).Reason("reading single-body plaintext").Err()
	}
	d.Plaintext = plaintext
	return d, nil
}
