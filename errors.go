// Copyright 2024 The Retar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package retar

import "github.com/pristinearchive/retar/errkinds"

// The typed error kinds from spec §7 are defined in errkinds so that every
// internal package can return and recognise them without importing the
// retar package itself (which would risk an import cycle once reproduce
// imports retar for Options). These aliases let callers of the public API
// write retar.ParamValidationError instead of reaching into errkinds
// directly.
type (
	ParamValidationError     = errkinds.ParamValidationError
	SHA1MismatchError        = errkinds.SHA1MismatchError
	ReproductionFailureError = errkinds.ReproductionFailureError
	RepositoryLookupError    = errkinds.RepositoryLookupError
	MissingDeltaEntryError   = errkinds.MissingDeltaEntryError
	UnsupportedVersionError  = errkinds.UnsupportedVersionError
	CompressionMismatchError = errkinds.CompressionMismatchError
)
