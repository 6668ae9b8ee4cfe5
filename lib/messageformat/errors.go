// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messageformat

import "errors"

// Conversion errors. None of them wraps the error that caused it.
var (
	ErrBinarySerialize   = errors.New("messageformat: an error occurred serialising an object into binary")
	ErrBinaryDeserialize = errors.New("messageformat: an error occurred deserialising binary data into an object")
	ErrJSON              = errors.New("messageformat: an error occurred de-/serialising an object from/into JSON")
	ErrBase64Deserialize = errors.New("messageformat: an error occurred deserialising an object from Base64")
	ErrCBOR              = errors.New("messageformat: an error occurred de-/serialising an object from/into CBOR")
)
