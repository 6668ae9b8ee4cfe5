// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messageformat converts values to and from the four message
// encodings safekey exchanges: a compact binary form, JSON, base64 of
// the binary form, and CBOR.
//
// The binary form is compatible with the fixed-int little-endian layout
// of bincode:
//
//   - bool: one byte, 0 or 1
//   - fixed-width integers: little-endian at their width; int and uint
//     are 64 bits
//   - float32/float64: IEEE 754, little-endian
//   - string, slice, map: u64 length followed by the elements (map
//     entries sorted by their encoded key, so output is deterministic)
//   - array: the elements, no length
//   - pointer: an option; 0 for nil, 1 followed by the value
//   - struct: exported fields in declaration order; json:"-" fields are
//     skipped
//   - encoding.BinaryMarshaler: u64 length followed by MarshalBinary
//
// JSON uses encoding/json with HTML escaping disabled; fields appear in
// declaration order. Base64 is the standard padded alphabet with no line
// breaks. CBOR uses the Core Deterministic Encoding from lib/codec.
//
// Errors are opaque by design: every failure is one of [ErrBinarySerialize],
// [ErrBinaryDeserialize], [ErrJSON], [ErrBase64Deserialize] or [ErrCBOR],
// with no underlying cause attached. A decoder error message can describe
// the shape of the partially-decoded value, and for secret-bearing
// payloads that is itself a leak.
//
// [Format], [Encode] and [Decode] select an encoding by name, for callers
// such as the CLI that take the format as a flag.
package messageformat
