// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds safekey's CBOR configuration so that every package
// encodes identically.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2). The same
// logical value always produces the same bytes, which matters when a
// sealed message is compared or hashed by a peer. Types implementing
// encoding.BinaryMarshaler, secret.Array among them, become CBOR byte
// strings.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Field names follow `json` struct tags (fxamacker/cbor falls back to
// them when no `cbor` tag is present), so one tag set serves every
// message format.
package codec
