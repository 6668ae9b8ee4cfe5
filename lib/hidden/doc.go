// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hidden provides [Hidden], a wrapper that keeps a secret from
// leaking through the generic paths a value travels: formatting, logging,
// and serialization.
//
// A Hidden owns its secret. The only way to reach the secret is
// [Hidden.Reveal], which makes every use greppable. fmt verbs, %#v,
// log/slog attributes, encoding/json, encoding.TextMarshaler and
// encoding.BinaryMarshaler all see a redacted placeholder or an
// [ErrNotSerializable] error. Hidden deliberately has no Equal method:
// compare revealed secrets with their own constant-time comparison.
//
// Declare a named secret type with an alias:
//
//	type CipherKey = hidden.Hidden[*secret.Array[byte, secret.Len32]]
//
//	key := hidden.New(secret.New[byte, secret.Len32]())
//	defer key.Close()
//	rand.Read(key.Reveal().Bytes())
//
// Close closes the wrapped secret (zeroing it for lib/secret types).
package hidden
