// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed moves secrets in and out of age encryption. It wraps
// filippo.io/age for the three operations safekey needs: seal plaintext
// to x25519 recipients, open ciphertext with an identity, and validate
// keys.
//
// Ciphertext is base64-encoded so that it fits in a JSON string field of
// an [Envelope]. Identities and opened plaintext are [secret.Buffer]
// values; [OpenArray] moves a fixed-size key straight into a
// [secret.Array].
//
// Key exports:
//
//   - [Seal] / [Open] / [OpenArray] -- raw age seal and open
//   - [SealEnvelope] / [OpenEnvelope] -- labelled, length-checked records
//   - [ParseRecipient] / [ParseIdentity] -- key validation
//
// This package never generates keys. Recipients and identities come from
// age-keygen or an existing key store.
package sealed
