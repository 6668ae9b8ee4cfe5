// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides memory-safe containers for key material and
// other sensitive data.
//
// Two containers share one allocation strategy. Memory is taken from an
// anonymous mmap region outside the Go heap, locked into physical RAM
// via mlock (no swap), and marked MADV_DONTDUMP (no core dumps). The
// garbage collector never sees the region, so it cannot copy or move the
// secret. Release zeroes the region, unlocks it, and unmaps it.
//
// [Array] is a fixed-length array of N integer elements, where N is a
// type parameter satisfying [Length]. It is the type to use for
// cryptographic keys:
//
//	key := secret.New[byte, secret.Len32]()
//	defer key.Close()
//	if _, err := rand.Read(key.Bytes()); err != nil { ... }
//	if key.Equal(other) { ... }
//
// Equality on Array is always constant time: every element pair is
// visited regardless of where the first difference lies. [Array.Equal]
// is the same comparison as [Array.ConstantTimeEqual]; there is no
// faster early-exit variant. Arrays never print their contents through
// fmt or log/slog.
//
// [Buffer] is a variable-length byte container for secrets whose size is
// only known at run time (passwords, tokens, decrypted payloads).
//
// Constructors:
//
//   - [New] / [Allocate] -- zero-filled Array of length N
//   - [NewFrom] -- copies a same-length slice into an Array, wipes the source
//   - [ArrayFromBuffer] -- moves a Buffer of exactly N bytes into an Array
//   - [NewBuffer] -- zero-filled Buffer of a given size
//   - [NewBufferFromBytes] -- copies into a Buffer, zeros the source
//   - [NewBufferFromReader] -- reads from an io.Reader with a size limit
//   - [ReadFromPath] -- reads a trimmed secret from a file or stdin
//
// [Zero] is the wipe primitive used everywhere in this package and by
// callers that hold short-lived heap copies.
//
// Depends on golang.org/x/sys/unix. No internal dependencies.
package secret
