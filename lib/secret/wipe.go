// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "runtime"

// Zero overwrites b with zeros.
//
// The stores must survive dead-store elimination even when b is never
// read again (the common case: a heap copy about to be dropped, or a
// region about to be unmapped). Zero is kept out of line so the compiler
// cannot see that its writes are unobserved at the call site, and
// runtime.KeepAlive keeps b live until after the loop.
//
//go:noinline
func Zero(b []byte) {
	for index := range b {
		b[index] = 0
	}
	runtime.KeepAlive(b)
}
