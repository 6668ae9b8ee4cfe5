// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "fmt"

// Length is a type-level array length. Implementations are empty
// structs whose Len method returns a constant, so that arrays of
// different lengths are different types:
//
//	type Len20 struct{}
//
//	func (Len20) Len() int { return 20 }
//
//	var digest *secret.Array[byte, Len20]
type Length interface {
	Len() int
}

// Predefined lengths for common key and nonce sizes.
type (
	Len16 struct{}
	Len24 struct{}
	Len32 struct{}
	Len48 struct{}
	Len64 struct{}
)

func (Len16) Len() int { return 16 }
func (Len24) Len() int { return 24 }
func (Len32) Len() int { return 32 }
func (Len48) Len() int { return 48 }
func (Len64) Len() int { return 64 }

// LengthOf returns the element count encoded by N.
func LengthOf[N Length]() int {
	var length N
	n := length.Len()
	if n < 0 {
		panic(fmt.Sprintf("secret: %T.Len() returned negative length %d", length, n))
	}
	return n
}
