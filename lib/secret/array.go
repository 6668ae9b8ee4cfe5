// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"unsafe"
)

// Element is the set of element types an Array may hold. Only
// fixed-width integer kinds are allowed: their equality is exactly the
// equality of their memory, which is what makes a single constant-time
// comparison over the raw bytes correct for every element type.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~uintptr
}

// Array holds exactly N elements of type T in locked memory outside the
// Go heap. It is intended to back cryptographic keys and other secrets
// of a fixed size.
//
// The length is part of the type: an Array[byte, Len32] can only ever
// hold 32 bytes, and there is no operation that resizes it. Elements are
// reached through [Array.Slice] or [Array.Bytes]; equality is always
// constant time ([Array.Equal] and [Array.ConstantTimeEqual] are the
// same comparison); copies of the secret are only made by an explicit
// [Array.Clone].
//
// Array has no internal locking. Sharing one between goroutines requires
// the caller's own synchronization.
//
// An Array must not be copied by value after first use. Close it when
// the secret is no longer needed, ideally with defer immediately after
// construction:
//
//	key := secret.New[byte, secret.Len32]()
//	defer key.Close()
//
// Close zeroes, unlocks and unmaps the memory. An Array that becomes
// unreachable without being closed is released the same way by a
// garbage collector cleanup, but that may run arbitrarily late; do not
// rely on it. After Close every accessor panics.
//
// The zero value is usable: the backing memory is allocated on first
// access. This lets an Array be the target of a decoder.
type Array[T Element, N Length] struct {
	region  []byte
	data    []T
	cleanup runtime.Cleanup
	closed  bool
}

// New returns an Array whose N elements are all zero (the default value
// of every Element type). Failure to allocate locked memory panics, the
// same way the runtime treats an out-of-memory make.
func New[T Element, N Length]() *Array[T, N] {
	array, err := Allocate[T, N]()
	if err != nil {
		panic(err)
	}
	return array
}

// Allocate is New, but returns the allocation error instead of
// panicking. mlock failures (RLIMIT_MEMLOCK exhausted, missing
// CAP_IPC_LOCK) surface here.
func Allocate[T Element, N Length]() (*Array[T, N], error) {
	array := &Array[T, N]{}
	if err := array.allocate(); err != nil {
		return nil, err
	}
	return array, nil
}

// NewFrom copies source into a new Array and then zeroes source, so the
// caller's slice no longer holds the secret.
//
// len(source) must be exactly N. The length of a key is a property of
// the program, not of its input, so a mismatch is a bug in the caller
// and panics. Use [ArrayFromBuffer] for secrets whose length comes from
// outside the program.
func NewFrom[T Element, N Length](source []T) *Array[T, N] {
	length := LengthOf[N]()
	if len(source) != length {
		panic(fmt.Sprintf("secret: NewFrom: source has %d elements, want %d", len(source), length))
	}

	array := New[T, N]()
	copy(array.data, source)
	Zero(elementBytes(source))
	return array
}

// ArrayFromBuffer copies the contents of buffer into a new byte Array.
// It returns an error if buffer does not hold exactly N bytes. The
// buffer is borrowed and is not closed.
func ArrayFromBuffer[N Length](buffer *Buffer) (*Array[byte, N], error) {
	source := buffer.Bytes()
	length := LengthOf[N]()
	if len(source) != length {
		return nil, fmt.Errorf("secret: buffer holds %d bytes, want %d", len(source), length)
	}

	array, err := Allocate[byte, N]()
	if err != nil {
		return nil, err
	}
	copy(array.data, source)
	return array, nil
}

func (a *Array[T, N]) allocate() error {
	length := LengthOf[N]()
	if length == 0 {
		a.data = []T{}
		return nil
	}

	region, err := lockRegion(length * elementSize[T]())
	if err != nil {
		return err
	}

	a.region = region
	a.data = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(region))), length)
	a.cleanup = runtime.AddCleanup(a, releaseUnreachable, region)
	return nil
}

// releaseUnreachable runs on the cleanup goroutine for an Array that was
// dropped without Close. It must not reference the Array itself.
func releaseUnreachable(region []byte) {
	_ = releaseRegion(region)
}

// ensure panics if the array is closed and allocates the backing memory
// of a zero-value Array.
func (a *Array[T, N]) ensure() {
	if a.closed {
		panic("secret: use of closed Array")
	}
	if a.data == nil {
		if err := a.allocate(); err != nil {
			panic(err)
		}
	}
}

// Len returns N.
func (a *Array[T, N]) Len() int {
	return LengthOf[N]()
}

// Slice returns the N elements. The slice aliases the locked memory:
// writes through it modify the secret in place, and it must not be
// retained beyond Close. Panics after Close.
func (a *Array[T, N]) Slice() []T {
	a.ensure()
	return a.data
}

// Bytes returns the memory of the N elements as bytes, in host byte
// order. For Array[byte, N] this is the same memory as Slice. Use it to
// hand the secret to byte-oriented APIs:
//
//	if _, err := io.ReadFull(rand.Reader, key.Bytes()); err != nil { ... }
//
// The same aliasing and lifetime rules as Slice apply.
func (a *Array[T, N]) Bytes() []byte {
	a.ensure()
	return elementBytes(a.data)
}

// ConstantTimeCompare returns 1 if a and other hold equal elements and
// 0 otherwise.
//
// Every byte of both arrays is visited: the differences are accumulated
// with XOR/OR and reduced to a single result only after the last byte,
// using crypto/subtle. Both operands have the same length by type, so
// there is no length check that could return early. The running time
// depends on N and the element size, never on the contents or on the
// position of a mismatch.
func (a *Array[T, N]) ConstantTimeCompare(other *Array[T, N]) int {
	return subtle.ConstantTimeCompare(a.Bytes(), other.Bytes())
}

// ConstantTimeEqual reports whether a and other hold equal elements. See
// ConstantTimeCompare.
func (a *Array[T, N]) ConstantTimeEqual(other *Array[T, N]) bool {
	return a.ConstantTimeCompare(other) == 1
}

// Equal reports whether a and other hold equal elements. It is the
// constant-time comparison; code that only knows it wants "equality"
// gets the safe one.
func (a *Array[T, N]) Equal(other *Array[T, N]) bool {
	return a.ConstantTimeEqual(other)
}

// Wipe overwrites every element with zero. The array stays open and
// usable. Wiping an already-wiped array changes nothing.
func (a *Array[T, N]) Wipe() {
	a.ensure()
	Zero(elementBytes(a.data))
}

// Clone returns a new Array with a copy of a's elements in its own
// locked memory. This is the only operation that duplicates a secret.
func (a *Array[T, N]) Clone() *Array[T, N] {
	a.ensure()
	clone := New[T, N]()
	copy(clone.data, a.data)
	return clone
}

// Close zeroes the elements, then unlocks and unmaps the memory. After
// Close every accessor panics. Close is idempotent.
func (a *Array[T, N]) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	region := a.region
	a.region = nil
	a.data = nil
	if region == nil {
		return nil
	}

	a.cleanup.Stop()
	return releaseRegion(region)
}

// MarshalBinary returns the N elements as fixed-width little-endian
// integers with no length prefix. The result is an ordinary heap slice
// holding the secret; zero it with [Zero] once it has been consumed.
func (a *Array[T, N]) MarshalBinary() ([]byte, error) {
	a.ensure()
	size := elementSize[T]()
	encoded := make([]byte, 0, len(a.data)*size)
	for _, element := range a.data {
		value := uint64(element)
		for shift := 0; shift < size; shift++ {
			encoded = append(encoded, byte(value>>(8*shift)))
		}
	}
	return encoded, nil
}

// UnmarshalBinary replaces the elements with data in the MarshalBinary
// layout. data must be exactly N elements long. data is not modified.
func (a *Array[T, N]) UnmarshalBinary(data []byte) error {
	a.ensure()
	size := elementSize[T]()
	if len(data) != len(a.data)*size {
		return fmt.Errorf("secret: binary array is %d bytes, want %d", len(data), len(a.data)*size)
	}
	for index := range a.data {
		var value uint64
		for shift := 0; shift < size; shift++ {
			value |= uint64(data[index*size+shift]) << (8 * shift)
		}
		a.data[index] = T(value)
	}
	return nil
}

// MarshalJSON encodes the MarshalBinary form as a standard base64 JSON
// string. Arrays reach JSON only when a caller serializes one on
// purpose; wrap the Array in a hidden.Hidden to make that impossible.
func (a *Array[T, N]) MarshalJSON() ([]byte, error) {
	binary, err := a.MarshalBinary()
	if err != nil {
		return nil, err
	}
	defer Zero(binary)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(binary))+2)
	encoded[0] = '"'
	base64.StdEncoding.Encode(encoded[1:], binary)
	encoded[len(encoded)-1] = '"'
	return encoded, nil
}

// UnmarshalJSON decodes the MarshalJSON form. A JSON null leaves the
// array unchanged.
func (a *Array[T, N]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("secret: array JSON must be a base64 string: %w", err)
	}
	binary, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("secret: decoding array base64: %w", err)
	}
	defer Zero(binary)
	return a.UnmarshalBinary(binary)
}

// String returns a redacted description. The elements are never
// formatted. Value receivers on the formatting methods keep the
// redaction in place when an Array is embedded by value in a struct
// that gets printed.
func (a Array[T, N]) String() string {
	return fmt.Sprintf("secret.Array[%d]{redacted}", LengthOf[N]())
}

// GoString is String, so %#v redacts as well.
func (a Array[T, N]) GoString() string {
	return a.String()
}

// Format writes the redacted description for every verb.
func (a Array[T, N]) Format(state fmt.State, verb rune) {
	io.WriteString(state, a.String())
}

// LogValue implements slog.LogValuer.
func (a Array[T, N]) LogValue() slog.Value {
	return slog.StringValue(a.String())
}

// elementSize returns the width of T in bytes.
func elementSize[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// elementBytes returns the memory of elements as a byte slice.
func elementBytes[T Element](elements []T) []byte {
	if len(elements) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(elements))), len(elements)*elementSize[T]())
}
