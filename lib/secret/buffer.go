// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Buffer holds a variable-length secret in memory that is locked against
// swapping, excluded from core dumps, and zeroed on close. Use it for
// secrets whose size is only known at run time; fixed-size keys belong
// in an [Array].
//
// A Buffer must not be copied after creation. Use Close to release the
// memory when the secret is no longer needed. After Close, any access
// to the buffer's contents will panic.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	closed bool
}

// NewBuffer allocates a zero-filled secret buffer of the given size.
// The caller must call Close when the secret is no longer needed.
func NewBuffer(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	data, err := lockRegion(size)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		data:   data,
		length: size,
	}, nil
}

// NewBufferFromBytes creates a secret buffer from existing data. The
// source bytes are copied into the protected region and then zeroed in
// place, so the caller's original slice no longer holds the secret.
func NewBufferFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	buffer, err := NewBuffer(len(source))
	if err != nil {
		return nil, err
	}

	copy(buffer.data, source)
	Zero(source)

	return buffer, nil
}

// ErrTooLarge is returned by NewBufferFromReader when the reader holds
// more than the allowed number of bytes.
var ErrTooLarge = errors.New("secret: input exceeds size limit")

// NewBufferFromReader reads at most limit bytes from reader into a new
// buffer. The data is read straight into a locked region of limit bytes
// and then moved into a buffer of the exact size, so no heap copy of the
// secret is made. Reading more than limit bytes returns ErrTooLarge;
// reading nothing is an error.
func NewBufferFromReader(reader io.Reader, limit int) (*Buffer, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("secret: read limit must be positive, got %d", limit)
	}

	// One byte past the limit distinguishes "exactly limit" from
	// "more than limit".
	staging, err := NewBuffer(limit + 1)
	if err != nil {
		return nil, err
	}
	defer staging.Close()

	count, err := io.ReadFull(reader, staging.data)
	switch {
	case err == nil:
		return nil, ErrTooLarge
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// Short read: the whole input fit.
	default:
		return nil, fmt.Errorf("secret: reading secret: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty reader")
	}

	buffer, err := NewBuffer(count)
	if err != nil {
		return nil, err
	}
	copy(buffer.data, staging.data[:count])
	return buffer, nil
}

// Bytes returns the secret data. The returned slice points directly into
// the mmap region; do not hold references to it beyond the lifetime of
// the Buffer. Panics if the buffer has been closed.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}

	return b.data[:b.length]
}

// String returns the secret data as a string. The returned string is
// backed by a heap-allocated copy (Go strings are immutable and must
// live on the heap), so this should only be used at API boundaries
// that require string arguments. Prefer Bytes() when possible.
//
// Panics if the buffer has been closed.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}

	return string(b.data[:b.length])
}

// Len returns the size of the secret data.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.length
}

// Equal reports whether b and other hold the same bytes, in constant
// time with respect to the contents. Buffers of different lengths are
// unequal; the lengths are not secret and are compared first.
// Panics if either buffer has been closed.
func (b *Buffer) Equal(other *Buffer) bool {
	return subtle.ConstantTimeCompare(b.Bytes(), other.Bytes()) == 1
}

// WriteTo writes the secret to w directly from the locked region,
// without a heap intermediary. Implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	count, err := w.Write(b.Bytes())
	return int64(count), err
}

// Close zeros the buffer contents, unlocks and unmaps the memory.
// After Close, any access to the buffer's Bytes() will panic.
// Close is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	err := releaseRegion(b.data)
	b.data = nil
	return err
}
