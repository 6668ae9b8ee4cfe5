// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hidden

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
)

// ErrNotSerializable is returned by every marshal and unmarshal method
// of Hidden.
var ErrNotSerializable = errors.New("hidden: secret values cannot be serialized")

// Hidden wraps a secret of type S and exposes it only through Reveal.
// S is an io.Closer so that closing the Hidden destroys the secret.
//
// A Hidden must not be copied after creation.
type Hidden[S io.Closer] struct {
	secret S
	closed bool
}

// New takes ownership of secret.
func New[S io.Closer](secret S) *Hidden[S] {
	return &Hidden[S]{secret: secret}
}

// Reveal returns the wrapped secret. The caller must not close it or
// keep it beyond the Hidden's lifetime. Panics after Close.
func (h *Hidden[S]) Reveal() S {
	if h.closed {
		panic("hidden: reveal of closed " + h.String())
	}
	return h.secret
}

// Close closes the wrapped secret. Idempotent.
func (h *Hidden[S]) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	err := h.secret.Close()
	var zero S
	h.secret = zero
	return err
}

// String returns "Hidden<S>" with the secret's type name. Formatting
// methods use value receivers so a Hidden embedded by value in a
// printed struct is still redacted.
func (h Hidden[S]) String() string {
	return "Hidden<" + reflect.TypeFor[S]().String() + ">"
}

// GoString is String, so %#v redacts as well.
func (h Hidden[S]) GoString() string {
	return h.String()
}

// Format writes the redacted form for every verb.
func (h Hidden[S]) Format(state fmt.State, verb rune) {
	io.WriteString(state, h.String())
}

// LogValue implements slog.LogValuer.
func (h Hidden[S]) LogValue() slog.Value {
	return slog.StringValue(h.String())
}

// MarshalJSON refuses to serialize the secret.
func (h Hidden[S]) MarshalJSON() ([]byte, error) {
	return nil, ErrNotSerializable
}

// UnmarshalJSON refuses to construct a secret from JSON.
func (h *Hidden[S]) UnmarshalJSON([]byte) error {
	return ErrNotSerializable
}

// MarshalText refuses to serialize the secret.
func (h Hidden[S]) MarshalText() ([]byte, error) {
	return nil, ErrNotSerializable
}

// UnmarshalText refuses to construct a secret from text.
func (h *Hidden[S]) UnmarshalText([]byte) error {
	return ErrNotSerializable
}

// MarshalBinary refuses to serialize the secret.
func (h Hidden[S]) MarshalBinary() ([]byte, error) {
	return nil, ErrNotSerializable
}

// UnmarshalBinary refuses to construct a secret from binary data.
func (h *Hidden[S]) UnmarshalBinary([]byte) error {
	return ErrNotSerializable
}
