// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"fmt"

	"github.com/bureau-foundation/safekey/lib/secret"
)

// Envelope is the serializable record of a sealed secret. It carries no
// plaintext: Length is the size of the secret and Recipients lists the
// public keys it was sealed to, both safe to publish.
type Envelope struct {
	Label      string   `json:"label"`
	Length     uint64   `json:"length"`
	Recipients []string `json:"recipients"`
	Ciphertext string   `json:"ciphertext"`
}

// SealEnvelope seals plaintext to recipients and records the result
// under label.
func SealEnvelope(label string, plaintext []byte, recipients []string) (*Envelope, error) {
	ciphertext, err := Seal(plaintext, recipients)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Label:      label,
		Length:     uint64(len(plaintext)),
		Recipients: append([]string(nil), recipients...),
		Ciphertext: ciphertext,
	}, nil
}

// OpenEnvelope opens envelope with identity. The plaintext must be
// exactly envelope.Length bytes. The caller must Close the returned
// buffer.
func OpenEnvelope(envelope *Envelope, identity *secret.Buffer) (*secret.Buffer, error) {
	plaintext, err := Open(envelope.Ciphertext, identity)
	if err != nil {
		if envelope.Label != "" {
			return nil, fmt.Errorf("opening %q: %w", envelope.Label, err)
		}
		return nil, err
	}

	if uint64(plaintext.Len()) != envelope.Length {
		plaintext.Close()
		return nil, fmt.Errorf("envelope %q records %d bytes but holds %d", envelope.Label, envelope.Length, plaintext.Len())
	}
	return plaintext, nil
}
