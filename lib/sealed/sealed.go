// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"filippo.io/age"

	"github.com/bureau-foundation/safekey/lib/secret"
)

// Seal encrypts plaintext to one or more recipients given as age public
// key strings (age1...). Returns the ciphertext as a standard base64
// string.
func Seal(plaintext []byte, recipientKeys []string) (string, error) {
	if len(recipientKeys) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if len(plaintext) == 0 {
		return "", fmt.Errorf("cannot seal an empty secret")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return "", fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing age encryption: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// Open decrypts a base64 ciphertext with the identities in identity (the
// contents of an age identity file: one AGE-SECRET-KEY-1... per line,
// comments allowed). The plaintext is read from the age stream straight
// into a secret.Buffer, so there is no heap copy of it.
//
// The identity is borrowed and not closed. The caller must Close the
// returned buffer.
func Open(ciphertext string, identity *secret.Buffer) (*secret.Buffer, error) {
	identities, err := parseIdentities(identity)
	if err != nil {
		return nil, err
	}

	rawCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 ciphertext: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(rawCiphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := secret.NewBufferFromReader(reader, secret.MaxSecretSize)
	if err != nil {
		if errors.Is(err, secret.ErrTooLarge) {
			return nil, fmt.Errorf("sealed secret exceeds %d bytes", secret.MaxSecretSize)
		}
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return plaintext, nil
}

// OpenArray opens ciphertext and moves the plaintext into a byte Array
// of length N. A plaintext of any other length is an error.
func OpenArray[N secret.Length](ciphertext string, identity *secret.Buffer) (*secret.Array[byte, N], error) {
	plaintext, err := Open(ciphertext, identity)
	if err != nil {
		return nil, err
	}
	defer plaintext.Close()

	return secret.ArrayFromBuffer[N](plaintext)
}

// ParseRecipient validates an age public key string.
func ParseRecipient(publicKey string) error {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

// ParseIdentity validates the age identities held in identity.
func ParseIdentity(identity *secret.Buffer) error {
	_, err := parseIdentities(identity)
	return err
}

func parseIdentities(identity *secret.Buffer) ([]age.Identity, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(identity.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("invalid age identity: %w", err)
	}
	return identities, nil
}
