// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messageformat

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bureau-foundation/safekey/lib/codec"
)

// ToBinary encodes v in the binary layout.
func ToBinary(v any) ([]byte, error) {
	data, err := marshalBinary(v)
	if err != nil {
		return nil, ErrBinarySerialize
	}
	return data, nil
}

// FromBinary decodes data into the value v points to. Truncated input,
// invalid tags and trailing bytes are all ErrBinaryDeserialize.
func FromBinary(data []byte, v any) error {
	if err := unmarshalBinary(data, v); err != nil {
		return ErrBinaryDeserialize
	}
	return nil
}

// ToJSON encodes v as compact JSON without HTML escaping.
func ToJSON(v any) (string, error) {
	var output bytes.Buffer
	encoder := json.NewEncoder(&output)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return "", ErrJSON
	}
	return strings.TrimSuffix(output.String(), "\n"), nil
}

// FromJSON decodes a JSON document into the value v points to.
func FromJSON(document string, v any) error {
	if err := json.Unmarshal([]byte(document), v); err != nil {
		return ErrJSON
	}
	return nil
}

// ToBase64 encodes the binary form of v as standard padded base64.
func ToBase64(v any) (string, error) {
	data, err := ToBinary(v)
	if err != nil {
		return "", err
	}
	defer clear(data)
	return base64.StdEncoding.EncodeToString(data), nil
}

// FromBase64 decodes base64 text and then the binary form inside it.
// Text that is not base64 is ErrBase64Deserialize; base64 that does not
// hold a valid binary message is ErrBinaryDeserialize.
func FromBase64(text string, v any) error {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return ErrBase64Deserialize
	}
	defer clear(data)
	return FromBinary(data, v)
}

// ToCBOR encodes v using the deterministic CBOR configuration.
func ToCBOR(v any) ([]byte, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, ErrCBOR
	}
	return data, nil
}

// FromCBOR decodes a single CBOR data item into the value v points to.
func FromCBOR(data []byte, v any) error {
	if err := codec.Unmarshal(data, v); err != nil {
		return ErrCBOR
	}
	return nil
}

// Format names a message encoding.
type Format string

const (
	Binary Format = "binary"
	JSON   Format = "json"
	Base64 Format = "base64"
	CBOR   Format = "cbor"
)

// Formats lists every supported format, for help text and validation.
var Formats = []Format{Binary, JSON, Base64, CBOR}

// ParseFormat returns the Format named by name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if strings.EqualFold(name, string(format)) {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown message format %q (valid: binary, json, base64, cbor)", name)
}

// Encode encodes v in format. Text formats (JSON, base64) are returned as
// their UTF-8 bytes.
func Encode(format Format, v any) ([]byte, error) {
	switch format {
	case Binary:
		return ToBinary(v)
	case JSON:
		text, err := ToJSON(v)
		return []byte(text), err
	case Base64:
		text, err := ToBase64(v)
		return []byte(text), err
	case CBOR:
		return ToCBOR(v)
	default:
		return nil, fmt.Errorf("unknown message format %q", format)
	}
}

// Decode decodes data in format into the value v points to. Surrounding
// whitespace is ignored for the text formats.
func Decode(format Format, data []byte, v any) error {
	switch format {
	case Binary:
		return FromBinary(data, v)
	case JSON:
		return FromJSON(string(data), v)
	case Base64:
		return FromBase64(string(bytes.TrimSpace(data)), v)
	case CBOR:
		return FromCBOR(data, v)
	default:
		return fmt.Errorf("unknown message format %q", format)
	}
}
