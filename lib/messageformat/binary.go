// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messageformat

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"unicode/utf8"
)

var (
	binaryMarshalerType   = reflect.TypeFor[encoding.BinaryMarshaler]()
	binaryUnmarshalerType = reflect.TypeFor[encoding.BinaryUnmarshaler]()
)

// errShortInput is the decoder's internal error for truncated data or a
// length prefix larger than the remaining input.
var errShortInput = errors.New("binary input too short")

// marshalBinary encodes v in the binary layout described in the package
// documentation. Pointers at the top level are followed, so v and &v
// encode identically.
func marshalBinary(v any) ([]byte, error) {
	value := reflect.ValueOf(v)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("cannot encode nil %s", value.Type())
		}
		value = value.Elem()
	}
	if !value.IsValid() {
		return nil, fmt.Errorf("cannot encode nil value")
	}

	encoder := &binaryEncoder{}
	if err := encoder.encode(value); err != nil {
		return nil, err
	}
	return encoder.output, nil
}

type binaryEncoder struct {
	output []byte
}

func (e *binaryEncoder) writeLength(length int) {
	e.output = binary.LittleEndian.AppendUint64(e.output, uint64(length))
}

func (e *binaryEncoder) writeBytes(data []byte) {
	e.writeLength(len(data))
	e.output = append(e.output, data...)
}

func (e *binaryEncoder) encode(value reflect.Value) error {
	if marshaler, ok := asBinaryMarshaler(value); ok {
		data, err := marshaler.MarshalBinary()
		if err != nil {
			return err
		}
		e.writeBytes(data)
		// MarshalBinary output may be key material.
		clear(data)
		return nil
	}

	switch value.Kind() {
	case reflect.Pointer:
		if value.IsNil() {
			e.output = append(e.output, 0)
			return nil
		}
		e.output = append(e.output, 1)
		return e.encode(value.Elem())

	case reflect.Bool:
		if value.Bool() {
			e.output = append(e.output, 1)
		} else {
			e.output = append(e.output, 0)
		}

	case reflect.Int8:
		e.output = append(e.output, byte(value.Int()))
	case reflect.Int16:
		e.output = binary.LittleEndian.AppendUint16(e.output, uint16(value.Int()))
	case reflect.Int32:
		e.output = binary.LittleEndian.AppendUint32(e.output, uint32(value.Int()))
	case reflect.Int64, reflect.Int:
		e.output = binary.LittleEndian.AppendUint64(e.output, uint64(value.Int()))

	case reflect.Uint8:
		e.output = append(e.output, byte(value.Uint()))
	case reflect.Uint16:
		e.output = binary.LittleEndian.AppendUint16(e.output, uint16(value.Uint()))
	case reflect.Uint32:
		e.output = binary.LittleEndian.AppendUint32(e.output, uint32(value.Uint()))
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		e.output = binary.LittleEndian.AppendUint64(e.output, value.Uint())

	case reflect.Float32:
		e.output = binary.LittleEndian.AppendUint32(e.output, math.Float32bits(float32(value.Float())))
	case reflect.Float64:
		e.output = binary.LittleEndian.AppendUint64(e.output, math.Float64bits(value.Float()))

	case reflect.String:
		e.writeBytes([]byte(value.String()))

	case reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			e.writeBytes(value.Bytes())
			return nil
		}
		e.writeLength(value.Len())
		for index := range value.Len() {
			if err := e.encode(value.Index(index)); err != nil {
				return err
			}
		}

	case reflect.Array:
		for index := range value.Len() {
			if err := e.encode(value.Index(index)); err != nil {
				return err
			}
		}

	case reflect.Map:
		return e.encodeMap(value)

	case reflect.Struct:
		for _, index := range encodedFields(value.Type()) {
			if err := e.encode(value.Field(index)); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("unsupported kind %s", value.Kind())
	}
	return nil
}

// encodeMap writes the entries sorted by their encoded key bytes.
func (e *binaryEncoder) encodeMap(value reflect.Value) error {
	type entry struct {
		key   []byte
		value reflect.Value
	}

	entries := make([]entry, 0, value.Len())
	iterator := value.MapRange()
	for iterator.Next() {
		keyEncoder := &binaryEncoder{}
		if err := keyEncoder.encode(iterator.Key()); err != nil {
			return err
		}
		entries = append(entries, entry{key: keyEncoder.output, value: iterator.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return bytes.Compare(a.key, b.key)
	})

	e.writeLength(len(entries))
	for _, item := range entries {
		e.output = append(e.output, item.key...)
		if err := e.encode(item.value); err != nil {
			return err
		}
	}
	return nil
}

// asBinaryMarshaler reports whether value (or its address) implements
// encoding.BinaryMarshaler. Pointers are excluded: they are options, and
// the pointed-to value is checked when the encoder descends into it.
func asBinaryMarshaler(value reflect.Value) (encoding.BinaryMarshaler, bool) {
	if value.Kind() == reflect.Pointer {
		return nil, false
	}
	if value.CanAddr() && value.Addr().Type().Implements(binaryMarshalerType) {
		return value.Addr().Interface().(encoding.BinaryMarshaler), true
	}
	if value.CanInterface() && value.Type().Implements(binaryMarshalerType) {
		return value.Interface().(encoding.BinaryMarshaler), true
	}
	return nil, false
}

// encodedFields returns the indices of the struct fields that take part
// in the binary form.
func encodedFields(structType reflect.Type) []int {
	var indices []int
	for index := range structType.NumField() {
		field := structType.Field(index)
		if !field.IsExported() {
			continue
		}
		if field.Tag.Get("json") == "-" {
			continue
		}
		indices = append(indices, index)
	}
	return indices
}

// unmarshalBinary decodes data into the value v points to. All of data
// must be consumed.
func unmarshalBinary(data []byte, v any) error {
	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", v)
	}

	decoder := &binaryDecoder{input: data}
	if err := decoder.decode(target.Elem()); err != nil {
		return err
	}
	if len(decoder.input) != 0 {
		return fmt.Errorf("%d trailing bytes after value", len(decoder.input))
	}
	return nil
}

type binaryDecoder struct {
	input []byte
}

func (d *binaryDecoder) take(count int) ([]byte, error) {
	if count < 0 || count > len(d.input) {
		return nil, errShortInput
	}
	taken := d.input[:count]
	d.input = d.input[count:]
	return taken, nil
}

func (d *binaryDecoder) readUint(width int) (uint64, error) {
	raw, err := d.take(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(raw)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(raw)), nil
	default:
		return binary.LittleEndian.Uint64(raw), nil
	}
}

// readLength reads a u64 length prefix. A length can never exceed the
// remaining input (every element takes at least one byte), which rejects
// garbage prefixes before anything is allocated.
func (d *binaryDecoder) readLength() (int, error) {
	length, err := d.readUint(8)
	if err != nil {
		return 0, err
	}
	if length > uint64(len(d.input)) {
		return 0, errShortInput
	}
	return int(length), nil
}

func (d *binaryDecoder) readBytes() ([]byte, error) {
	length, err := d.readLength()
	if err != nil {
		return nil, err
	}
	return d.take(length)
}

func (d *binaryDecoder) decode(value reflect.Value) error {
	if value.Kind() != reflect.Pointer && value.CanAddr() && value.Addr().Type().Implements(binaryUnmarshalerType) {
		data, err := d.readBytes()
		if err != nil {
			return err
		}
		return value.Addr().Interface().(encoding.BinaryUnmarshaler).UnmarshalBinary(data)
	}

	switch value.Kind() {
	case reflect.Pointer:
		tag, err := d.readUint(1)
		if err != nil {
			return err
		}
		switch tag {
		case 0:
			value.SetZero()
			return nil
		case 1:
			element := reflect.New(value.Type().Elem())
			if err := d.decode(element.Elem()); err != nil {
				return err
			}
			value.Set(element)
			return nil
		default:
			return fmt.Errorf("invalid option tag %d", tag)
		}

	case reflect.Bool:
		raw, err := d.readUint(1)
		if err != nil {
			return err
		}
		if raw > 1 {
			return fmt.Errorf("invalid bool byte %d", raw)
		}
		value.SetBool(raw == 1)

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		raw, err := d.readUint(integerWidth(value.Kind()))
		if err != nil {
			return err
		}
		value.SetInt(signExtend(raw, integerWidth(value.Kind())))

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Uintptr:
		raw, err := d.readUint(integerWidth(value.Kind()))
		if err != nil {
			return err
		}
		value.SetUint(raw)

	case reflect.Float32:
		raw, err := d.readUint(4)
		if err != nil {
			return err
		}
		value.SetFloat(float64(math.Float32frombits(uint32(raw))))
	case reflect.Float64:
		raw, err := d.readUint(8)
		if err != nil {
			return err
		}
		value.SetFloat(math.Float64frombits(raw))

	case reflect.String:
		raw, err := d.readBytes()
		if err != nil {
			return err
		}
		if !utf8.Valid(raw) {
			return fmt.Errorf("string is not valid UTF-8")
		}
		value.SetString(string(raw))

	case reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			raw, err := d.readBytes()
			if err != nil {
				return err
			}
			decoded := reflect.MakeSlice(value.Type(), len(raw), len(raw))
			reflect.Copy(decoded, reflect.ValueOf(raw))
			value.Set(decoded)
			return nil
		}
		length, err := d.readLength()
		if err != nil {
			return err
		}
		decoded := reflect.MakeSlice(value.Type(), length, length)
		for index := range length {
			if err := d.decode(decoded.Index(index)); err != nil {
				return err
			}
		}
		value.Set(decoded)

	case reflect.Array:
		for index := range value.Len() {
			if err := d.decode(value.Index(index)); err != nil {
				return err
			}
		}

	case reflect.Map:
		length, err := d.readLength()
		if err != nil {
			return err
		}
		decoded := reflect.MakeMapWithSize(value.Type(), length)
		for range length {
			key := reflect.New(value.Type().Key()).Elem()
			if err := d.decode(key); err != nil {
				return err
			}
			element := reflect.New(value.Type().Elem()).Elem()
			if err := d.decode(element); err != nil {
				return err
			}
			decoded.SetMapIndex(key, element)
		}
		value.Set(decoded)

	case reflect.Struct:
		for _, index := range encodedFields(value.Type()) {
			if err := d.decode(value.Field(index)); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("unsupported kind %s", value.Kind())
	}
	return nil
}

// integerWidth returns the encoded width in bytes of an integer kind.
func integerWidth(kind reflect.Kind) int {
	switch kind {
	case reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32:
		return 4
	default:
		return 8
	}
}

// signExtend interprets the low width bytes of raw as a two's complement
// integer.
func signExtend(raw uint64, width int) int64 {
	shift := uint(64 - 8*width)
	return int64(raw<<shift) >> shift
}
