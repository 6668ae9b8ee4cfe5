// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// len5 is a caller-defined length, as a package outside secret would
// declare one.
type len5 struct{}

func (len5) Len() int { return 5 }

type len0 struct{}

func (len0) Len() int { return 0 }

func newKey(t *testing.T) *Array[byte, Len32] {
	t.Helper()
	key, err := Allocate[byte, Len32]()
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	t.Cleanup(func() { key.Close() })
	return key
}

func pattern32() []byte {
	pattern := make([]byte, 32)
	for index := range pattern {
		pattern[index] = byte(index*7 + 1)
	}
	return pattern
}

func TestArray_DefaultLength(t *testing.T) {
	checkLength := func(name string, got, want int) {
		t.Helper()
		if got != want {
			t.Errorf("%s: length %d, want %d", name, got, want)
		}
	}

	byteKey := New[byte, Len64]()
	defer byteKey.Close()
	checkLength("byte/64 Len", byteKey.Len(), 64)
	checkLength("byte/64 Slice", len(byteKey.Slice()), 64)
	checkLength("byte/64 Bytes", len(byteKey.Bytes()), 64)

	words := New[uint32, Len16]()
	defer words.Close()
	checkLength("uint32/16 Len", words.Len(), 16)
	checkLength("uint32/16 Slice", len(words.Slice()), 16)
	checkLength("uint32/16 Bytes", len(words.Bytes()), 64)

	custom := New[int16, len5]()
	defer custom.Close()
	checkLength("int16/5 Len", custom.Len(), 5)
	checkLength("int16/5 Slice", len(custom.Slice()), 5)

	checkLength("LengthOf[Len24]", LengthOf[Len24](), 24)
	checkLength("LengthOf[Len48]", LengthOf[Len48](), 48)
}

func TestArray_DefaultIsZero(t *testing.T) {
	key := newKey(t)
	for index, value := range key.Slice() {
		if value != 0 {
			t.Fatalf("element %d = %d, want 0", index, value)
		}
	}

	signed := New[int64, Len16]()
	defer signed.Close()
	for index, value := range signed.Slice() {
		if value != 0 {
			t.Fatalf("int64 element %d = %d, want 0", index, value)
		}
	}
}

func TestArray_Scenario(t *testing.T) {
	key := newKey(t)
	zeros := newKey(t)

	copy(key.Slice(), pattern32())

	if key.ConstantTimeEqual(zeros) {
		t.Error("filled key compares equal to all-zero key")
	}

	same := NewFrom[byte, Len32](pattern32())
	defer same.Close()
	if !key.ConstantTimeEqual(same) {
		t.Error("key does not compare equal to an identical pattern")
	}

	key.Wipe()
	if !key.ConstantTimeEqual(zeros) {
		t.Error("wiped key does not compare equal to all-zero key")
	}
}

func TestArray_EqualityReflexive(t *testing.T) {
	key := newKey(t)
	copy(key.Slice(), pattern32())

	if !key.ConstantTimeEqual(key) {
		t.Error("ConstantTimeEqual is not reflexive")
	}
	if !key.Equal(key) {
		t.Error("Equal is not reflexive")
	}
	if key.ConstantTimeCompare(key) != 1 {
		t.Errorf("ConstantTimeCompare(self) = %d, want 1", key.ConstantTimeCompare(key))
	}
}

func TestArray_EqualAgreesWithConstantTime(t *testing.T) {
	left := newKey(t)
	right := newKey(t)
	copy(left.Slice(), pattern32())
	copy(right.Slice(), pattern32())

	if left.Equal(right) != left.ConstantTimeEqual(right) {
		t.Error("Equal and ConstantTimeEqual disagree on equal arrays")
	}
	if !left.Equal(right) || !right.Equal(left) {
		t.Error("equal arrays compare unequal")
	}

	right.Slice()[31] ^= 0x80
	if left.Equal(right) != left.ConstantTimeEqual(right) {
		t.Error("Equal and ConstantTimeEqual disagree on unequal arrays")
	}
}

func TestArray_SingleDifferenceAtEveryPosition(t *testing.T) {
	base := newKey(t)
	copy(base.Slice(), pattern32())

	for position := 0; position < base.Len(); position++ {
		other := base.Clone()
		other.Slice()[position] ^= 0x01
		if base.ConstantTimeEqual(other) {
			t.Errorf("difference at position %d not detected", position)
		}
		if other.ConstantTimeEqual(base) {
			t.Errorf("difference at position %d not detected (reversed)", position)
		}
		if base.ConstantTimeCompare(other) != 0 {
			t.Errorf("ConstantTimeCompare with difference at %d = %d, want 0", position, base.ConstantTimeCompare(other))
		}
		other.Close()
	}
}

func TestArray_WideElementDifferences(t *testing.T) {
	// A difference in the high byte of a wide element must be detected
	// just like one in the low byte.
	left := New[uint64, Len16]()
	defer left.Close()
	right := New[uint64, Len16]()
	defer right.Close()

	for index := range left.Slice() {
		left.Slice()[index] = uint64(index) << 56
		right.Slice()[index] = uint64(index) << 56
	}
	if !left.Equal(right) {
		t.Fatal("identical uint64 arrays compare unequal")
	}

	right.Slice()[7] ^= 1 << 63
	if left.Equal(right) {
		t.Error("high-bit difference in uint64 element not detected")
	}

	negative := New[int8, Len16]()
	defer negative.Close()
	positive := New[int8, Len16]()
	defer positive.Close()
	negative.Slice()[3] = -1
	positive.Slice()[3] = 127
	if negative.Equal(positive) {
		t.Error("int8 -1 and 127 compare equal")
	}
}

func TestArray_EqualityTransitive(t *testing.T) {
	first := NewFrom[uint16, Len16](make([]uint16, 16))
	defer first.Close()
	second := first.Clone()
	defer second.Close()
	third := second.Clone()
	defer third.Close()

	if !first.Equal(second) || !second.Equal(third) || !first.Equal(third) {
		t.Error("equality is not transitive over clones")
	}
}

func TestArray_ZeroLength(t *testing.T) {
	empty := New[byte, len0]()
	other := New[byte, len0]()

	if empty.Len() != 0 || len(empty.Slice()) != 0 {
		t.Errorf("zero-length array has length %d", len(empty.Slice()))
	}
	if !empty.Equal(other) {
		t.Error("zero-length arrays compare unequal")
	}
	if err := empty.Close(); err != nil {
		t.Errorf("Close on zero-length array failed: %v", err)
	}
	other.Close()
}

func TestArray_WipeIdempotent(t *testing.T) {
	key := newKey(t)
	copy(key.Slice(), pattern32())

	key.Wipe()
	for index, value := range key.Slice() {
		if value != 0 {
			t.Fatalf("after Wipe element %d = %d, want 0", index, value)
		}
	}

	key.Wipe()
	for index, value := range key.Slice() {
		if value != 0 {
			t.Fatalf("after second Wipe element %d = %d, want 0", index, value)
		}
	}

	// The array stays usable after a wipe.
	key.Slice()[0] = 0xAB
	if key.Slice()[0] != 0xAB {
		t.Error("array not writable after Wipe")
	}
}

func TestArray_WipeWideElements(t *testing.T) {
	words := New[uint32, Len16]()
	defer words.Close()
	for index := range words.Slice() {
		words.Slice()[index] = 0xDEADBEEF
	}

	words.Wipe()
	for index, value := range words.Slice() {
		if value != 0 {
			t.Fatalf("after Wipe element %d = %#x, want 0", index, value)
		}
	}
}

func TestArray_CloneIndependent(t *testing.T) {
	original := newKey(t)
	copy(original.Slice(), pattern32())

	clone := original.Clone()
	defer clone.Close()

	if !clone.Equal(original) {
		t.Fatal("clone does not equal original")
	}

	clone.Slice()[0] ^= 0xFF
	if original.Slice()[0] != pattern32()[0] {
		t.Error("mutating the clone changed the original")
	}
	if clone.Equal(original) {
		t.Error("mutated clone still equals original")
	}

	clone.Close()
	if !bytes.Equal(original.Bytes(), pattern32()) {
		t.Error("closing the clone affected the original")
	}
}

func TestArray_EqualityDoesNotMutate(t *testing.T) {
	left := newKey(t)
	right := newKey(t)
	copy(left.Slice(), pattern32())

	left.Equal(right)
	left.ConstantTimeCompare(right)

	if !bytes.Equal(left.Bytes(), pattern32()) {
		t.Error("comparison modified the left operand")
	}
	if !bytes.Equal(right.Bytes(), make([]byte, 32)) {
		t.Error("comparison modified the right operand")
	}
}

func TestNewFrom_WipesSource(t *testing.T) {
	source := pattern32()
	key := NewFrom[byte, Len32](source)
	defer key.Close()

	if !bytes.Equal(key.Bytes(), pattern32()) {
		t.Error("NewFrom did not copy the source")
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d was not zeroed: got %d", index, value)
		}
	}

	wide := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	words := NewFrom[uint32, Len16](wide)
	defer words.Close()
	if words.Slice()[15] != 16 {
		t.Errorf("NewFrom uint32 element 15 = %d, want 16", words.Slice()[15])
	}
	for index, value := range wide {
		if value != 0 {
			t.Fatalf("uint32 source element %d was not zeroed: got %d", index, value)
		}
	}
}

func TestNewFrom_WrongLengthPanics(t *testing.T) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("expected panic for wrong-length source")
		}
		if !strings.Contains(fmt.Sprint(recovered), "want 32") {
			t.Errorf("panic message %q does not name the expected length", recovered)
		}
	}()

	NewFrom[byte, Len32](make([]byte, 31))
}

func TestArrayFromBuffer(t *testing.T) {
	buffer, err := NewBufferFromBytes(pattern32())
	if err != nil {
		t.Fatalf("NewBufferFromBytes failed: %v", err)
	}
	defer buffer.Close()

	key, err := ArrayFromBuffer[Len32](buffer)
	if err != nil {
		t.Fatalf("ArrayFromBuffer failed: %v", err)
	}
	defer key.Close()

	if !bytes.Equal(key.Bytes(), pattern32()) {
		t.Error("ArrayFromBuffer did not copy the buffer contents")
	}

	// The buffer is borrowed, not consumed.
	if buffer.Len() != 32 || !bytes.Equal(buffer.Bytes(), pattern32()) {
		t.Error("ArrayFromBuffer modified the source buffer")
	}
}

func TestArrayFromBuffer_WrongLength(t *testing.T) {
	buffer, err := NewBufferFromBytes([]byte("too-short"))
	if err != nil {
		t.Fatalf("NewBufferFromBytes failed: %v", err)
	}
	defer buffer.Close()

	if _, err := ArrayFromBuffer[Len32](buffer); err == nil {
		t.Fatal("expected error for wrong-length buffer")
	}
}

func TestArray_CloseIdempotent(t *testing.T) {
	key := New[byte, Len32]()
	if err := key.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := key.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if key.region != nil || key.data != nil {
		t.Error("expected region and data to be released after Close")
	}
}

func TestArray_AccessAfterClosePanics(t *testing.T) {
	accessors := map[string]func(*Array[byte, Len32]){
		"Slice": func(key *Array[byte, Len32]) { key.Slice() },
		"Bytes": func(key *Array[byte, Len32]) { key.Bytes() },
		"Wipe":  func(key *Array[byte, Len32]) { key.Wipe() },
		"Clone": func(key *Array[byte, Len32]) { key.Clone() },
		"Equal": func(key *Array[byte, Len32]) { key.Equal(key) },
	}

	for name, access := range accessors {
		t.Run(name, func(t *testing.T) {
			key := New[byte, Len32]()
			key.Close()

			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic on %s() after Close", name)
				}
			}()
			access(key)
		})
	}
}

func TestArray_ZeroValueAllocatesOnUse(t *testing.T) {
	var key Array[byte, Len16]
	defer key.Close()

	if len(key.Slice()) != 16 {
		t.Fatalf("zero-value array has length %d, want 16", len(key.Slice()))
	}
	key.Slice()[0] = 1
	if key.Slice()[0] != 1 {
		t.Error("zero-value array not writable")
	}
}

func TestArray_FormattingRedacts(t *testing.T) {
	key := newKey(t)
	for index := range key.Slice() {
		key.Slice()[index] = 'Z'
	}
	leak := strings.Repeat("Z", 4)

	type holder struct {
		Name string
		Key  *Array[byte, Len32]
	}
	value := holder{Name: "signing", Key: key}

	outputs := map[string]string{
		"%v":         fmt.Sprintf("%v", key),
		"%+v":        fmt.Sprintf("%+v", key),
		"%#v":        fmt.Sprintf("%#v", key),
		"%s":         fmt.Sprintf("%s", key),
		"%x":         fmt.Sprintf("%x", key),
		"%q":         fmt.Sprintf("%q", key),
		"String":     key.String(),
		"struct %+v": fmt.Sprintf("%+v", value),
		"value %v":   fmt.Sprintf("%v", *key),
	}
	for name, output := range outputs {
		if strings.Contains(output, leak) || strings.Contains(output, "5a5a") {
			t.Errorf("%s leaked contents: %q", name, output)
		}
		if !strings.Contains(output, "redacted") {
			t.Errorf("%s output %q is not the redacted form", name, output)
		}
	}

	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, nil))
	logger.Info("loaded key", "key", key)
	if strings.Contains(logOutput.String(), leak) {
		t.Errorf("slog output leaked contents: %s", logOutput.String())
	}
	if !strings.Contains(logOutput.String(), "secret.Array[32]{redacted}") {
		t.Errorf("slog output missing redacted form: %s", logOutput.String())
	}
}

func TestArray_BinaryRoundtrip(t *testing.T) {
	words := New[uint16, Len16]()
	defer words.Close()
	for index := range words.Slice() {
		words.Slice()[index] = uint16(0x0102 * (index + 1))
	}

	encoded, err := words.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(encoded) != 32 {
		t.Fatalf("encoded length %d, want 32", len(encoded))
	}
	// Little-endian: element 0 is 0x0102.
	if encoded[0] != 0x02 || encoded[1] != 0x01 {
		t.Errorf("element 0 encoded as %#x %#x, want 0x02 0x01", encoded[0], encoded[1])
	}

	decoded := New[uint16, Len16]()
	defer decoded.Close()
	if err := decoded.UnmarshalBinary(encoded); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if !decoded.Equal(words) {
		t.Error("binary roundtrip changed the contents")
	}
}

func TestArray_BinarySignedRoundtrip(t *testing.T) {
	signed := NewFrom[int32, len5]([]int32{-1, -2147483648, 2147483647, 0, 42})
	defer signed.Close()

	encoded, err := signed.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	decoded := New[int32, len5]()
	defer decoded.Close()
	if err := decoded.UnmarshalBinary(encoded); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	want := []int32{-1, -2147483648, 2147483647, 0, 42}
	for index, value := range decoded.Slice() {
		if value != want[index] {
			t.Errorf("element %d = %d, want %d", index, value, want[index])
		}
	}
}

func TestArray_UnmarshalBinaryWrongLength(t *testing.T) {
	key := newKey(t)
	if err := key.UnmarshalBinary(make([]byte, 31)); err == nil {
		t.Error("expected error for 31-byte input")
	}
	if err := key.UnmarshalBinary(make([]byte, 33)); err == nil {
		t.Error("expected error for 33-byte input")
	}
}

func TestArray_JSONRoundtrip(t *testing.T) {
	type record struct {
		Label string              `json:"label"`
		Key   *Array[byte, Len16] `json:"key"`
	}

	key := NewFrom[byte, Len16]([]byte("0123456789abcdef"))
	defer key.Close()

	data, err := json.Marshal(record{Label: "k1", Key: key})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(data) != `{"label":"k1","key":"MDEyMzQ1Njc4OWFiY2RlZg=="}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	defer decoded.Key.Close()
	if !decoded.Key.Equal(key) {
		t.Error("JSON roundtrip changed the contents")
	}
}

func TestArray_UnmarshalJSONRejectsNonString(t *testing.T) {
	key := newKey(t)
	if err := key.UnmarshalJSON([]byte(`[1,2,3]`)); err == nil {
		t.Error("expected error for JSON array input")
	}
	if err := key.UnmarshalJSON([]byte(`"not base64!"`)); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func BenchmarkArray_ConstantTimeEqual(b *testing.B) {
	left := New[byte, Len32]()
	defer left.Close()
	right := New[byte, Len32]()
	defer right.Close()

	b.ReportAllocs()
	for b.Loop() {
		left.ConstantTimeEqual(right)
	}
}
