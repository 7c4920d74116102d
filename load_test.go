//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yamlschema_test

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willabides/yamlschema"
)

func int4Schema() *yamlschema.Schema {
	return &yamlschema.Schema{Kind: yamlschema.Int, Size: 4}
}

// scenario 1: top-level scalar rejected.
func TestLoad_TopLevelScalarRejected(t *testing.T) {
	schema := &yamlschema.Schema{Kind: yamlschema.Int, Size: 4}
	_, err := yamlschema.LoadBytes(schema, []byte("42\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.BadTopLevelType, yerr.Code)
}

// scenario 2: flat mapping of one 32-bit integer.
func TestLoad_FlatMappingOneInt4(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("a: 7\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	got := *(*int32)(tree.Data())
	assert.Equal(t, int32(7), got)
}

// scenario 3: unknown key.
func TestLoad_UnknownKey(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("a: 1\nb: 2\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidKey, yerr.Code)
}

// scenario 4: sequence of INT2 with owning pointer.
func TestLoad_SequenceOfInt2(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 16,
		Fields: []yamlschema.Field{
			{
				Key:    "xs",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind:        yamlschema.Sequence,
					Flags:       yamlschema.OwningPointer,
					Element:     &yamlschema.Schema{Kind: yamlschema.Int, Size: 2},
					CountOffset: 8,
					CountSize:   4,
				},
			},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("xs: [1, 2, 3]\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	base := tree.Data()
	ptr := *(*unsafe.Pointer)(base)
	require.NotNil(t, ptr)
	elems := unsafe.Slice((*int16)(ptr), 3)
	assert.Equal(t, []int16{1, 2, 3}, elems)

	count := *(*uint32)(unsafe.Add(base, 8))
	assert.Equal(t, uint32(3), count)
}

// scenario 5: integer overflow.
func TestLoad_IntegerOverflow(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 2,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Int, Size: 2}},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("a: 40000\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidValue, yerr.Code)
}

// spec's universal invariant: for width N, [-2^(8N-1), 2^(8N-1)-1] load,
// one beyond either bound is INVALID_VALUE. Checked at a 2-byte boundary.
func TestLoad_Int16BoundaryValues(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 2,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Int, Size: 2}},
		},
	}

	tree, err := yamlschema.LoadBytes(schema, []byte("a: 32767\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, int16(32767), *(*int16)(tree.Data()))
	tree.Free()

	tree, err = yamlschema.LoadBytes(schema, []byte("a: -32768\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, int16(-32768), *(*int16)(tree.Data()))
	tree.Free()

	_, err = yamlschema.LoadBytes(schema, []byte("a: 32768\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidValue, yerr.Code)

	_, err = yamlschema.LoadBytes(schema, []byte("a: -32769\n"), nil)
	require.Error(t, err)
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidValue, yerr.Code)
}

// scenario 6: nested mapping with owning-pointer child.
func TestLoad_NestedMappingOwningPointer(t *testing.T) {
	inner := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "inner", Offset: 0, Schema: int4Schema()},
		},
	}
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 8,
		Fields: []yamlschema.Field{
			{
				Key:    "outer",
				Offset: 0,
				Schema: &yamlschema.Schema{Kind: yamlschema.Mapping, Size: inner.Size, Flags: yamlschema.OwningPointer, Fields: inner.Fields},
			},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("outer: {inner: 9}\n"), nil)
	require.NoError(t, err)

	ptr := *(*unsafe.Pointer)(tree.Data())
	require.NotNil(t, ptr)
	assert.Equal(t, int32(9), *(*int32)(ptr))

	tree.Free()
}

// scenario 7: alias unsupported.
func TestLoad_AliasUnsupported(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 8,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
			{Key: "b", Offset: 4, Schema: int4Schema()},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("a: &x 1\nb: *x\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.Alias, yerr.Code)
}

func TestLoad_DuplicateKeyForbidden(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("a: 1\na: 2\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidKey, yerr.Code)
}

func TestLoad_MissingFieldLeftZeroed(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 8,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
			{Key: "b", Offset: 4, Schema: int4Schema()},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("a: 1\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	assert.Equal(t, int32(1), *(*int32)(tree.Data()))
	assert.Equal(t, int32(0), *(*int32)(unsafe.Add(tree.Data(), 4)))
}

// The allocation count after such a failure is checked by
// TestLoad_FailureRetainsNoAllocations in internal_test.go.
func TestLoad_ErrorAfterOwningAllocation(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 8,
		Fields: []yamlschema.Field{
			{
				Key:    "outer",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind:  yamlschema.Mapping,
					Size:  4,
					Flags: yamlschema.OwningPointer,
					Fields: []yamlschema.Field{
						{Key: "inner", Offset: 0, Schema: int4Schema()},
					},
				},
			},
		},
	}
	// "inner" parses fine, then the mapping carries an unknown key that
	// triggers failure after the owning allocation for "outer" was made.
	_, err := yamlschema.LoadBytes(schema, []byte("outer: {inner: 9, bogus: 1}\n"), nil)
	require.Error(t, err)
}

func TestLoad_NullSchemaRejected(t *testing.T) {
	_, err := yamlschema.LoadBytes(nil, []byte("a: 1\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.BadParamNullSchema, yerr.Code)
}

func TestLoadFile_MissingFile(t *testing.T) {
	schema := &yamlschema.Schema{Kind: yamlschema.Mapping, Size: 0}
	_, err := yamlschema.LoadFile(schema, "/nonexistent/path/does-not-exist.yaml", nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.FileOpen, yerr.Code)
}

func TestLoadInto_TooSmallBuffer(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 8,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
		},
	}
	buf := make([]byte, 4)
	_, err := yamlschema.LoadInto(schema, buf, nil, nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.BadParamNullData, yerr.Code)
}

func TestLoadInto_WritesDirectlyToBuffer(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: int4Schema()},
		},
	}
	buf := make([]byte, 4)
	tree, err := yamlschema.LoadInto(schema, buf, strings.NewReader("a: 5\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	assert.Equal(t, int32(5), *(*int32)(unsafe.Pointer(&buf[0])))
}

// scenario 8: a single owning-pointer STRING field.
func TestLoad_SingleString(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 8,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.String, Flags: yamlschema.OwningPointer}},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("a: hello\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	ptr := *(*unsafe.Pointer)(tree.Data())
	require.NotNil(t, ptr)
	got := unsafe.String((*byte)(ptr), 5)
	assert.Equal(t, "hello", got)
}

// scenario 9: STRING elements inside a sequence grow the shared block by
// strlen(value)+1 per append (§4.3), rather than a fixed pointer stride.
func TestLoad_SequenceOfString(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 16,
		Fields: []yamlschema.Field{
			{
				Key:    "xs",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind:        yamlschema.Sequence,
					Flags:       yamlschema.OwningPointer,
					Element:     &yamlschema.Schema{Kind: yamlschema.String, Flags: yamlschema.OwningPointer},
					CountOffset: 8,
					CountSize:   4,
				},
			},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("xs: [a, bb, ccc]\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	base := tree.Data()
	blob := *(*unsafe.Pointer)(base)
	require.NotNil(t, blob)

	assert.Equal(t, "a", unsafe.String((*byte)(blob), 1))
	assert.Equal(t, "bb", unsafe.String((*byte)(unsafe.Add(blob, 2)), 2))
	assert.Equal(t, "ccc", unsafe.String((*byte)(unsafe.Add(blob, 5)), 3))

	count := *(*uint32)(unsafe.Add(base, 8))
	assert.Equal(t, uint32(3), count)
}

// scenario 10: UINT scalar.
func TestLoad_Uint(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Uint, Size: 4}},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("a: 300\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	assert.Equal(t, uint32(300), *(*uint32)(tree.Data()))
}

// scenario 11: UINT rejects a negative value.
func TestLoad_UintRejectsNegative(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Uint, Size: 4}},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("a: -1\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidValue, yerr.Code)
}

// scenario 12: BOOL scalar, both recognized spellings.
func TestLoad_Bool(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 1,
		Fields: []yamlschema.Field{
			{Key: "a", Offset: 0, Schema: &yamlschema.Schema{Kind: yamlschema.Bool, Size: 1}},
		},
	}

	tree, err := yamlschema.LoadBytes(schema, []byte("a: true\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, byte(1), *(*byte)(tree.Data()))
	tree.Free()

	tree, err = yamlschema.LoadBytes(schema, []byte("a: false\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, byte(0), *(*byte)(tree.Data()))
	tree.Free()
}

// scenario 13: ENUM scalar resolved against the schema's EnumValues table.
func TestLoad_Enum(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{
				Key:    "a",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind: yamlschema.Enum,
					Size: 4,
					EnumValues: map[string]int64{
						"red":  1,
						"blue": 2,
					},
				},
			},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("a: blue\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	assert.Equal(t, int32(2), *(*int32)(tree.Data()))
}

// scenario 14: ENUM rejects a spelling not in EnumValues.
func TestLoad_EnumRejectsUnknownValue(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 4,
		Fields: []yamlschema.Field{
			{
				Key:    "a",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind:       yamlschema.Enum,
					Size:       4,
					EnumValues: map[string]int64{"red": 1},
				},
			},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("a: green\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidValue, yerr.Code)
}

// scenario 15: SEQUENCE_FIXED embeds its elements inline, with no count
// field to maintain.
func TestLoad_SequenceFixedEmbedded(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 12,
		Fields: []yamlschema.Field{
			{
				Key:    "xs",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind:       yamlschema.SequenceFixed,
					Element:    &yamlschema.Schema{Kind: yamlschema.Int, Size: 4},
					FixedCount: 3,
				},
			},
		},
	}
	tree, err := yamlschema.LoadBytes(schema, []byte("xs: [1, 2, 3]\n"), nil)
	require.NoError(t, err)
	defer tree.Free()

	base := tree.Data()
	assert.Equal(t, int32(1), *(*int32)(base))
	assert.Equal(t, int32(2), *(*int32)(unsafe.Add(base, 4)))
	assert.Equal(t, int32(3), *(*int32)(unsafe.Add(base, 8)))
}

// scenario 16: SEQUENCE_FIXED rejects an input longer than its FixedCount.
func TestLoad_SequenceFixedRejectsOverflow(t *testing.T) {
	schema := &yamlschema.Schema{
		Kind: yamlschema.Mapping,
		Size: 12,
		Fields: []yamlschema.Field{
			{
				Key:    "xs",
				Offset: 0,
				Schema: &yamlschema.Schema{
					Kind:       yamlschema.SequenceFixed,
					Element:    &yamlschema.Schema{Kind: yamlschema.Int, Size: 4},
					FixedCount: 3,
				},
			},
		},
	}
	_, err := yamlschema.LoadBytes(schema, []byte("xs: [1, 2, 3, 4]\n"), nil)
	require.Error(t, err)
	var yerr *yamlschema.Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, yamlschema.InvalidValue, yerr.Code)
}
