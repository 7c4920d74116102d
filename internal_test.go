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

package yamlschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This file exercises package-internal invariants that require the
// unexported countingAllocator, directly against spec.md §8's universal
// invariants: no bytes retained on a non-OK return, stack depth zero at
// return on both success and failure.

func TestLoad_FailureRetainsNoAllocations(t *testing.T) {
	counting := newCountingAllocator(newHeapAllocator())
	innerSchema := &Schema{
		Kind: Mapping,
		Size: 4,
		Fields: []Field{
			{Key: "inner", Offset: 0, Schema: &Schema{Kind: Int, Size: 4}},
		},
	}
	schema := &Schema{
		Kind: Mapping,
		Size: 8,
		Fields: []Field{
			{
				Key:    "outer",
				Offset: 0,
				Schema: &Schema{Kind: Mapping, Size: innerSchema.Size, Flags: OwningPointer, Fields: innerSchema.Fields},
			},
		},
	}

	_, err := LoadBytes(schema, []byte("outer: {inner: 9, bogus: 1}\n"), &Config{Allocator: counting})
	require.Error(t, err)
	assert.Zero(t, counting.live, "every allocation made before the error must be freed on unwind")
}

func TestLoad_SuccessStackDrainedToZero(t *testing.T) {
	schema := &Schema{
		Kind: Mapping,
		Size: 4,
		Fields: []Field{
			{Key: "a", Offset: 0, Schema: &Schema{Kind: Int, Size: 4}},
		},
	}
	pump := newEventPump(strings.NewReader("a: 1\n"))
	root := newHeapAllocator().Alloc(schema.Size)
	l := newLoader(pump, schema, root, newHeapAllocator(), nil)
	err := l.run()
	require.NoError(t, err)
	assert.Equal(t, 0, l.stack.depth())
}

func TestLoad_FailureStackDrainsViaUnwind(t *testing.T) {
	schema := &Schema{
		Kind: Mapping,
		Size: 4,
		Fields: []Field{
			{Key: "a", Offset: 0, Schema: &Schema{Kind: Int, Size: 4}},
		},
	}
	pump := newEventPump(strings.NewReader("a: 1\nb: 2\n"))
	alloc := newHeapAllocator()
	root := alloc.Alloc(schema.Size)
	l := newLoader(pump, schema, root, alloc, nil)
	err := l.run()
	require.Error(t, err)
	var yerr *Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, InvalidKey, yerr.Code)
	assert.Equal(t, 0, l.stack.depth(), "the drive loop must unwind the stack on error")
}

// directly exercises placement.go's growElement fix for §4.3's STRING
// growth-delta case: every append grows one shared block rather than
// allocating a separate string per element, and all of it is freed.
func TestLoad_SequenceOfStringRetainsNoAllocationsAfterFree(t *testing.T) {
	counting := newCountingAllocator(newHeapAllocator())
	schema := &Schema{
		Kind: Mapping,
		Size: 16,
		Fields: []Field{
			{
				Key:    "xs",
				Offset: 0,
				Schema: &Schema{
					Kind:        Sequence,
					Flags:       OwningPointer,
					Element:     &Schema{Kind: String, Flags: OwningPointer},
					CountOffset: 8,
					CountSize:   4,
				},
			},
		},
	}
	tree, err := LoadBytes(schema, []byte("xs: [a, bb, ccc, dddd]\n"), &Config{Allocator: counting})
	require.NoError(t, err)
	tree.Free()
	assert.Zero(t, counting.live, "the shared STRING-sequence block must be freed exactly once")
}

func TestSchema_ValidateRejectsOwningScalar(t *testing.T) {
	s := &Schema{
		Kind: Mapping,
		Fields: []Field{
			{Key: "a", Schema: &Schema{Kind: Int, Size: 4, Flags: OwningPointer}},
		},
	}
	err := s.validate(true)
	require.Error(t, err)
	var yerr *Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, BadTypeInSchema, yerr.Code)
}

func TestSchema_ValidateRejectsSequenceOfSequence(t *testing.T) {
	s := &Schema{
		Kind: Mapping,
		Fields: []Field{
			{
				Key: "xs",
				Schema: &Schema{
					Kind:  Sequence,
					Flags: OwningPointer,
					Element: &Schema{
						Kind:        Sequence,
						Flags:       OwningPointer,
						Element:     &Schema{Kind: Int, Size: 4},
						CountOffset: 0,
						CountSize:   4,
					},
					CountOffset: 0,
					CountSize:   4,
				},
			},
		},
	}
	err := s.validate(true)
	require.Error(t, err)
	var yerr *Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, BadTypeInSchema, yerr.Code)
}

func TestStack_PopSentinelIsInternalError(t *testing.T) {
	s := newStack()
	s.push(frame{state: stateStart})
	err := s.pop()
	require.Error(t, err)
	var yerr *Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, InternalError, yerr.Code)
}

func TestStack_PushSurvivesGrowthWithoutInvalidatingIndex(t *testing.T) {
	s := newStack()
	for i := 0; i < 64; i++ {
		s.push(frame{state: stateInMapping, fieldIndex: i})
	}
	for i := 0; i < 64; i++ {
		assert.Equal(t, i, s.at(i).fieldIndex)
	}
}
