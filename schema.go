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

// Kind identifies the variant of a Schema node.
type Kind int

const (
	Int Kind = iota
	Uint
	Bool
	Enum
	String
	Flags
	Ignore
	Mapping
	Sequence
	SequenceFixed
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "INT"
	case Uint:
		return "UINT"
	case Bool:
		return "BOOL"
	case Enum:
		return "ENUM"
	case String:
		return "STRING"
	case Flags:
		return "FLAGS"
	case Ignore:
		return "IGNORE"
	case Mapping:
		return "MAPPING"
	case Sequence:
		return "SEQUENCE"
	case SequenceFixed:
		return "SEQUENCE_FIXED"
	}
	return "<unknown kind>"
}

// NodeFlag holds the boolean properties a schema node carries.
type NodeFlag uint8

const (
	// OwningPointer marks a field as holding a pointer to a heap
	// allocation the loader creates and Free reclaims. Without it the
	// value is embedded in place at its offset.
	OwningPointer NodeFlag = 1 << iota

	// Optional marks a mapping field as not required to appear in the
	// input. It has no load-time effect in this core; it exists so a
	// caller-side validator can inspect the schema afterward.
	Optional
)

func (f NodeFlag) has(bit NodeFlag) bool { return f&bit != 0 }

// Field describes one member of a MAPPING node: its YAML key, the byte
// offset of its slot in the parent aggregate, and the schema of its value.
type Field struct {
	Key    string
	Offset uintptr
	Schema *Schema
}

// Schema is a caller-built, read-only-during-load description of the
// output tree's layout. The zero value is not a valid Schema; build one
// by populating the struct directly.
type Schema struct {
	Kind  Kind
	Flags NodeFlag

	// Size is the byte width of an INT/UINT scalar (1, 2, 4 or 8), or the
	// byte size of a MAPPING node's aggregate, whether embedded inline or
	// allocated behind OwningPointer. It is ignored for BOOL, STRING, FLAGS
	// and IGNORE.
	Size uintptr

	// Fields is the ordered field list of a MAPPING node.
	Fields []Field

	// Element is the schema of one element of a SEQUENCE or
	// SEQUENCE_FIXED node.
	Element *Schema

	// CountOffset and CountSize locate the count field this sequence
	// updates in its parent aggregate after every append. Unused for
	// SEQUENCE_FIXED.
	CountOffset uintptr
	CountSize   uintptr

	// FixedCount is the compile-time element count of a SEQUENCE_FIXED
	// node.
	FixedCount int

	// EnumValues maps the scalar text recognized for an ENUM node to the
	// integer written at the target, using Size for the write width.
	EnumValues map[string]int64
}

func (s *Schema) owning() bool { return s.Flags.has(OwningPointer) }

// validate walks the schema tree once, at entry-point time, so that
// malformed schemas are reported before the parser is ever touched.
func (s *Schema) validate(isTop bool) error {
	if s == nil {
		return newError(BadParamNullSchema, zeroPos, "schema is nil")
	}
	if isTop && s.Kind != Mapping {
		return newError(BadTopLevelType, zeroPos, "top-level schema must be MAPPING, got %s", s.Kind)
	}
	if s.owning() && (s.Kind == Int || s.Kind == Uint || s.Kind == Bool || s.Kind == Enum) {
		return newError(BadTypeInSchema, zeroPos, "%s cannot carry OwningPointer, it is always embedded inline", s.Kind)
	}
	switch s.Kind {
	case Int, Uint:
		switch s.Size {
		case 1, 2, 4, 8:
		default:
			return newError(BadTypeInSchema, zeroPos, "%s width must be 1, 2, 4 or 8, got %d", s.Kind, s.Size)
		}
	case Bool:
		if s.Size != 0 && s.Size != 1 {
			return newError(BadTypeInSchema, zeroPos, "BOOL width must be 1")
		}
	case Enum:
		switch s.Size {
		case 1, 2, 4, 8:
		default:
			return newError(BadTypeInSchema, zeroPos, "ENUM width must be 1, 2, 4 or 8, got %d", s.Size)
		}
		if len(s.EnumValues) == 0 {
			return newError(BadTypeInSchema, zeroPos, "ENUM schema has no recognized values")
		}
	case String:
		if !s.owning() {
			return newError(BadTypeInSchema, zeroPos, "STRING must carry OwningPointer")
		}
	case Flags, Ignore:
		return newError(BadTypeInSchema, zeroPos, "%s is not implemented by this loader", s.Kind)
	case Mapping:
		seen := make(map[string]bool, len(s.Fields))
		for i := range s.Fields {
			f := &s.Fields[i]
			if f.Key == "" {
				return newError(BadTypeInSchema, zeroPos, "mapping field %d has an empty key", i)
			}
			if seen[f.Key] {
				return newError(BadTypeInSchema, zeroPos, "mapping field %q declared twice in schema", f.Key)
			}
			seen[f.Key] = true
			if err := f.Schema.validate(false); err != nil {
				return err
			}
		}
	case Sequence:
		if !s.owning() {
			return newError(BadTypeInSchema, zeroPos, "SEQUENCE must carry OwningPointer, its backing array grows in place")
		}
		if s.Element == nil {
			return newError(BadTypeInSchema, zeroPos, "SEQUENCE has no element schema")
		}
		if s.Element.Kind == Sequence {
			return newError(BadTypeInSchema, zeroPos, "a SEQUENCE cannot have another SEQUENCE as its element; wrap it in a MAPPING so it has a count field to grow against")
		}
		switch s.CountSize {
		case 1, 2, 4, 8:
		default:
			return newError(BadTypeInSchema, zeroPos, "SEQUENCE count width must be 1, 2, 4 or 8, got %d", s.CountSize)
		}
		if err := s.Element.validate(false); err != nil {
			return err
		}
	case SequenceFixed:
		if s.Element == nil {
			return newError(BadTypeInSchema, zeroPos, "SEQUENCE_FIXED has no element schema")
		}
		if s.Element.Kind == Sequence {
			return newError(BadTypeInSchema, zeroPos, "a SEQUENCE_FIXED cannot have a dynamic SEQUENCE as its element; wrap it in a MAPPING so it has a count field to grow against")
		}
		if s.FixedCount <= 0 {
			return newError(BadTypeInSchema, zeroPos, "SEQUENCE_FIXED count must be positive")
		}
		if err := s.Element.validate(false); err != nil {
			return err
		}
	default:
		return newError(BadTypeInSchema, zeroPos, "unknown schema kind %d", s.Kind)
	}
	return nil
}

// elementSize is the fixed per-element stride placement uses when growing
// a sequence's backing array: pointer-sized when the element owns its
// storage (STRING, or any MAPPING/SEQUENCE kept behind a pointer),
// otherwise the element's own inline size.
func (s *Schema) elementSize() uintptr {
	if s.owning() {
		return ptrSize
	}
	if s.Kind == Bool {
		return 1
	}
	return s.Size
}
