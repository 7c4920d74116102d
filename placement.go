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

import "unsafe"

// placement computes the target address for a value about to be written,
// allocating and linking owning-pointer fields as it goes. Sequence
// growth (§4.3's "inside a sequence" branch) lives in growElement below;
// both share writePointer as the single place a parent's pointer slot
// gets rewritten, so a moved sequence backing array is never missed.
type placement struct {
	alloc Allocator
}

// allocSize is the number of bytes to allocate for an owning-pointer
// field of schema s, given the scalar text length when s is STRING.
func allocSize(s *Schema, textLen int) uintptr {
	switch s.Kind {
	case String:
		return uintptr(textLen) + 1
	case SequenceFixed:
		return uintptr(s.FixedCount) * s.Element.elementSize()
	default:
		return s.Size
	}
}

// place resolves the target address for schema s whose slot is slot: the
// field's own storage inside its parent aggregate (or the freshly grown
// element slot inside a sequence's backing array). Dynamic SEQUENCE nodes
// are handled by the caller before place is reached, since their size
// isn't known until the first element arrives.
func (p *placement) place(s *Schema, slot unsafe.Pointer, textLen int) unsafe.Pointer {
	if !s.owning() {
		return slot
	}
	size := allocSize(s, textLen)
	addr := p.alloc.Alloc(size)
	writePointer(slot, addr)
	return addr
}

// growElement appends one element to a sequence frame's backing array,
// reallocating it in place, zeroing the new tail, and rewriting both the
// parent's array pointer and (for a dynamic SEQUENCE) its count field. It
// returns the newly appended element's own slot — still subject to a
// further placement call when the element schema itself owns its storage
// (e.g. a MAPPING or SEQUENCE_FIXED element), except for a dynamic
// SEQUENCE of STRING, where growElement has already grown the shared
// block by the text's own strlen(value)+1 and the returned slot is the
// string's final address (§4.3's STRING-inside-a-sequence growth delta).
//
// For a SEQUENCE_FIXED frame nothing is reallocated or rewritten: it
// hands out the next slot of the array already in place and returns an
// InvalidValue error once FixedCount elements have been placed.
//
// textLen is the scalar text length of the value about to be written; it
// is only consulted for a dynamic SEQUENCE whose element is STRING, where
// it replaces the fixed per-element stride with the growth delta §4.3
// calls out by name. Every other element kind ignores it.
func (p *placement) growElement(fr *frame, textLen int) (unsafe.Pointer, error) {
	if fr.schema.Kind == SequenceFixed {
		elemSize := fr.schema.Element.elementSize()
		if fr.count >= fr.schema.FixedCount {
			return nil, newError(InvalidValue, zeroPos, "sequence has more than its fixed %d elements", fr.schema.FixedCount)
		}
		slot := unsafe.Add(fr.elemPtr, uintptr(fr.count)*elemSize)
		fr.count++
		return slot, nil
	}

	var delta uintptr
	if fr.schema.Element.Kind == String {
		delta = uintptr(textLen) + 1
	} else {
		delta = fr.schema.Element.elementSize()
	}

	oldSize := fr.byteSize
	newSize := oldSize + delta
	newBase := p.alloc.Realloc(fr.elemPtr, oldSize, newSize)
	fr.elemPtr = newBase
	fr.byteSize = newSize
	fr.count++
	writePointer(fr.slotPtr, newBase)
	writeUint(fr.countFieldPtr, fr.countFieldSize, uint64(fr.count))
	return unsafe.Add(newBase, oldSize), nil
}
