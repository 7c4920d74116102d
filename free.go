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

// freeAggregate walks a MAPPING's field list and releases every owning
// allocation reachable from base, recursing into nested aggregates. It is
// safe to call on a partially built aggregate: a field that was never
// visited still reads back as a nil pointer, since every allocation this
// engine hands out starts zeroed, so freeField below just skips it.
func freeAggregate(s *Schema, base unsafe.Pointer, alloc Allocator) {
	for i := range s.Fields {
		f := &s.Fields[i]
		freeField(f.Schema, unsafe.Add(base, f.Offset), base, alloc)
	}
}

// freeField releases the allocation (if any) behind one field or sequence
// element slot. parentBase is the aggregate that holds slot, needed to
// find a dynamic SEQUENCE's count field.
func freeField(s *Schema, slot, parentBase unsafe.Pointer, alloc Allocator) {
	switch s.Kind {
	case Mapping:
		if s.owning() {
			p := readPointer(slot)
			if p == nil {
				return
			}
			freeAggregate(s, p, alloc)
			alloc.Free(p)
			return
		}
		freeAggregate(s, slot, alloc)

	case Sequence:
		p := readPointer(slot)
		if p == nil {
			return
		}
		// A sequence of STRING packs its elements' own bytes directly
		// into this one block (§4.3's growth-delta special case for
		// STRING), so there is nothing per-element left to free once the
		// block itself is released below.
		if s.Element.Kind != String {
			count := int(readUint(unsafe.Add(parentBase, s.CountOffset), s.CountSize))
			freeSequenceElements(s, p, count, alloc)
		}
		alloc.Free(p)

	case SequenceFixed:
		if s.owning() {
			p := readPointer(slot)
			if p == nil {
				return
			}
			freeSequenceElements(s, p, s.FixedCount, alloc)
			alloc.Free(p)
			return
		}
		freeSequenceElements(s, slot, s.FixedCount, alloc)

	case String:
		p := readPointer(slot)
		if p != nil {
			alloc.Free(p)
		}

	default:
		// INT/UINT/BOOL/ENUM never own storage.
	}
}

func freeSequenceElements(s *Schema, arrBase unsafe.Pointer, count int, alloc Allocator) {
	elemSize := s.Element.elementSize()
	for i := 0; i < count; i++ {
		freeField(s.Element, unsafe.Add(arrBase, uintptr(i)*elemSize), arrBase, alloc)
	}
}
