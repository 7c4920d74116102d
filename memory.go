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

// writeInt stores the two's-complement low-order width bytes of v at addr,
// in host byte order (see the package doc comment on endianness).
func writeInt(addr unsafe.Pointer, width uintptr, v int64) {
	switch width {
	case 1:
		*(*int8)(addr) = int8(v)
	case 2:
		*(*int16)(addr) = int16(v)
	case 4:
		*(*int32)(addr) = int32(v)
	case 8:
		*(*int64)(addr) = v
	}
}

// writeUint is writeInt's unsigned counterpart.
func writeUint(addr unsafe.Pointer, width uintptr, v uint64) {
	switch width {
	case 1:
		*(*uint8)(addr) = uint8(v)
	case 2:
		*(*uint16)(addr) = uint16(v)
	case 4:
		*(*uint32)(addr) = uint32(v)
	case 8:
		*(*uint64)(addr) = v
	}
}

// readUint is the inverse of writeUint; the free routine uses it to read a
// sequence's live count back out of its parent's count field.
func readUint(addr unsafe.Pointer, width uintptr) uint64 {
	switch width {
	case 1:
		return uint64(*(*uint8)(addr))
	case 2:
		return uint64(*(*uint16)(addr))
	case 4:
		return uint64(*(*uint32)(addr))
	case 8:
		return *(*uint64)(addr)
	}
	return 0
}

func writeBool(addr unsafe.Pointer, v bool) {
	if v {
		*(*byte)(addr) = 1
	} else {
		*(*byte)(addr) = 0
	}
}

// writePointer stores p's bit pattern at slot. The write is purely
// representational: nothing reads these bytes back to keep p alive. p
// stays reachable only through the Allocator's own bookkeeping (see
// Allocator in alloc.go) until Free deliberately drops it.
func writePointer(slot unsafe.Pointer, p unsafe.Pointer) {
	*(*uintptr)(slot) = uintptr(p)
}

// readPointer is writePointer's inverse, used by the free routine to
// follow each owning slot of the tree it is tearing down (a nil result
// means the slot was never allocated).
func readPointer(slot unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(*(*uintptr)(slot))
}
