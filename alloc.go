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
	"unsafe"

	"github.com/willabides/yamlschema/internal/yamlh"
)

var zeroPos yamlh.Position

// ptrSize is the stride used for a pointer-sized slot: a sequence element
// that owns its storage, or a mapping field behind OwningPointer.
const ptrSize = unsafe.Sizeof(uintptr(0))

// Allocator is the malloc/realloc/free triad the placement engine drives.
// The default, used unless a Config overrides it, keeps every live
// allocation reachable from a Go map so the garbage collector never
// reclaims memory the output tree's byte-embedded pointers still
// reference; Free (and the companion free walk) drop that reachability
// deliberately, in schema order, mirroring the malloc-backed original this
// engine is modeled on.
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
	Realloc(p unsafe.Pointer, oldSize, newSize uintptr) unsafe.Pointer
	Free(p unsafe.Pointer)
}

// heapAllocator is the default Allocator. It is not safe for concurrent
// use, matching this package's single-threaded-per-load concurrency model.
type heapAllocator struct {
	live map[unsafe.Pointer][]byte
}

func newHeapAllocator() *heapAllocator {
	return &heapAllocator{live: make(map[unsafe.Pointer][]byte)}
}

func (h *heapAllocator) Alloc(size uintptr) unsafe.Pointer {
	buf := make([]byte, size)
	p := unsafe.Pointer(unsafe.SliceData(buf))
	h.live[p] = buf
	return p
}

func (h *heapAllocator) Realloc(p unsafe.Pointer, oldSize, newSize uintptr) unsafe.Pointer {
	newP := h.Alloc(newSize)
	if oldSize > 0 {
		n := oldSize
		if newSize < n {
			n = newSize
		}
		copy(bytesAt(newP, newSize), bytesAt(p, n))
	}
	delete(h.live, p)
	return newP
}

func (h *heapAllocator) Free(p unsafe.Pointer) {
	delete(h.live, p)
}

// bytesAt views the size bytes starting at p as a slice, for copying and
// zeroing. It does not allocate.
func bytesAt(p unsafe.Pointer, size uintptr) []byte {
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), int(size))
}

// countingAllocator wraps another Allocator and counts live allocations,
// the interposing allocator the "no bytes retained on error" property in
// the load tests checks against.
type countingAllocator struct {
	inner Allocator
	live  int
}

func newCountingAllocator(inner Allocator) *countingAllocator {
	return &countingAllocator{inner: inner}
}

func (c *countingAllocator) Alloc(size uintptr) unsafe.Pointer {
	c.live++
	return c.inner.Alloc(size)
}

// Realloc only increments live on the first growth of a given block
// (oldSize == 0, nothing tracked yet): every later call replaces one live
// allocation with another, a wash against the single Free that eventually
// releases whichever address growth last returned.
func (c *countingAllocator) Realloc(p unsafe.Pointer, oldSize, newSize uintptr) unsafe.Pointer {
	if oldSize == 0 {
		c.live++
	}
	return c.inner.Realloc(p, oldSize, newSize)
}

func (c *countingAllocator) Free(p unsafe.Pointer) {
	c.live--
	c.inner.Free(p)
}
