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

// Tree is the result of a successful Load. It owns every allocation
// reachable from the root aggregate, and the root itself unless the tree
// came from LoadInto; the caller must call Free exactly
// once when done with the data, or the allocator's bookkeeping (and, for
// heapAllocator, the liveness root keeping these bytes visible to the GC)
// leaks for the lifetime of the process.
type Tree struct {
	schema   *Schema
	root     unsafe.Pointer
	alloc    Allocator
	ownsRoot bool
	freed    bool
}

// Data returns a pointer to the root MAPPING aggregate. The caller is
// expected to know the schema's layout and cast or index into it with
// unsafe, the same way it built the Schema in the first place.
func (t *Tree) Data() unsafe.Pointer {
	return t.root
}

// Schema returns the schema this tree was loaded against.
func (t *Tree) Schema() *Schema {
	return t.schema
}

// Free releases every allocation owned by this tree. It is idempotent:
// calling it more than once is a no-op rather than a double-free.
func (t *Tree) Free() {
	if t.freed {
		return
	}
	t.freed = true
	freeAggregate(t.schema, t.root, t.alloc)
	if t.ownsRoot {
		t.alloc.Free(t.root)
	}
}
