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
	"bytes"
	"io"
	"os"
	"unsafe"
)

// Load parses the YAML document read from r against schema and returns a
// Tree holding the populated output structure. schema must be a MAPPING
// node; it is validated before the parser is ever invoked.
func Load(schema *Schema, r io.Reader, cfg *Config) (*Tree, error) {
	if schema == nil {
		return nil, newError(BadParamNullSchema, zeroPos, "schema is nil")
	}
	if err := schema.validate(true); err != nil {
		return nil, err
	}

	alloc := cfg.allocator()
	root := alloc.Alloc(schema.Size)

	pump := newEventPump(r)
	l := newLoader(pump, schema, root, alloc, cfg)
	if err := l.run(); err != nil {
		freeAggregate(schema, root, alloc)
		alloc.Free(root)
		return nil, err
	}

	return &Tree{schema: schema, root: root, alloc: alloc, ownsRoot: true}, nil
}

// LoadFile opens path and loads it against schema, closing the file before
// returning.
func LoadFile(schema *Schema, path string, cfg *Config) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(FileOpen, zeroPos, "%s", err)
	}
	defer f.Close()
	return Load(schema, f, cfg)
}

// LoadBytes loads an in-memory YAML document against schema.
func LoadBytes(schema *Schema, data []byte, cfg *Config) (*Tree, error) {
	return Load(schema, bytes.NewReader(data), cfg)
}

// LoadInto parses r against schema the same as Load, but writes the root
// aggregate directly into a caller-supplied, already-allocated buffer
// instead of allocating one of its own. dst must be at least schema.Size
// bytes; the returned Tree's Free only releases the nested owning-pointer
// allocations it created while loading, never dst itself.
func LoadInto(schema *Schema, dst []byte, r io.Reader, cfg *Config) (*Tree, error) {
	if schema == nil {
		return nil, newError(BadParamNullSchema, zeroPos, "schema is nil")
	}
	if err := schema.validate(true); err != nil {
		return nil, err
	}
	if uintptr(len(dst)) < schema.Size {
		return nil, newError(BadParamNullData, zeroPos, "destination buffer of %d bytes is smaller than the %d bytes this schema needs", len(dst), schema.Size)
	}

	alloc := cfg.allocator()
	root := unsafe.Pointer(unsafe.SliceData(dst))
	clear(dst[:schema.Size])

	pump := newEventPump(r)
	l := newLoader(pump, schema, root, alloc, cfg)
	if err := l.run(); err != nil {
		freeAggregate(schema, root, alloc)
		return nil, err
	}

	return &Tree{schema: schema, root: root, alloc: alloc, ownsRoot: false}, nil
}
