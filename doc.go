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

// Package yamlschema loads a YAML document directly into a caller-declared
// memory layout, driven by a Schema tree the caller builds once and reuses
// across loads.
//
// Unlike a reflection-based unmarshaler, a Schema describes output storage
// in the same terms a C struct layout would: byte offsets, field widths,
// and which fields own a heap allocation versus holding their value
// inline. The loader walks a low-level stream of YAML parse events in
// lockstep with the schema tree, writing scalars at their declared offset
// and allocating storage for MAPPING, SEQUENCE and STRING fields as it
// goes. This mirrors the libyaml-style "load to schema" model used by
// lower-level YAML bindings, rather than the typical Go unmarshal-to-struct
// API.
//
// Integers are written in host byte order; a Schema built on one machine
// and loaded on another of a different endianness will not round-trip.
// This matches the raw in-memory layout the package is modeled on: the
// output is meant to be read back by code on the same host, not
// serialized across machines.
package yamlschema
