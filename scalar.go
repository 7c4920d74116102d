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
	"math"
	"strconv"
	"unsafe"

	"github.com/willabides/yamlschema/internal/resolve"
	"github.com/willabides/yamlschema/internal/yamlh"
)

// intBounds returns the two's-complement range an N-byte signed integer
// can hold.
func intBounds(width uintptr) (lo, hi int64) {
	if width == 8 {
		return math.MinInt64, math.MaxInt64
	}
	bits := uint(8*width - 1)
	hi = int64(1)<<bits - 1
	lo = -hi - 1
	return lo, hi
}

func uintBound(width uintptr) uint64 {
	if width == 8 {
		return math.MaxUint64
	}
	return uint64(1)<<(8*width) - 1
}

// decodeScalar parses ev's text against schema s and writes the result at
// target. It is the scalar half of the value handler in §4.4.7.
func decodeScalar(s *Schema, target unsafe.Pointer, ev *yamlh.Event) error {
	text := string(ev.Value)
	switch s.Kind {
	case Int:
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return newError(InvalidValue, ev.Start_mark, "%q is not a valid integer", text)
		}
		lo, hi := intBounds(s.Size)
		if v < lo || v > hi {
			return newError(InvalidValue, ev.Start_mark, "%d is out of range for a %d-byte signed integer", v, s.Size)
		}
		writeInt(target, s.Size, v)
		return nil

	case Uint:
		v, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return newError(InvalidValue, ev.Start_mark, "%q is not a valid unsigned integer", text)
		}
		if v > uintBound(s.Size) {
			return newError(InvalidValue, ev.Start_mark, "%d is out of range for a %d-byte unsigned integer", v, s.Size)
		}
		writeUint(target, s.Size, v)
		return nil

	case Bool:
		v, ok := resolve.Bool(text)
		if !ok {
			return newError(InvalidValue, ev.Start_mark, "%q is not a valid boolean", text)
		}
		writeBool(target, v)
		return nil

	case Enum:
		v, ok := s.EnumValues[text]
		if !ok {
			return newError(InvalidValue, ev.Start_mark, "%q is not a recognized value for this enum", text)
		}
		writeInt(target, s.Size, v)
		return nil

	case String:
		buf := bytesAt(target, uintptr(len(text)+1))
		copy(buf, text)
		buf[len(text)] = 0
		return nil
	}
	return newError(BadTypeInSchema, ev.Start_mark, "%s cannot decode a scalar", s.Kind)
}
