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
	"fmt"

	"github.com/willabides/yamlschema/internal/yamlh"
)

// Code is the taxonomy of results an entry point or a load can return.
type Code int

const (
	OK Code = iota

	// Parameter errors, detected before the parser ever runs.
	BadParamNullConfig
	BadParamNullSchema
	BadParamNullData
	BadTopLevelType

	// Event producer errors.
	FileOpen
	LibyamlParserInit
	LibyamlParser
	UnexpectedEvent
	Alias

	// Schema/value mismatch.
	InvalidKey
	InvalidValue
	BadTypeInSchema

	// Resource errors.
	OOM

	// Violated invariants.
	InternalError
)

var codeNames = [...]string{
	OK:                 "OK",
	BadParamNullConfig: "BAD_PARAM_NULL_CONFIG",
	BadParamNullSchema: "BAD_PARAM_NULL_SCHEMA",
	BadParamNullData:   "BAD_PARAM_NULL_DATA",
	BadTopLevelType:    "BAD_TOP_LEVEL_TYPE",
	FileOpen:           "FILE_OPEN",
	LibyamlParserInit:  "LIBYAML_PARSER_INIT",
	LibyamlParser:      "LIBYAML_PARSER",
	UnexpectedEvent:    "UNEXPECTED_EVENT",
	Alias:              "ALIAS",
	InvalidKey:         "INVALID_KEY",
	InvalidValue:       "INVALID_VALUE",
	BadTypeInSchema:    "BAD_TYPE_IN_SCHEMA",
	OOM:                "OOM",
	InternalError:      "INTERNAL_ERROR",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) || codeNames[c] == "" {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// Error is returned by every entry point and carries the taxonomy code
// alongside the position in the input stream where it originated, when
// known.
type Error struct {
	Code Code
	Pos  yamlh.Position
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("yamlschema: %s: line %d: %s", e.Code, e.Pos.Line+1, e.Msg)
	}
	return fmt.Sprintf("yamlschema: %s: %s", e.Code, e.Msg)
}

func newError(code Code, pos yamlh.Position, format string, args ...interface{}) *Error {
	return &Error{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
