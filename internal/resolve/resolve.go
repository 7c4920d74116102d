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

// Package resolve recognizes the handful of plain scalar spellings the
// loader's BOOL decoder accepts. It is a trimmed version of the tag
// resolution table a general-purpose YAML decoder needs for every scalar
// type; this loader only ever needs the boolean subset, since INT/UINT/ENUM
// scalars are parsed directly against the schema's declared width.
package resolve

var boolValues = map[string]bool{
	"true": true, "True": true, "TRUE": true,
	"false": false, "False": false, "FALSE": false,
}

// Bool reports whether s is a recognized YAML boolean scalar and its value.
func Bool(s string) (value, ok bool) {
	v, ok := boolValues[s]
	return v, ok
}
