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
	"io"

	"github.com/willabides/yamlschema/internal/parserc"
	"github.com/willabides/yamlschema/internal/yamlh"
)

// eventMask is the set of event kinds a state accepts from next.
type eventMask uint16

const (
	maskStreamStart eventMask = 1 << iota
	maskStreamEnd
	maskDocStart
	maskDocEnd
	maskMappingStart
	maskMappingEnd
	maskSeqStart
	maskSeqEnd
	maskScalar

	maskValue = maskScalar | maskSeqStart | maskMappingStart
)

func bitFor(t yamlh.EventType) eventMask {
	switch t {
	case yamlh.STREAM_START_EVENT:
		return maskStreamStart
	case yamlh.STREAM_END_EVENT:
		return maskStreamEnd
	case yamlh.DOCUMENT_START_EVENT:
		return maskDocStart
	case yamlh.DOCUMENT_END_EVENT:
		return maskDocEnd
	case yamlh.MAPPING_START_EVENT:
		return maskMappingStart
	case yamlh.MAPPING_END_EVENT:
		return maskMappingEnd
	case yamlh.SEQUENCE_START_EVENT:
		return maskSeqStart
	case yamlh.SEQUENCE_END_EVENT:
		return maskSeqEnd
	case yamlh.SCALAR_EVENT:
		return maskScalar
	}
	return 0
}

// eventPump pulls one event at a time from the underlying YAML tokenizer
// and translates its producer-level errors and unsupported features into
// this package's error taxonomy. The caller owns every event it receives:
// it must not call next again until it is done reading the current one.
type eventPump struct {
	parser *parserc.YamlParser
}

func newEventPump(r io.Reader) *eventPump {
	return &eventPump{parser: parserc.New(r)}
}

// next pulls the next event and checks its kind against mask. Aliases are
// always rejected, regardless of mask, since this loader does not support
// them.
func (p *eventPump) next(mask eventMask) (*yamlh.Event, error) {
	ev, err := parserc.Parse(p.parser)
	if err != nil {
		return nil, newError(LibyamlParser, zeroPos, "%s", err)
	}
	if ev.Type == yamlh.ALIAS_EVENT {
		return nil, newError(Alias, ev.Start_mark, "aliases are not supported")
	}
	if bitFor(ev.Type)&mask == 0 {
		return nil, newError(UnexpectedEvent, ev.Start_mark, "unexpected %s event", ev.Type)
	}
	return ev, nil
}
