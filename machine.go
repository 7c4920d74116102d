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

// loader drives the event-by-event walk of the input document in lockstep
// with the schema tree. One loader is built per Load call and discarded;
// it must not be reused or shared across goroutines.
type loader struct {
	pump  *eventPump
	stack *stack
	place *placement
	cfg   *Config
}

func newLoader(pump *eventPump, schema *Schema, root unsafe.Pointer, alloc Allocator, cfg *Config) *loader {
	l := &loader{
		pump:  pump,
		stack: newStack(),
		place: &placement{alloc: alloc},
		cfg:   cfg,
	}
	l.stack.push(frame{state: stateStart, schema: schema, data: root})
	return l
}

// run executes the drive loop described in §4.4.8: dispatch on the top
// frame's state until, after a dispatch, the top frame is the START
// sentinel again, then pop it and return.
func (l *loader) run() error {
	for {
		var err error
		switch l.stack.top().state {
		case stateStart:
			err = l.stepStart()
		case stateInStream:
			err = l.stepInStream()
		case stateInDoc:
			err = l.stepInDoc()
		case stateInMapping:
			err = l.stepInMapping()
		case stateInSequence:
			err = l.stepInSequence()
		}
		if err != nil {
			l.cfg.logf(LogError, "%s", err)
			l.stack.frames = l.stack.frames[:0]
			return err
		}
		if l.stack.top().state == stateStart {
			if l.stack.depth() != 1 {
				return newError(InternalError, zeroPos, "stack not drained to the sentinel at stream end")
			}
			l.stack.frames = l.stack.frames[:0]
			return nil
		}
	}
}

func (l *loader) stepStart() error {
	_, err := l.pump.next(maskStreamStart)
	if err != nil {
		return err
	}
	top := l.stack.top()
	l.stack.push(frame{state: stateInStream, schema: top.schema, data: top.data})
	return nil
}

func (l *loader) stepInStream() error {
	ev, err := l.pump.next(maskDocStart | maskStreamEnd)
	if err != nil {
		return err
	}
	if ev.Type == yamlh.STREAM_END_EVENT {
		return l.stack.pop()
	}
	top := l.stack.top()
	l.stack.push(frame{state: stateInDoc, schema: top.schema, data: top.data})
	return nil
}

func (l *loader) stepInDoc() error {
	ev, err := l.pump.next(maskMappingStart | maskDocEnd)
	if err != nil {
		return err
	}
	if ev.Type == yamlh.DOCUMENT_END_EVENT {
		return l.stack.pop()
	}
	top := l.stack.top()
	l.stack.push(newMappingFrame(top.schema, top.data))
	return nil
}

func newMappingFrame(schema *Schema, data unsafe.Pointer) frame {
	return frame{
		state:      stateInMapping,
		schema:     schema,
		data:       data,
		mapState:   expectKey,
		fieldIndex: noFieldMatch,
		seenFields: make(map[string]bool, len(schema.Fields)),
	}
}

func (l *loader) stepInMapping() error {
	if l.stack.top().mapState == expectKey {
		return l.stepMappingKey()
	}
	return l.stepMappingValue()
}

func (l *loader) stepMappingKey() error {
	ev, err := l.pump.next(maskScalar | maskMappingEnd)
	if err != nil {
		return err
	}
	if ev.Type == yamlh.MAPPING_END_EVENT {
		return l.stack.pop()
	}
	key := string(ev.Value)
	fr := l.stack.top()
	idx := noFieldMatch
	for i := range fr.schema.Fields {
		if fr.schema.Fields[i].Key == key {
			idx = i
			break
		}
	}
	if idx == noFieldMatch {
		return newError(InvalidKey, ev.Start_mark, "no field named %q in this mapping", key)
	}
	if fr.seenFields[key] {
		return newError(InvalidKey, ev.Start_mark, "duplicate key %q in mapping", key)
	}
	fr.fieldIndex = idx
	fr.mapState = expectValue
	return nil
}

func (l *loader) stepMappingValue() error {
	ev, err := l.pump.next(maskValue)
	if err != nil {
		return err
	}
	fr := l.stack.top()
	field := fr.schema.Fields[fr.fieldIndex]
	// Flip back to EXPECT_KEY before the value handler runs: it may push,
	// which can reallocate the stack and invalidate fr.
	fr.mapState = expectKey
	fr.seenFields[field.Key] = true
	target := unsafe.Add(fr.data, field.Offset)
	return l.handleValue(field.Schema, target, fr.data, false, ev)
}

func (l *loader) stepInSequence() error {
	ev, err := l.pump.next(maskValue | maskSeqEnd)
	if err != nil {
		return err
	}
	if ev.Type == yamlh.SEQUENCE_END_EVENT {
		return l.stack.pop()
	}
	fr := l.stack.top()
	elemSlot, err := l.place.growElement(fr, len(ev.Value))
	if err != nil {
		return err
	}
	// A dynamic SEQUENCE of STRING has already had its element fully
	// placed by growElement above: the returned slot is the string's own
	// address inside the freshly grown shared block, not a pointer slot
	// still waiting on an allocation.
	alreadyPlaced := fr.schema.Kind == Sequence && fr.schema.Element.Kind == String
	return l.handleValue(fr.schema.Element, elemSlot, nil, alreadyPlaced, ev)
}

func newSequenceFrame(schema *Schema, slotPtr, elemPtr unsafe.Pointer, count int, countFieldPtr unsafe.Pointer) frame {
	return frame{
		state:          stateInSequence,
		schema:         schema,
		slotPtr:        slotPtr,
		elemPtr:        elemPtr,
		count:          count,
		countFieldPtr:  countFieldPtr,
		countFieldSize: schema.CountSize,
	}
}

// handleValue is the value handler shared by §4.4.5 (mapping value) and
// §4.4.6 (sequence append): given the schema of the value about to arrive,
// the slot it will occupy, and the event that introduced it, it places
// the value (allocating if schema owns its storage) and either decodes a
// scalar in place or pushes a new frame for an aggregate.
//
// parentBase is the aggregate that holds slot; it is only consulted when s
// is a dynamic SEQUENCE, to locate the count field this engine writes
// back into after every append. Callers placing a sequence element (where
// the element schema can never itself be a dynamic SEQUENCE, enforced by
// Schema.validate) may pass nil.
//
// alreadyPlaced is true only for a dynamic SEQUENCE of STRING: its
// element's final address was already computed by growElement, and
// running the placement engine again on it would allocate a second,
// unrelated block instead of writing into the one just grown.
func (l *loader) handleValue(s *Schema, slot, parentBase unsafe.Pointer, alreadyPlaced bool, ev *yamlh.Event) error {
	switch s.Kind {
	case Int, Uint, Bool, Enum, String:
		if ev.Type != yamlh.SCALAR_EVENT {
			return newError(InvalidValue, ev.Start_mark, "expected a scalar for %s, got %s", s.Kind, ev.Type)
		}
		target := slot
		if !alreadyPlaced {
			target = l.place.place(s, slot, len(ev.Value))
		}
		return decodeScalar(s, target, ev)

	case Mapping:
		if ev.Type != yamlh.MAPPING_START_EVENT {
			return newError(InvalidValue, ev.Start_mark, "expected a mapping for %s, got %s", s.Kind, ev.Type)
		}
		target := l.place.place(s, slot, 0)
		l.stack.push(newMappingFrame(s, target))
		return nil

	case Sequence:
		if ev.Type != yamlh.SEQUENCE_START_EVENT {
			return newError(InvalidValue, ev.Start_mark, "expected a sequence for %s, got %s", s.Kind, ev.Type)
		}
		countFieldPtr := unsafe.Add(parentBase, s.CountOffset)
		l.stack.push(newSequenceFrame(s, slot, nil, 0, countFieldPtr))
		return nil

	case SequenceFixed:
		if ev.Type != yamlh.SEQUENCE_START_EVENT {
			return newError(InvalidValue, ev.Start_mark, "expected a sequence for %s, got %s", s.Kind, ev.Type)
		}
		base := l.place.place(s, slot, 0)
		l.stack.push(newSequenceFrame(s, nil, base, 0, nil))
		return nil

	case Flags, Ignore:
		return newError(BadTypeInSchema, ev.Start_mark, "%s is not implemented by this loader", s.Kind)
	}
	return newError(InternalError, ev.Start_mark, "unknown schema kind %d", s.Kind)
}
