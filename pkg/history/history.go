// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package history collects the values seen for each identifier of a
// formatted frame stream.
package history

import (
	"slices"
	"time"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/format"
)

// Sample is one received line: identifier and data text as formatted.
type Sample struct {
	ID        string
	Data      string
	Timestamp time.Time
}

type Value struct {
	Data      string
	Timestamp time.Time
}

type Message struct {
	ID      string
	Values  []Value
	Ignored bool
	Pinned  bool
}

func (m *Message) Last() Value {
	return m.Values[len(m.Values)-1]
}

type History struct {
	// MaxValues bounds the values kept per identifier, 0 keeps all.
	MaxValues int

	msgs *orderedmap.OrderedMap[string, *Message]
}

func New() *History {
	return &History{msgs: orderedmap.NewOrderedMap[string, *Message]()}
}

// Merge appends the sample to the message with the same identifier,
// creating it on first sight.
func (h *History) Merge(s Sample) {
	v := Value{Data: s.Data, Timestamp: s.Timestamp}
	m, ok := h.msgs.Get(s.ID)
	if !ok {
		h.msgs.Set(s.ID, &Message{ID: s.ID, Values: []Value{v}})
		return
	}
	m.Values = append(m.Values, v)
	if h.MaxValues > 0 && len(m.Values) > h.MaxValues {
		m.Values = slices.Delete(m.Values, 0, len(m.Values)-h.MaxValues)
	}
}

// MergeLine merges a formatted frame line.
func (h *History) MergeLine(line string, ts time.Time) error {
	id, data, ok := format.Fields(line)
	if !ok {
		return errors.ErrMalformedLine(line)
	}
	h.Merge(Sample{ID: id, Data: data, Timestamp: ts})
	return nil
}

func (h *History) MergeFrame(f can.Frame, ts time.Time) {
	id, data, _ := format.Fields(format.Format(f))
	h.Merge(Sample{ID: id, Data: data, Timestamp: ts})
}

func (h *History) Len() int {
	return h.msgs.Len()
}

func (h *History) Get(id string) (*Message, bool) {
	return h.msgs.Get(id)
}

// Ignore toggles the ignored flag and reports the new value.
func (h *History) Ignore(id string) bool {
	m, ok := h.msgs.Get(id)
	if !ok {
		return false
	}
	m.Ignored = !m.Ignored
	return m.Ignored
}

// Pin toggles the pinned flag and reports the new value.
func (h *History) Pin(id string) bool {
	m, ok := h.msgs.Get(id)
	if !ok {
		return false
	}
	m.Pinned = !m.Pinned
	return m.Pinned
}

// Messages returns the messages in order of first appearance.
func (h *History) Messages() []*Message {
	msgs := make([]*Message, 0, h.msgs.Len())
	for _, m := range h.msgs.AllFromFront() {
		msgs = append(msgs, m)
	}
	return msgs
}

// Sorted orders ignored messages last and pinned messages first, then by
// most recent value. Ties keep order of first appearance.
func (h *History) Sorted() []*Message {
	msgs := h.Messages()
	slices.SortStableFunc(msgs, func(a, b *Message) int {
		switch {
		case a.Ignored != b.Ignored:
			if a.Ignored {
				return 1
			}
			return -1
		case a.Pinned != b.Pinned:
			if a.Pinned {
				return -1
			}
			return 1
		default:
			return b.Last().Timestamp.Compare(a.Last().Timestamp)
		}
	})
	return msgs
}

// Diff marks the characters of value n which differ from value n-1. The
// first value has nothing to differ from.
func (h *History) Diff(id string, n int) []bool {
	m, ok := h.msgs.Get(id)
	if !ok || n < 0 || n >= len(m.Values) {
		return nil
	}
	cur := m.Values[n].Data
	mask := make([]bool, len(cur))
	if n == 0 {
		return mask
	}
	prev := m.Values[n-1].Data
	for i := range cur {
		mask[i] = i >= len(prev) || prev[i] != cur[i]
	}
	return mask
}
