// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"encoding/json"
	"io"
	"time"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/fxamacker/cbor/v2"
)

type valueRecord struct {
	Data string `json:"data" cbor:"data"`
	Ts   int64  `json:"ts" cbor:"ts"`
}

type messageRecord struct {
	ID      string        `json:"id" cbor:"id"`
	Values  []valueRecord `json:"values" cbor:"values"`
	Ignored bool          `json:"ignored" cbor:"ignored"`
	Pinned  bool          `json:"pinned" cbor:"pinned"`
}

// records converts the history in Sorted order, timestamps as unix
// milliseconds.
func (h *History) records() []messageRecord {
	msgs := h.Sorted()
	r := make([]messageRecord, 0, len(msgs))
	for _, m := range msgs {
		mr := messageRecord{ID: m.ID, Ignored: m.Ignored, Pinned: m.Pinned}
		for _, v := range m.Values {
			mr.Values = append(mr.Values, valueRecord{Data: v.Data, Ts: v.Timestamp.UnixMilli()})
		}
		r = append(r, mr)
	}
	return r
}

func (h *History) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(h.records())
}

func (h *History) WriteCBOR(w io.Writer) error {
	return cbor.NewEncoder(w).Encode(h.records())
}

// ReadCBOR loads an exported history, replacing the current content.
func (h *History) ReadCBOR(r io.Reader) error {
	var records []messageRecord
	if err := cbor.NewDecoder(r).Decode(&records); err != nil {
		return err
	}
	h.load(records)
	return nil
}

func (h *History) ReadJSON(r io.Reader) error {
	var records []messageRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return err
	}
	h.load(records)
	return nil
}

func (h *History) load(records []messageRecord) {
	h.msgs = orderedmap.NewOrderedMap[string, *Message]()
	for _, mr := range records {
		m := &Message{ID: mr.ID, Ignored: mr.Ignored, Pinned: mr.Pinned}
		for _, v := range mr.Values {
			m.Values = append(m.Values, Value{Data: v.Data, Timestamp: time.UnixMilli(v.Ts)})
		}
		if len(m.Values) == 0 {
			continue
		}
		h.msgs.Set(m.ID, m)
	}
}
