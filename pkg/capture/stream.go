// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

type Stream struct {
	File  string
	stack []Record // Supports unit tests.
}

// Frames yields the records of the stream in file order. Reading stops
// at the first damaged record, which is logged.
func (s Stream) Frames() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if err := s.scan(yield); err != nil {
			slog.Warn(fmt.Sprintf("Capture: %s: %v", s.File, err))
		}
	}
}

// ReadAll returns every record, or the error which stopped reading.
func (s Stream) ReadAll() ([]Record, error) {
	var records []Record
	err := s.scan(func(r Record) bool {
		records = append(records, r)
		return true
	})
	return records, err
}

func (s Stream) scan(yield func(Record) bool) error {
	for _, r := range s.stack {
		if !yield(r) {
			return nil
		}
	}
	if len(s.File) == 0 {
		return nil
	}
	f, err := os.Open(s.File)
	if err != nil {
		return errors.NewCaptureError(err, fmt.Sprintf("open %s failed", s.File))
	}
	defer f.Close()
	return Scan(f, yield)
}

// Scan decodes size prefixed records from r until EOF.
func Scan(r io.Reader, yield func(Record) bool) error {
	for {
		// Get the size of the next flatbuffer.
		b := make([]byte, flatbuffers.SizeUint32)
		readLen, err := io.ReadFull(r, b)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.ErrCaptureTruncated(uint32(readLen), flatbuffers.SizeUint32)
		}
		length := flatbuffers.GetSizePrefix(b, 0)
		if length > MaxRecordSize {
			return errors.ErrCaptureRecordSize(length, MaxRecordSize)
		}

		// Load the rest of the flatbuffer.
		flatbuffer := make([]byte, length)
		readLen, err = io.ReadFull(r, flatbuffer)
		if err != nil {
			return errors.ErrCaptureTruncated(uint32(readLen), length)
		}
		rec, err := Decode(flatbuffer)
		if err != nil {
			return err
		}
		if !yield(rec) {
			return nil
		}
	}
}
