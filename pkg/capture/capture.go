// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package capture reads and writes capture files: a sequence of size
// prefixed CanFrame flatbuffers with the "CANF" file identifier.
package capture

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"go.uber.org/multierr"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/capture/schema"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

const (
	fileIdentifierLength = len(schema.CanFrameIdentifier)

	// MaxRecordSize bounds the size prefix of a single record. An encoded
	// CanFrame with 8 payload bytes is well below it.
	MaxRecordSize = 256
)

type Record struct {
	Frame     can.Frame
	Timestamp time.Time
}

// Encode returns the size prefixed flatbuffer of one record. The builder
// is reset before use.
func Encode(builder *flatbuffers.Builder, f can.Frame, ts time.Time) []byte {
	builder.Reset()
	payload := builder.CreateByteVector(f.Data)
	schema.CanFrameStart(builder)
	schema.CanFrameAddFrameId(builder, f.ID)
	schema.CanFrameAddExtended(builder, f.Extended)
	schema.CanFrameAddPayload(builder, payload)
	schema.CanFrameAddTimestamp(builder, ts.UnixNano())
	frame := schema.CanFrameEnd(builder)
	schema.FinishSizePrefixedCanFrameBuffer(builder, frame)
	return builder.FinishedBytes()
}

// Decode reads one flatbuffer, without its size prefix. Offsets which
// point outside buf are reported as a corrupt record.
func Decode(buf []byte) (rec Record, err error) {
	const header = flatbuffers.SizeUOffsetT + fileIdentifierLength
	if len(buf) < header {
		return Record{}, errors.ErrCaptureTruncated(uint32(len(buf)), uint32(header))
	}
	if id := flatbuffers.GetBufferIdentifier(buf); id != schema.CanFrameIdentifier {
		return Record{}, errors.ErrCaptureIdentifier(id)
	}
	root := uint64(flatbuffers.GetUOffsetT(buf))
	if root < uint64(header) || root+flatbuffers.SizeSOffsetT > uint64(len(buf)) {
		return Record{}, errors.ErrCaptureCorrupt(fmt.Sprintf("root offset %d outside %d bytes", root, len(buf)))
	}

	// Vtable and field offsets are read by the accessors without checks.
	defer func() {
		if r := recover(); r != nil {
			rec, err = Record{}, errors.ErrCaptureCorrupt(fmt.Sprint(r))
		}
	}()
	cf := schema.GetRootAsCanFrame(buf, 0)
	f, err := can.NewFrame(cf.FrameId(), cf.Extended(), cf.PayloadBytes())
	if err != nil {
		return Record{}, errors.NewCaptureError(err, "invalid frame")
	}
	return Record{Frame: f, Timestamp: time.Unix(0, cf.Timestamp())}, nil
}

// Writer appends records to a capture file.
type Writer struct {
	Now func() time.Time

	w       *bufio.Writer
	closer  io.Closer
	builder *flatbuffers.Builder
	count   int
}

// Create opens path for appending, creating it when needed.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.NewCaptureError(err, fmt.Sprintf("create %s failed", path))
	}
	slog.Debug(fmt.Sprintf("Capture: Create: %s", path))
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Now:     time.Now,
		w:       bufio.NewWriter(w),
		builder: flatbuffers.NewBuilder(64),
	}
}

// Record writes one frame. The formatted line is not stored.
func (w *Writer) Record(f can.Frame, line []byte) error {
	if w.w == nil {
		return errors.ErrCaptureClosed
	}
	buf := Encode(w.builder, f, w.Now())
	if _, err := w.w.Write(buf); err != nil {
		return errors.NewCaptureError(err, "write failed")
	}
	w.count++
	return nil
}

func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Close() error {
	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	w.w = nil
	if w.closer != nil {
		err = multierr.Append(err, w.closer.Close())
	}
	slog.Debug(fmt.Sprintf("Capture: Close: %d frames", w.count))
	return err
}
