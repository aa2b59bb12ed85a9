// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

// IsFrameLine reports whether line looks like a formatted frame. Status
// lines written by the firmware ("CAN Init ok", banners) do not.
func IsFrameLine(line string) bool {
	return strings.HasPrefix(line, "ID:")
}

// Parse decodes a line produced by Format. Trailing CR/LF are ignored, a
// missing data field is an empty payload. Identifiers above the standard
// range are returned as extended frames.
func Parse(line string) (can.Frame, error) {
	line = strings.TrimRight(line, "\r\n")
	words := strings.Split(line, " ")
	if len(words) < 2 || words[0] != "ID:" {
		return can.Frame{}, errors.ErrMalformedLine(fmt.Sprintf("not a frame line: %q", line))
	}
	id, err := strconv.ParseUint(words[1], 16, 32)
	if err != nil {
		return can.Frame{}, errors.NewFrameError(err, fmt.Sprintf("bad identifier: %q", words[1]))
	}
	if len(words) > 2 && words[2] != "Data:" {
		return can.Frame{}, errors.ErrMalformedLine(fmt.Sprintf("missing data field: %q", line))
	}
	var data []byte
	if len(words) > 3 {
		if len(words) > 4 {
			return can.Frame{}, errors.ErrMalformedLine(fmt.Sprintf("trailing fields: %q", line))
		}
		data, err = hex.DecodeString(words[3])
		if err != nil {
			return can.Frame{}, errors.NewFrameError(err, fmt.Sprintf("bad data: %q", words[3]))
		}
	}
	return can.NewFrame(uint32(id), uint32(id) > can.MaxStdID, data)
}

// Fields splits a frame line into its identifier and data text without
// decoding them.
func Fields(line string) (id string, data string, ok bool) {
	words := strings.Split(strings.TrimRight(line, "\r\n"), " ")
	if len(words) < 2 || words[0] != "ID:" {
		return "", "", false
	}
	id = words[1]
	if len(words) > 3 {
		data = words[3]
	}
	return id, data, true
}
