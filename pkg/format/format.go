// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package format renders received frames as the text lines consumed by the
// serial monitor tooling, and parses those lines back into frames.
//
// Line grammar:
//
//	ID: <identifier> Data: <byte0><byte1>...<byteN-1>\n
//
// The identifier is uppercase hex without prefix or padding, each byte is
// two uppercase hex digits, bytes are not separated. An empty payload
// leaves the data segment empty.
package format

import (
	"strconv"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
)

const (
	idPrefix   = "ID: "
	dataPrefix = " Data: "
	hexDigits  = "0123456789ABCDEF"
)

// Format returns the text line for f, newline terminated.
func Format(f can.Frame) string {
	return string(AppendFormat(make([]byte, 0, 32), f))
}

// AppendFormat appends the text line for f to dst.
func AppendFormat(dst []byte, f can.Frame) []byte {
	dst = append(dst, idPrefix...)
	dst = appendUpperHex(dst, f.ID)
	dst = append(dst, dataPrefix...)
	for _, b := range f.Data {
		dst = append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return append(dst, '\n')
}

func appendUpperHex(dst []byte, v uint32) []byte {
	start := len(dst)
	dst = strconv.AppendUint(dst, uint64(v), 16)
	for i := start; i < len(dst); i++ {
		if c := dst[i]; c >= 'a' && c <= 'f' {
			dst[i] = c - ('a' - 'A')
		}
	}
	return dst
}
