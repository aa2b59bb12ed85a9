// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package can

import (
	"strconv"
	"strings"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

// Bitrate selects one of the bus speeds supported by MCP2515 class
// controllers.
type Bitrate uint8

const (
	CAN5kBps Bitrate = iota + 1
	CAN10kBps
	CAN20kBps
	CAN31k25Bps
	CAN33kBps
	CAN40kBps
	CAN50kBps
	CAN80kBps
	CAN100kBps
	CAN125kBps
	CAN200kBps
	CAN250kBps
	CAN500kBps
	CAN1000kBps
)

const DefaultBitrate = CAN500kBps

var bitrates = []struct {
	rate Bitrate
	name string
	bps  uint32
}{
	{CAN5kBps, "5k", 5000},
	{CAN10kBps, "10k", 10000},
	{CAN20kBps, "20k", 20000},
	{CAN31k25Bps, "31.25k", 31250},
	{CAN33kBps, "33.3k", 33333},
	{CAN40kBps, "40k", 40000},
	{CAN50kBps, "50k", 50000},
	{CAN80kBps, "80k", 80000},
	{CAN100kBps, "100k", 100000},
	{CAN125kBps, "125k", 125000},
	{CAN200kBps, "200k", 200000},
	{CAN250kBps, "250k", 250000},
	{CAN500kBps, "500k", 500000},
	{CAN1000kBps, "1000k", 1000000},
}

// Bitrates lists the supported bitrates, slowest first.
func Bitrates() []Bitrate {
	l := make([]Bitrate, 0, len(bitrates))
	for _, b := range bitrates {
		l = append(l, b.rate)
	}
	return l
}

// ParseBitrate accepts the short names ("500k", "1000k"), "1M" and plain
// bits per second ("500000").
func ParseBitrate(s string) (Bitrate, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "1m", "1mbps":
		return CAN1000kBps, nil
	}
	v = strings.TrimSuffix(v, "bps")
	for _, b := range bitrates {
		if v == b.name {
			return b.rate, nil
		}
		if v == strconv.FormatUint(uint64(b.bps), 10) {
			return b.rate, nil
		}
	}
	return 0, errors.ErrInvalidBitrate(s)
}

func (b Bitrate) Valid() bool {
	return b >= CAN5kBps && b <= CAN1000kBps
}

func (b Bitrate) String() string {
	if !b.Valid() {
		return "invalid"
	}
	return bitrates[b-1].name
}

func (b Bitrate) BitsPerSecond() uint32 {
	if !b.Valid() {
		return 0
	}
	return bitrates[b-1].bps
}

// Set implements flag.Value.
func (b *Bitrate) Set(s string) error {
	return b.UnmarshalText([]byte(s))
}

func (b Bitrate) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, errors.ErrInvalidBitrate(b.String())
	}
	return []byte(b.String()), nil
}

func (b *Bitrate) UnmarshalText(text []byte) error {
	v, err := ParseBitrate(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
