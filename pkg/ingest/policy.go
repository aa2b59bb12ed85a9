// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"strings"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

// InitPolicy selects what happens when the controller cannot be
// initialized.
type InitPolicy uint8

const (
	// PolicyInert reports the failure and leaves the loop uninitialized;
	// it never touches the controller again.
	PolicyInert InitPolicy = iota
	// PolicyExit makes Setup return the init error.
	PolicyExit
	// PolicyRetry retries with exponential backoff, then behaves as
	// PolicyInert.
	PolicyRetry
)

var policyNames = []string{"inert", "exit", "retry"}

func ParseInitPolicy(s string) (InitPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PolicyInert, nil
	}
	for i, n := range policyNames {
		if n == s {
			return InitPolicy(i), nil
		}
	}
	return PolicyInert, errors.ErrInitPolicy(s)
}

func (p InitPolicy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "unknown"
}

func (p *InitPolicy) Set(s string) error {
	v, err := ParseInitPolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p InitPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *InitPolicy) UnmarshalText(text []byte) error {
	return p.Set(string(text))
}
