// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestParseInitPolicy(t *testing.T) {
	tests := map[string]struct {
		want InitPolicy
		err  bool
	}{
		"":       {want: PolicyInert},
		"inert":  {want: PolicyInert},
		"EXIT":   {want: PolicyExit},
		" retry": {want: PolicyRetry},
		"abort":  {err: true},
	}
	for s, tc := range tests {
		t.Run(s, func(t *testing.T) {
			p, err := ParseInitPolicy(s)
			if tc.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, p)
		})
	}
	assert.Equal(t, "retry", PolicyRetry.String())
}

func TestInitPolicyYaml(t *testing.T) {
	var v struct {
		Policy InitPolicy `yaml:"policy"`
	}
	assert.NoError(t, yaml.Unmarshal([]byte("policy: exit\n"), &v))
	assert.Equal(t, PolicyExit, v.Policy)

	b, err := yaml.Marshal(v)
	assert.NoError(t, err)
	assert.Equal(t, "policy: exit\n", string(b))
}
