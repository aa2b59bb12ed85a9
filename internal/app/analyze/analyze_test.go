// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package analyze

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/history"
)

const stream = `CAN Init ok
CAN Read - Test receiving of CAN Bus message
ID: 7DF Data: 02010C
ID: 7E8 Data: 04410C1AF8
ID: 7DF Data: 02010D
sleep
ID: 100 Data: 
`

func clock() func() time.Time {
	t := time.UnixMilli(1700000000000)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestAnalyzeStdin(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "history.json")
	cborFile := filepath.Join(dir, "history.cbor")

	c := NewAnalyzeCommand("analyze")
	var out bytes.Buffer
	c.Stdin = strings.NewReader(stream)
	c.Stdout = &out
	c.Now = clock()
	require.NoError(t, c.Parse([]string{"-pin", "7e8", "-ignore", "100", "-json", jsonFile, "-cbor", cborFile}))
	require.NoError(t, c.Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^ID\s+COUNT\s+DATA\s+FLAGS$`, lines[0])
	assert.Regexp(t, `^7E8\s+1\s+04410C1AF8\s+pinned$`, lines[1])
	assert.Regexp(t, `^7DF\s+2\s+02010D\s*$`, lines[2])
	assert.Regexp(t, `^100\s+1\s+ignored$`, lines[3])

	h := history.New()
	f, err := os.Open(cborFile)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, h.ReadCBOR(f))
	assert.Equal(t, 3, h.Len())

	b, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id": "7E8"`)
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "can.log")
	require.NoError(t, os.WriteFile(path, []byte(stream), 0644))

	c := NewAnalyzeCommand("analyze")
	var out bytes.Buffer
	c.Stdout = &out
	require.NoError(t, c.Parse([]string{"-input", path, "-max", "1"}))
	require.NoError(t, c.Run())
	assert.Regexp(t, `(?m)^7DF\s+1\s+02010D`, out.String())

	c = NewAnalyzeCommand("analyze")
	require.NoError(t, c.Parse([]string{"-input", filepath.Join(t.TempDir(), "missing.log")}))
	assert.Error(t, c.Run())
}
