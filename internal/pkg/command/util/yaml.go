// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func ReadYaml(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Error reading yaml: %v", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Error decoding yaml (%s): %v", path, err)
	}
	return nil
}

func WriteYaml(v any, path string) error {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("Error encoding yaml: %v", err)
	}
	enc.Close()
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		return fmt.Errorf("Error writing yaml: %v", err)
	}
	return nil
}
