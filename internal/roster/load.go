// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package roster

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a workspace document. Unknown keys are rejected so typos in
// hand-edited files surface instead of silently dropping data.
func Parse(data []byte) (Workspace, error) {
	var ws Workspace
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ws); err != nil {
		// An empty document decodes to io.EOF; treat it as an empty workspace.
		if len(bytes.TrimSpace(data)) == 0 {
			return Workspace{}, nil
		}
		return Workspace{}, fmt.Errorf("%w: %v", ErrBadWorkspace, err)
	}
	return ws, nil
}

// LoadFile reads and indexes a workspace file.
func LoadFile(path string) (*Directory, error) {
	ws, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewDirectory(ws)
}

// ReadFile reads a workspace file. A missing file yields an empty workspace.
func ReadFile(path string) (Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Workspace{}, nil
		}
		return Workspace{}, fmt.Errorf("failed to read workspace: %w", err)
	}
	return Parse(data)
}

// Marshal encodes a workspace as YAML.
func Marshal(ws Workspace) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ws); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
