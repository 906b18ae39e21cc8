//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NormalizeDeclaration converts a tool descriptor of any supported
// shape into a canonical *Declaration.
//
// Supported shapes are *Declaration, Declaration, a generic mapping
// with "name"/"description"/"inputSchema"/"sampleInput" keys, and any
// struct whose JSON form exposes those keys (for example the tool
// records returned by MCP servers). Absent fields are tolerated; only
// a missing name is an error, since an unnamed tool cannot be called.
func NormalizeDeclaration(v any) (*Declaration, error) {
	switch d := v.(type) {
	case nil:
		return nil, errors.New("tool declaration is nil")
	case *Declaration:
		if d == nil {
			return nil, errors.New("tool declaration is nil")
		}
		return d, nil
	case Declaration:
		return &d, nil
	case map[string]any:
		return declarationFromMap(d)
	default:
		// Struct-shaped descriptors are converted through their JSON
		// form so that any record with the standard keys works without
		// this package naming its type.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal tool declaration: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal tool declaration: %w", err)
		}
		return declarationFromMap(m)
	}
}

func declarationFromMap(m map[string]any) (*Declaration, error) {
	declaration := &Declaration{}
	if name, ok := m["name"].(string); ok {
		declaration.Name = name
	}
	if declaration.Name == "" {
		return nil, errors.New("tool declaration has no name")
	}
	if description, ok := m["description"].(string); ok {
		declaration.Description = description
	}
	if raw, ok := m["inputSchema"]; ok {
		declaration.InputSchema = schemaFromValue(raw)
	}
	if sample, ok := m["sampleInput"]; ok {
		declaration.SampleInput = sample
	}
	return declaration, nil
}

// schemaFromValue converts a wire-format schema value into *Schema.
// Non-mapping values yield nil, which Adapt replaces with the default
// empty object schema.
func schemaFromValue(v any) *Schema {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	schema := &Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		return nil
	}
	return schema
}
