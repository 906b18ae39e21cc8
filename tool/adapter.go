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
	"fmt"
)

// FunctionSchema is the model-facing form of a tool declaration, ready
// to be converted into a provider's function-calling payload.
type FunctionSchema struct {
	// Name is the function name.
	Name string `json:"name"`
	// Description is the function description, possibly augmented with
	// an example invocation.
	Description string `json:"description,omitempty"`
	// Parameters is the JSON schema of the function arguments.
	Parameters *Schema `json:"parameters"`
}

// Adapt converts a tool declaration into a function schema.
//
// A declaration without a usable object schema gets a permissive empty
// object schema so that providers which reject schema-less functions
// still accept the tool. A sample input, when present, is appended to
// the description as an example invocation; this changes only the
// description text, never the schema.
func Adapt(declaration *Declaration) FunctionSchema {
	fs := FunctionSchema{
		Parameters: &Schema{
			Type:       "object",
			Properties: map[string]*Schema{},
		},
	}
	if declaration == nil {
		return fs
	}
	fs.Name = declaration.Name
	fs.Description = declaration.Description
	if declaration.InputSchema != nil {
		fs.Parameters = declaration.InputSchema
	}
	if declaration.SampleInput != nil {
		fs.Description += "\nExample usage: " + sampleInputText(declaration.SampleInput)
	}
	return fs
}

// AdaptAll converts a list of declarations into function schemas,
// preserving order.
func AdaptAll(declarations []Declaration) []FunctionSchema {
	schemas := make([]FunctionSchema, 0, len(declarations))
	for i := range declarations {
		schemas = append(schemas, Adapt(&declarations[i]))
	}
	return schemas
}

// sampleInputText renders a sample input for inclusion in a
// description. Strings pass through, everything else becomes compact
// JSON.
func sampleInputText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
