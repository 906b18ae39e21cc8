//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package tool provides the canonical tool declaration types and the
// adapter that converts declarations into the function schemas handed
// to chat models.
package tool

// Declaration describes a callable tool as reported by a gateway.
//
// Gateways may report tools in several shapes; NormalizeDeclaration
// converts them into this canonical form once at the boundary so the
// rest of the code never touches loosely typed descriptors.
type Declaration struct {
	// Name is the unique name of the tool.
	Name string `json:"name"`
	// Description is the description of the tool.
	Description string `json:"description,omitempty"`
	// InputSchema is the JSON schema of the tool's arguments.
	InputSchema *Schema `json:"inputSchema,omitempty"`
	// SampleInput is an optional example invocation payload.
	SampleInput any `json:"sampleInput,omitempty"`
}

// Schema is a JSON Schema definition for tool arguments.
type Schema struct {
	// Type is the JSON type ("object", "string", "number", ...).
	Type string `json:"type,omitempty"`
	// Description describes the value.
	Description string `json:"description,omitempty"`
	// Properties holds the schemas of an object's fields.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Required lists the mandatory property names.
	Required []string `json:"required,omitempty"`
	// Items is the schema of array elements.
	Items *Schema `json:"items,omitempty"`
	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`
	// Default is the default value.
	Default any `json:"default,omitempty"`
	// AdditionalProperties controls extra object fields. It may be a
	// bool or a *Schema.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Ref is a reference to a reusable definition.
	Ref string `json:"$ref,omitempty"`
	// Defs stores reusable schema definitions.
	Defs map[string]*Schema `json:"$defs,omitempty"`
}
