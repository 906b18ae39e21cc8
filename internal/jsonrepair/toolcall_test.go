//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package jsonrepair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRepairToolCallArgumentsValidPassThrough verifies that valid JSON
// arguments are returned unchanged, byte for byte.
func TestRepairToolCallArgumentsValidPassThrough(t *testing.T) {
	arguments := []byte(`{"a": 1, "b": [true, null]}`)
	require.Equal(t, arguments, RepairToolCallArguments("test_tool", arguments))

	empty := []byte("   ")
	require.Equal(t, empty, RepairToolCallArguments("test_tool", empty))
}

// TestRepairToolCallArgumentsRepairsInvalidJSON verifies that malformed
// arguments come back repaired.
func TestRepairToolCallArgumentsRepairsInvalidJSON(t *testing.T) {
	repaired := RepairToolCallArguments("test_tool", []byte(`{a:2}`))
	require.Equal(t, `{"a":2}`, string(repaired))

	repaired = RepairToolCallArguments("test_tool", []byte("```json\n{\"query\": \"news\"}\n```"))
	require.Equal(t, `{"query":"news"}`, string(repaired))
}

// TestRepairToolCallArgumentsUnrepairableReturnsOriginal verifies the
// original bytes come back when repair finds nothing to work with, leaving
// the failure to the caller's own parse.
func TestRepairToolCallArgumentsUnrepairableReturnsOriginal(t *testing.T) {
	arguments := []byte("```")
	require.Equal(t, arguments, RepairToolCallArguments("test_tool", arguments))
}
