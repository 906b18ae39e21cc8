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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRepairCanonicalOutput verifies the exact canonical JSON produced for
// structurally damaged input.
func TestRepairCanonicalOutput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Already valid input is re-emitted canonically.
		{input: `{"a":2,"b":"str","c":null,"d":false,"e":[1,2,3]}`, want: `{"a":2,"b":"str","c":null,"d":false,"e":[1,2,3]}`},
		{input: "  { \n } \t ", want: `{}`},
		{input: `{"a": {}}`, want: `{"a":{}}`},
		{input: `[ 1 , 2 , 3 ]`, want: `[1,2,3]`},
		{input: `[1,2,[3,4,5]]`, want: `[1,2,[3,4,5]]`},
		{input: `[{}]`, want: `[{}]`},
		{input: `23`, want: `23`},
		{input: `-0`, want: `-0`},
		{input: `0e+2`, want: `0e+2`},
		{input: `2.3e-3`, want: `2.3e-3`},
		{input: `true`, want: `true`},
		{input: `false`, want: `false`},
		{input: `null`, want: `null`},
		{input: `""`, want: `""`},
		// Unquoted keys and bare words.
		{input: `{a:2}`, want: `{"a":2}`},
		{input: `{2: 2}`, want: `{"2":2}`},
		{input: `{true: 2}`, want: `{"true":2}`},
		{input: "{\nmessage: hello world\n}", want: `{"message":"hello world"}`},
		{input: `[a,b]`, want: `["a","b"]`},
		{input: `abc`, want: `"abc"`},
		{input: `hello   world`, want: `"hello   world"`},
		{input: `https://example.com/`, want: `"https://example.com/"`},
		{input: `{url:https://example.com/}`, want: `{"url":"https://example.com/"}`},
		{input: `{url:https://example.com/,"id":2}`, want: `{"url":"https://example.com/","id":2}`},
		{input: `[https://example.com/,2]`, want: `["https://example.com/",2]`},
		{input: `{"date":2024-10-18T18:35:22.229Z}`, want: `{"date":"2024-10-18T18:35:22.229Z"}`},
		// Python literals.
		{input: `{"a": True, "b": False, "c": None}`, want: `{"a":true,"b":false,"c":null}`},
		// Trailing commas and ellipses.
		{input: `[1,2,3,]`, want: `[1,2,3]`},
		{input: `{"a":2,"b":3,}`, want: `{"a":2,"b":3}`},
		{input: `[1,2,3,...]`, want: `[1,2,3]`},
		{input: `[1,2,3,...,9]`, want: `[1,2,3,9]`},
		{input: `[...]`, want: `[]`},
		{input: `{"a":2,"b":3,...}`, want: `{"a":2,"b":3}`},
		{input: `[1,2,3,/*comment1*/.../*comment2*/]`, want: `[1,2,3]`},
		// Truncated input is closed.
		{input: `[`, want: `[]`},
		{input: `{`, want: `{}`},
		{input: `["foo`, want: `["foo"]`},
		{input: `["foo"`, want: `["foo"]`},
		{input: `["foo",`, want: `["foo"]`},
		{input: `{"foo":"bar"`, want: `{"foo":"bar"}`},
		{input: `{"foo":"bar`, want: `{"foo":"bar"}`},
		{input: `{"foo":`, want: `{"foo":null}`},
		{input: `{"foo"`, want: `{"foo":null}`},
		{input: `{"foo`, want: `{"foo":null}`},
		{input: `"abc`, want: `"abc"`},
		{input: `'abc`, want: `"abc"`},
		{input: `"12:20`, want: `"12:20"`},
		{input: `{"time":"12:20}`, want: `{"time":"12:20"}`},
		{input: `{"a":"b}`, want: `{"a":"b"}`},
		{input: `{"url":"https://example.com/}`, want: `{"url":"https://example.com/"}`},
		{input: `"She said:`, want: `"She said:"`},
		{input: `{"text": "She said:`, want: `{"text":"She said:"}`},
		{input: `{"message": "it's working`, want: `{"message":"it's working"}`},
		{input: `{"foo":"bar\u20`, want: `{"foo":"bar"}`},
		// Truncated numbers are padded.
		{input: `2.`, want: `2.0`},
		{input: `2e`, want: `2e0`},
		{input: `2e+`, want: `2e+0`},
		{input: `2e-`, want: `2e-0`},
		// Comments are dropped.
		{input: "// leading\n{\"a\":1}", want: `{"a":1}`},
		{input: `{"a":1 /* trailing */}`, want: `{"a":1}`},
		// Markdown code fences are stripped.
		{input: "```json\n{\"a\": 1}\n```", want: `{"a":1}`},
		{input: "```\n[1,2]\n```", want: `[1,2]`},
		{input: "```json{\"a\":1}```", want: `{"a":1}`},
	}
	for _, tt := range tests {
		got, err := Repair([]byte(tt.input))
		require.NoError(t, err, "input: %s", tt.input)
		require.Equal(t, tt.want, string(got), "input: %s", tt.input)
	}
}

// TestRepairStringValues verifies string decoding by comparing unmarshaled
// values, keeping the assertions independent of the escaping the encoder
// picks.
func TestRepairStringValues(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `"str"`, want: "str"},
		{input: `'single'`, want: "single"},
		{input: "‘smart’", want: "smart"},
		{input: "“double smart”", want: "double smart"},
		{input: `"tab\there"`, want: "tab\there"},
		{input: `"line\nbreak"`, want: "line\nbreak"},
		{input: `"back\\slash"`, want: "back\\slash"},
		{input: `"quote\"inside"`, want: "quote\"inside"},
		{input: `"★"`, want: "★"},
		{input: `"😀"`, want: "\U0001f600"},
		{input: `"йнфо"`, want: "йнфо"},
		{input: `"it's working`, want: "it's working"},
		{input: `"hello, world"`, want: "hello, world"},
	}
	for _, tt := range tests {
		got, err := Repair([]byte(tt.input))
		require.NoError(t, err, "input: %s", tt.input)
		var value string
		require.NoError(t, json.Unmarshal(got, &value), "input: %s", tt.input)
		require.Equal(t, tt.want, value, "input: %s", tt.input)
	}
}

// TestRepairProducesValidJSON runs messier shapes through the repairer and
// only requires that the result parses.
func TestRepairProducesValidJSON(t *testing.T) {
	inputs := []string{
		`{"a":"b,"c":"d"}`,
		`{a:"b,c,"d":"e"}`,
		`["hello, world]`,
		`[1, 2págs]`,
		`{"s \ud`,
		`{"query": "latest news", "count": 5,, }`,
		"{'query': 'weather in Beijing', 'days': 3}",
	}
	for _, input := range inputs {
		got, err := Repair([]byte(input))
		require.NoError(t, err, "input: %s", input)
		require.True(t, json.Valid(got), "input: %s, output: %s", input, got)
	}
}

// TestRepairObjectValues verifies the decoded content of repaired argument
// objects, the shape models actually produce.
func TestRepairObjectValues(t *testing.T) {
	tests := []struct {
		input string
		want  map[string]any
	}{
		{
			input: "{'query': 'weather in Beijing', 'days': 3}",
			want:  map[string]any{"query": "weather in Beijing", "days": float64(3)},
		},
		{
			input: "```json\n{\"name\": \"brave-search\"}\n```",
			want:  map[string]any{"name": "brave-search"},
		},
		{
			input: `{query: hello world, limit: 5}`,
			want:  map[string]any{"query": "hello world", "limit": float64(5)},
		},
		{
			input: `{"enabled": True, "filter": None}`,
			want:  map[string]any{"enabled": true, "filter": nil},
		},
	}
	for _, tt := range tests {
		got, err := Repair([]byte(tt.input))
		require.NoError(t, err, "input: %s", tt.input)
		var value map[string]any
		require.NoError(t, json.Unmarshal(got, &value), "input: %s", tt.input)
		require.Equal(t, tt.want, value, "input: %s", tt.input)
	}
}

func TestRepairNoValue(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t", "```"} {
		_, err := Repair([]byte(input))
		require.Error(t, err, "input: %q", input)
	}
}
