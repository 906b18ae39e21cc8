//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package agent

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// NormalizeToolResult flattens an arbitrary tool invocation result into the
// single text string fed back to the model. Content wrappers and bare
// sequences are joined item by item with newlines, structural values render
// as compact JSON and everything else falls back to a generic string
// rendering. It never fails; unrecognized shapes degrade to the generic
// rendering.
func NormalizeToolResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case *mcp.CallToolResult:
		if v == nil {
			return ""
		}
		return joinContents(v.Content)
	case mcp.CallToolResult:
		return joinContents(v.Content)
	case []mcp.Content:
		return joinContents(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, contentItemText(item))
		}
		return strings.Join(items, "\n")
	default:
		return normalizeValue(v)
	}
}

func joinContents(contents []mcp.Content) string {
	items := make([]string, 0, len(contents))
	for _, item := range contents {
		items = append(items, contentItemText(item))
	}
	return strings.Join(items, "\n")
}

// contentItemText extracts the text of one content item: a text field wins,
// then a "text" mapping key, then a generic rendering of the item.
func contentItemText(item any) string {
	switch v := item.(type) {
	case mcp.TextContent:
		return v.Text
	case *mcp.TextContent:
		if v == nil {
			return ""
		}
		return v.Text
	case string:
		return v
	case map[string]any:
		if text, ok := v["text"]; ok {
			if s, ok := text.(string); ok {
				return s
			}
			return fmt.Sprintf("%v", text)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normalizeValue renders maps, slices and structs as compact JSON and
// scalars via plain string conversion.
func normalizeValue(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, contentItemText(rv.Index(i).Interface()))
		}
		return strings.Join(items, "\n")
	case reflect.Map, reflect.Struct, reflect.Pointer:
		if bts, err := json.Marshal(v); err == nil {
			return string(bts)
		}
	}
	return fmt.Sprintf("%v", v)
}
