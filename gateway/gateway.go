//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package gateway connects to a tool gateway: a single endpoint that
// aggregates tools from multiple servers and executes them on behalf
// of the caller.
package gateway

import (
	"context"

	"trpc.group/trpc-go/trpc-agent-eval-go/tool"
)

// Gateway is the capability surface the conversation loop depends on.
//
// The gateway connection is a shared resource: the caller acquires it
// once for an evaluation run and closes it at the end. Consumers such
// as the conversation loop never close it.
type Gateway interface {
	// ListTools returns the declarations of the currently available
	// tools. Availability can change between calls as a side effect of
	// invoking activation tools.
	ListTools(ctx context.Context) ([]tool.Declaration, error)

	// CallTool executes the named tool with the given arguments and
	// returns the raw transport-level result. Tool-reported errors
	// inside an otherwise successful call are part of the result, not
	// a Go error; only transport and protocol failures are errors.
	CallTool(ctx context.Context, name string, args map[string]any) (any, error)

	// Close terminates the underlying session.
	Close() error
}
