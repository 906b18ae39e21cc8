//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package metrics defines metric name constants following OpenTelemetry semantic conventions.
package metrics

const (
	// KeyGenAITokenType represents the type of token.
	KeyGenAITokenType = "gen_ai.token.type" // #nosec G101 - this is a metric key name, not a credential.
	// KeyTRPCAgentGoInputTokenType represents the type of input token.
	KeyTRPCAgentGoInputTokenType = "input" // #nosec G101 - this is a metric key name, not a credential.
	// KeyTRPCAgentGoOutputTokenType represents the type of output token.
	KeyTRPCAgentGoOutputTokenType = "output" // #nosec G101 - this is a metric key name, not a credential.

	/////////////// client ////////////////////////

	// MetricGenAIClientTokenUsage represents the usage of client token.
	MetricGenAIClientTokenUsage = "gen_ai.client.token.usage" // #nosec G101 - this is a metric key name, not a credential.
	// MetricGenAIClientOperationDuration represents the duration of client operation.
	MetricGenAIClientOperationDuration = "gen_ai.client.operation.duration"
	// MetricTRPCAgentGoClientRequestCnt represents the request count for client.
	MetricTRPCAgentGoClientRequestCnt = "trpc_agent_go.client.request_cnt"

	////////////////////////// meters ////////////////////////

	// MeterNameChat is the meter name for chat operations.
	MeterNameChat = "trpc_agent_go.internal.chat"
	// MeterNameExecuteTool is the meter name for tool execution operations.
	MeterNameExecuteTool = "trpc_agent_go.internal.execute_tool"
)
