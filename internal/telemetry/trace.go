//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides telemetry and observability functionality for the
// trpc-agent-eval-go harness. It includes tracing and metrics capabilities for
// model calls, tool executions and scenario runs.
package telemetry

import (
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"trpc.group/trpc-go/trpc-agent-eval-go/model"
	semconvtrace "trpc.group/trpc-go/trpc-agent-eval-go/telemetry/semconv/trace"
	"trpc.group/trpc-go/trpc-agent-eval-go/tool"
)

// grpcDial is a package-level variable to allow test injection of a custom dialer.
// In production, this points to grpc.Dial.
var grpcDial = grpc.Dial

// telemetry service constants.
const (
	ServiceName      = "telemetry"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-agent-eval"
	InstrumentName   = "trpc.agent.eval.go"

	SpanNamePrefixExecuteTool = "execute_tool"

	OperationExecuteTool = "execute_tool"
	OperationChat        = "chat"
	OperationRunScenario = "run_scenario"
)

// NewChatSpanName creates a new chat span name.
func NewChatSpanName(requestModel string) string {
	return newInferenceSpanName(OperationChat, requestModel)
}

// NewExecuteToolSpanName creates a new execute tool span name.
func NewExecuteToolSpanName(toolName string) string {
	return fmt.Sprintf("%s %s", OperationExecuteTool, toolName)
}

// NewRunScenarioSpanName creates a new scenario run span name.
func NewRunScenarioSpanName(scenarioID string) string {
	return fmt.Sprintf("%s %s", OperationRunScenario, scenarioID)
}

// newInferenceSpanName creates a new inference span name.
// For example, "chat gpt-4.0".
func newInferenceSpanName(operationName, requestModel string) string {
	if requestModel == "" {
		return operationName
	}
	return fmt.Sprintf("%s %s", operationName, requestModel)
}

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Telemetry attribute keys aliases from semconv package.
var (
	ResourceServiceNamespace = semconvtrace.ResourceServiceNamespace
	ResourceServiceName      = semconvtrace.ResourceServiceName
	ResourceServiceVersion   = semconvtrace.ResourceServiceVersion

	KeyLLMRequest  = semconvtrace.KeyLLMRequest
	KeyLLMResponse = semconvtrace.KeyLLMResponse

	KeyRunnerName       = semconvtrace.KeyRunnerName
	KeyRunnerScenarioID = semconvtrace.KeyRunnerScenarioID
	KeyRunnerInput      = semconvtrace.KeyRunnerInput
	KeyRunnerOutput     = semconvtrace.KeyRunnerOutput

	KeyGenAIOperationName = semconvtrace.KeyGenAIOperationName
	KeyGenAISystem        = semconvtrace.KeyGenAISystem

	KeyGenAIRequestModel            = semconvtrace.KeyGenAIRequestModel
	KeyGenAITokenType               = semconvtrace.KeyGenAITokenType
	KeyGenAIRequestChoiceCount      = semconvtrace.KeyGenAIRequestChoiceCount
	KeyGenAIInputMessages           = semconvtrace.KeyGenAIInputMessages
	KeyGenAIOutputMessages          = semconvtrace.KeyGenAIOutputMessages
	KeyGenAIConversationID          = semconvtrace.KeyGenAIConversationID
	KeyGenAIUsageOutputTokens       = semconvtrace.KeyGenAIUsageOutputTokens
	KeyGenAIUsageInputTokens        = semconvtrace.KeyGenAIUsageInputTokens
	KeyGenAIResponseFinishReasons   = semconvtrace.KeyGenAIResponseFinishReasons
	KeyGenAIResponseID              = semconvtrace.KeyGenAIResponseID
	KeyGenAIResponseModel           = semconvtrace.KeyGenAIResponseModel
	KeyGenAIRequestStopSequences    = semconvtrace.KeyGenAIRequestStopSequences
	KeyGenAIRequestFrequencyPenalty = semconvtrace.KeyGenAIRequestFrequencyPenalty
	KeyGenAIRequestMaxTokens        = semconvtrace.KeyGenAIRequestMaxTokens
	KeyGenAIRequestPresencePenalty  = semconvtrace.KeyGenAIRequestPresencePenalty
	KeyGenAIRequestTemperature      = semconvtrace.KeyGenAIRequestTemperature
	KeyGenAIRequestTopP             = semconvtrace.KeyGenAIRequestTopP
	KeyGenAIRequestToolDefinitions  = "gen_ai.request.tool.definitions"

	KeyGenAIToolName          = semconvtrace.KeyGenAIToolName
	KeyGenAIToolDescription   = semconvtrace.KeyGenAIToolDescription
	KeyGenAIToolCallID        = semconvtrace.KeyGenAIToolCallID
	KeyGenAIToolCallArguments = semconvtrace.KeyGenAIToolCallArguments
	KeyGenAIToolCallResult    = semconvtrace.KeyGenAIToolCallResult

	KeyErrorType          = semconvtrace.KeyErrorType
	KeyErrorMessage       = semconvtrace.KeyErrorMessage
	ValueDefaultErrorType = semconvtrace.ValueDefaultErrorType

	SystemTRPCGoAgent = semconvtrace.SystemTRPCGoAgent
)

// TraceToolCall traces the invocation of a tool call.
func TraceToolCall(span trace.Span, declaration *tool.Declaration, callID string, args []byte, result string, err error) {
	span.SetAttributes(
		attribute.String(KeyGenAISystem, SystemTRPCGoAgent),
		attribute.String(KeyGenAIOperationName, OperationExecuteTool),
		attribute.String(KeyGenAIToolName, declaration.Name),
		attribute.String(KeyGenAIToolDescription, declaration.Description),
		attribute.String(KeyGenAIToolCallID, callID),
	)

	// args is json-encoded.
	span.SetAttributes(attribute.String(KeyGenAIToolCallArguments, string(args)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.String(KeyErrorType, ToErrorType(err, ValueDefaultErrorType)),
			attribute.String(KeyErrorMessage, err.Error()),
		)
	} else {
		span.SetAttributes(attribute.String(KeyGenAIToolCallResult, result))
	}

	// Setting empty llm request and response (as UI expect these) while not
	// applicable for tool_response.
	span.SetAttributes(
		attribute.String(KeyLLMRequest, "{}"),
		attribute.String(KeyLLMResponse, "{}"),
	)
}

// TraceChat traces the invocation of an LLM call.
func TraceChat(span trace.Span, modelName string, req *model.Request, rsp *model.Response, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(KeyGenAISystem, SystemTRPCGoAgent),
		attribute.String(KeyGenAIOperationName, OperationChat),
		attribute.String(KeyGenAIRequestModel, modelName),
	}

	// Add request attributes
	attrs = append(attrs, buildRequestAttributes(req)...)

	// Add response attributes
	attrs = append(attrs, buildResponseAttributes(rsp)...)

	// Set all attributes at once
	span.SetAttributes(attrs...)

	// Handle error status
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.String(KeyErrorType, ToErrorType(err, ValueDefaultErrorType)),
			attribute.String(KeyErrorMessage, err.Error()),
		)
	}
}

// buildRequestAttributes builds request-related attributes.
func buildRequestAttributes(req *model.Request) []attribute.KeyValue {
	if req == nil {
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.StringSlice(KeyGenAIRequestStopSequences, req.GenerationConfig.Stop),
		attribute.Int(KeyGenAIRequestChoiceCount, 1),
	}

	// Add generation config attributes
	genConfig := req.GenerationConfig
	if fp := genConfig.FrequencyPenalty; fp != nil {
		attrs = append(attrs, attribute.Float64(KeyGenAIRequestFrequencyPenalty, *fp))
	}
	if mt := genConfig.MaxTokens; mt != nil {
		attrs = append(attrs, attribute.Int(KeyGenAIRequestMaxTokens, *mt))
	}
	if pp := genConfig.PresencePenalty; pp != nil {
		attrs = append(attrs, attribute.Float64(KeyGenAIRequestPresencePenalty, *pp))
	}
	if tp := genConfig.Temperature; tp != nil {
		attrs = append(attrs, attribute.Float64(KeyGenAIRequestTemperature, *tp))
	}
	if tp := genConfig.TopP; tp != nil {
		attrs = append(attrs, attribute.Float64(KeyGenAIRequestTopP, *tp))
	}

	// Add request body
	if bts, err := json.Marshal(req); err == nil {
		attrs = append(attrs, attribute.String(KeyLLMRequest, string(bts)))
	} else {
		attrs = append(attrs, attribute.String(KeyLLMRequest, "<not json serializable>"))
	}

	// Add tool definitions as best-effort structured array (JSON string fallback)
	if len(req.Tools) > 0 {
		if bts, err := json.Marshal(req.Tools); err == nil {
			attrs = append(attrs, attribute.String(KeyGenAIRequestToolDefinitions, string(bts)))
		}
	}

	// Add messages
	if bts, err := json.Marshal(req.Messages); err == nil {
		attrs = append(attrs, attribute.String(KeyGenAIInputMessages, string(bts)))
	} else {
		attrs = append(attrs, attribute.String(KeyGenAIInputMessages, "<not json serializable>"))
	}

	return attrs
}

// buildResponseAttributes builds response-related attributes.
func buildResponseAttributes(rsp *model.Response) []attribute.KeyValue {
	if rsp == nil {
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.String(KeyGenAIResponseModel, rsp.Model),
		attribute.String(KeyGenAIResponseID, rsp.ID),
	}

	// Add usage attributes
	if rsp.Usage != nil {
		attrs = append(attrs,
			attribute.Int(KeyGenAIUsageInputTokens, rsp.Usage.PromptTokens),
			attribute.Int(KeyGenAIUsageOutputTokens, rsp.Usage.CompletionTokens),
		)
	}

	// Add choices attributes
	if len(rsp.Choices) > 0 {
		if bts, err := json.Marshal(rsp.Choices); err == nil {
			attrs = append(attrs, attribute.String(KeyGenAIOutputMessages, string(bts)))
		}

		// Extract finish reasons
		finishReasons := make([]string, 0, len(rsp.Choices))
		for _, choice := range rsp.Choices {
			if choice.FinishReason != nil {
				finishReasons = append(finishReasons, *choice.FinishReason)
			} else {
				finishReasons = append(finishReasons, "")
			}
		}
		attrs = append(attrs, attribute.StringSlice(KeyGenAIResponseFinishReasons, finishReasons))
	}

	// Add response body
	if bts, err := json.Marshal(rsp); err == nil {
		attrs = append(attrs, attribute.String(KeyLLMResponse, string(bts)))
	} else {
		attrs = append(attrs, attribute.String(KeyLLMResponse, "<not json serializable>"))
	}

	return attrs
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// It connects the OpenTelemetry Collector through gRPC connection.
	conn, err := grpcDial(endpoint,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}

	return conn, err
}
