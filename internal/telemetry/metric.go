package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"trpc.group/trpc-go/trpc-agent-eval-go/telemetry/semconv/metrics"
)

var (
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	ChatMeter                              metric.Meter            = MeterProvider.Meter(metrics.MeterNameChat)
	ChatMetricTRPCAgentGoClientRequestCnt  metric.Int64Counter     = noop.Int64Counter{}
	ChatMetricGenAIClientTokenUsage        metric.Int64Histogram   = noop.Int64Histogram{}
	ChatMetricGenAIClientOperationDuration metric.Float64Histogram = noop.Float64Histogram{}
)

func IncChatRequestCnt(ctx context.Context, modelName string) {
	ChatMetricTRPCAgentGoClientRequestCnt.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyGenAIOperationName, OperationChat),
			attribute.String(KeyGenAISystem, modelName),
		))
}

func RecordChatInputTokenUsage(ctx context.Context, modelName string, usage int64) {
	recordChatTokenUsage(ctx, modelName, usage, metrics.KeyTRPCAgentGoInputTokenType)
}

func RecordChatOutputTokenUsage(ctx context.Context, modelName string, usage int64) {
	recordChatTokenUsage(ctx, modelName, usage, metrics.KeyTRPCAgentGoOutputTokenType)
}

func recordChatTokenUsage(ctx context.Context, modelName string, usage int64, tokenType string) {
	ChatMetricGenAIClientTokenUsage.Record(ctx, usage,
		metric.WithAttributes(attribute.String(KeyGenAIOperationName, OperationChat),
			attribute.String(KeyGenAISystem, modelName),
			attribute.String(KeyGenAITokenType, tokenType),
		))
}

func RecordChatRequestDuration(ctx context.Context, modelName string, duration time.Duration) {
	ChatMetricGenAIClientOperationDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(KeyGenAIOperationName, OperationChat),
			attribute.String(KeyGenAISystem, modelName),
		))
}

var (
	ExecuteToolMeter                              metric.Meter            = MeterProvider.Meter(metrics.MeterNameExecuteTool)
	ExecuteToolMetricTRPCAgentGoClientRequestCnt  metric.Int64Counter     = noop.Int64Counter{}
	ExecuteToolMetricGenAIClientOperationDuration metric.Float64Histogram = noop.Float64Histogram{}
)

func IncExecuteToolRequestCnt(ctx context.Context, modelName string, toolName string) {
	ExecuteToolMetricTRPCAgentGoClientRequestCnt.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyGenAIOperationName, OperationExecuteTool),
			attribute.String(KeyGenAISystem, modelName),
			attribute.String(KeyGenAIToolName, toolName),
		))
}

func RecordExecuteToolOperationDuration(ctx context.Context, modelName string, toolName string, duration time.Duration) {
	ExecuteToolMetricGenAIClientOperationDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(KeyGenAIOperationName, OperationExecuteTool),
			attribute.String(KeyGenAISystem, modelName),
			attribute.String(KeyGenAIToolName, toolName),
		))
}
