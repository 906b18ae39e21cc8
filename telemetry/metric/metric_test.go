//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"os"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	itelemetry "trpc.group/trpc-go/trpc-agent-eval-go/internal/telemetry"
)

// TestGRPCMetricsEndpoint validates metrics endpoint precedence rules.
func TestGRPCMetricsEndpoint(t *testing.T) {
	const (
		customEndpoint  = "custom-metric:4318"
		genericEndpoint = "generic-endpoint:4318"
	)

	origMetric := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
	origGeneric := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	defer func() {
		_ = os.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", origMetric)
		_ = os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", origGeneric)
	}()

	_ = os.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", customEndpoint)
	_ = os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", genericEndpoint)
	if ep := metricsEndpoint("grpc"); ep != customEndpoint {
		t.Fatalf("expected %s, got %s", customEndpoint, ep)
	}

	_ = os.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	_ = os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", genericEndpoint)
	if ep := metricsEndpoint("grpc"); ep != genericEndpoint {
		t.Fatalf("expected %s, got %s", genericEndpoint, ep)
	}

	_ = os.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	_ = os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	if ep := metricsEndpoint("grpc"); ep != "localhost:4317" {
		t.Fatalf("expected default gRPC endpoint localhost:4317, got %s", ep)
	}

	if ep := metricsEndpoint("http"); ep != "localhost:4318" {
		t.Fatalf("expected default HTTP endpoint localhost:4318, got %s", ep)
	}
}

func TestOptions(t *testing.T) {
	opts := &options{}
	WithEndpoint("ep:4317")(opts)
	WithProtocol("http")(opts)
	WithServiceName("svc")(opts)
	WithServiceNamespace("ns")(opts)
	WithServiceVersion("v1")(opts)

	if opts.metricsEndpoint != "ep:4317" {
		t.Errorf("expected endpoint ep:4317, got %s", opts.metricsEndpoint)
	}
	if opts.protocol != "http" {
		t.Errorf("expected protocol http, got %s", opts.protocol)
	}
	if opts.serviceName != "svc" || opts.serviceNamespace != "ns" || opts.serviceVersion != "v1" {
		t.Errorf("service overrides not applied: %+v", opts)
	}
}

func TestInitMeterProvider(t *testing.T) {
	// Save and restore the global state touched by InitMeterProvider.
	origProvider := itelemetry.MeterProvider
	origChatMeter := itelemetry.ChatMeter
	origChatCnt := itelemetry.ChatMetricTRPCAgentGoClientRequestCnt
	origChatUsage := itelemetry.ChatMetricGenAIClientTokenUsage
	origChatDur := itelemetry.ChatMetricGenAIClientOperationDuration
	origToolMeter := itelemetry.ExecuteToolMeter
	origToolCnt := itelemetry.ExecuteToolMetricTRPCAgentGoClientRequestCnt
	origToolDur := itelemetry.ExecuteToolMetricGenAIClientOperationDuration
	defer func() {
		itelemetry.MeterProvider = origProvider
		itelemetry.ChatMeter = origChatMeter
		itelemetry.ChatMetricTRPCAgentGoClientRequestCnt = origChatCnt
		itelemetry.ChatMetricGenAIClientTokenUsage = origChatUsage
		itelemetry.ChatMetricGenAIClientOperationDuration = origChatDur
		itelemetry.ExecuteToolMeter = origToolMeter
		itelemetry.ExecuteToolMetricTRPCAgentGoClientRequestCnt = origToolCnt
		itelemetry.ExecuteToolMetricGenAIClientOperationDuration = origToolDur
	}()

	mp := sdkmetric.NewMeterProvider()
	if err := InitMeterProvider(mp); err != nil {
		t.Fatalf("InitMeterProvider returned error: %v", err)
	}
	if itelemetry.MeterProvider != mp {
		t.Error("MeterProvider not set")
	}
	if _, ok := itelemetry.ChatMetricTRPCAgentGoClientRequestCnt.(noop.Int64Counter); ok {
		t.Error("chat request counter still noop after init")
	}
	if _, ok := itelemetry.ExecuteToolMetricGenAIClientOperationDuration.(noop.Float64Histogram); ok {
		t.Error("execute tool duration histogram still noop after init")
	}
}

func TestGetMeterProvider(t *testing.T) {
	if GetMeterProvider() != itelemetry.MeterProvider {
		t.Error("GetMeterProvider should return the global meter provider")
	}
}

func TestNewMeterProviderProtocols(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "gRPC endpoint",
			opts: []Option{WithEndpoint("localhost:4317"), WithProtocol("grpc")},
		},
		{
			name: "HTTP endpoint",
			opts: []Option{WithEndpoint("localhost:4318"), WithProtocol("http")},
		},
		{
			name: "default options",
			opts: []Option{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, err := NewMeterProvider(ctx, tt.opts...)
			if err != nil {
				t.Fatalf("NewMeterProvider returned error: %v", err)
			}
			if mp == nil {
				t.Fatal("expected non-nil meter provider")
			}
			// No collector is running in tests; shutdown errors are ignored.
			_ = mp.Shutdown(ctx)
		})
	}
}
