//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package gateway

import (
	"fmt"
	"time"

	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// transport specifies the transport method: "stdio", "streamable".
type transport string

const (
	// transportStdio is the stdio transport.
	transportStdio transport = "stdio"
	// transportStreamable is the streamable HTTP transport.
	transportStreamable transport = "streamable"
)

// Default configurations.
var (
	defaultClientInfo = mcp.Implementation{
		Name:    "trpc-agent-eval-go",
		Version: "1.0.0",
	}

	// defaultRetryConfig provides sensible defaults for retry configuration.
	defaultRetryConfig = RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		BackoffFactor:  2.0,
		MaxBackoff:     8 * time.Second,
	}
)

// ConnectionConfig defines the configuration for connecting to a gateway.
type ConnectionConfig struct {
	// Transport specifies the transport method: "stdio", "streamable".
	Transport string `json:"transport"`

	// Streamable configuration.
	ServerURL string            `json:"server_url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`

	// STDIO configuration.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// Common configuration.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Advanced configuration.
	ClientInfo mcp.Implementation `json:"client_info,omitempty"`
}

// validate checks that the configuration is complete for its transport.
func (c *ConnectionConfig) validate() error {
	transportType, err := validateTransport(c.Transport)
	if err != nil {
		return err
	}
	switch transportType {
	case transportStdio:
		if c.Command == "" {
			return fmt.Errorf("stdio transport requires a command")
		}
	case transportStreamable:
		if c.ServerURL == "" {
			return fmt.Errorf("streamable transport requires a server URL")
		}
	}
	return nil
}

// RetryConfig defines configuration for gateway call retry behavior.
type RetryConfig struct {
	// MaxRetries specifies the maximum number of retry attempts.
	MaxRetries int `json:"max_retries"`

	// InitialBackoff specifies the initial backoff duration before the first retry.
	InitialBackoff time.Duration `json:"initial_backoff"`

	// BackoffFactor specifies the factor to multiply the backoff duration for each retry.
	// For example, with factor 2.0: 100ms -> 200ms -> 400ms -> 800ms
	BackoffFactor float64 `json:"backoff_factor"`

	// MaxBackoff specifies the maximum backoff duration to cap exponential growth.
	MaxBackoff time.Duration `json:"max_backoff"`
}

// gatewayConfig holds internal configuration for MCPGateway.
type gatewayConfig struct {
	connectionConfig ConnectionConfig
	mcpOptions       []mcp.ClientOption
	retryConfig      *RetryConfig
}

// Option is a function type for configuring MCPGateway.
type Option func(*gatewayConfig)

// WithMCPOptions sets additional MCP client options.
// This can be used to pass options to the underlying MCP client.
func WithMCPOptions(options ...mcp.ClientOption) Option {
	return func(c *gatewayConfig) {
		c.mcpOptions = append(c.mcpOptions, options...)
	}
}

// WithSimpleRetry configures simple retry behavior with default settings.
// This is the recommended way to enable basic retry functionality.
// maxRetries must be between 0 and 10 (inclusive).
//
// Example:
//
//	gw, err := gateway.New(
//	    config,
//	    gateway.WithSimpleRetry(3), // Retry up to 3 times
//	)
func WithSimpleRetry(maxRetries int) Option {
	return func(c *gatewayConfig) {
		if maxRetries < 0 {
			maxRetries = 0
		} else if maxRetries > 10 {
			maxRetries = 10
		}

		config := defaultRetryConfig
		config.MaxRetries = maxRetries
		c.retryConfig = &config
	}
}

// WithRetry configures retry behavior with custom settings.
// All parameters are validated and clamped to reasonable ranges.
func WithRetry(config RetryConfig) Option {
	return func(c *gatewayConfig) {
		validated := validateRetryConfig(config)
		c.retryConfig = &validated
	}
}

// validateRetryConfig validates and sanitizes retry configuration values.
func validateRetryConfig(config RetryConfig) RetryConfig {
	validated := config

	// Validate MaxRetries: 0-10 range.
	if validated.MaxRetries < 0 {
		validated.MaxRetries = 0
	} else if validated.MaxRetries > 10 {
		validated.MaxRetries = 10
	}

	// Validate InitialBackoff: 1ms-30s range.
	if validated.InitialBackoff < time.Millisecond {
		validated.InitialBackoff = time.Millisecond
	} else if validated.InitialBackoff > 30*time.Second {
		validated.InitialBackoff = 30 * time.Second
	}

	// Validate BackoffFactor: 1.0-10.0 range.
	if validated.BackoffFactor < 1.0 {
		validated.BackoffFactor = 1.0
	} else if validated.BackoffFactor > 10.0 {
		validated.BackoffFactor = 10.0
	}

	// Validate MaxBackoff: InitialBackoff-5min range.
	minMaxBackoff := validated.InitialBackoff
	maxMaxBackoff := 5 * time.Minute
	if validated.MaxBackoff < minMaxBackoff {
		validated.MaxBackoff = minMaxBackoff
	} else if validated.MaxBackoff > maxMaxBackoff {
		validated.MaxBackoff = maxMaxBackoff
	}

	return validated
}

// validateTransport validates the transport string and returns the internal transport type.
func validateTransport(t string) (transport, error) {
	switch t {
	case "stdio":
		return transportStdio, nil
	case "streamable", "streamable_http":
		return transportStreamable, nil
	default:
		return "", fmt.Errorf("unsupported transport: %s, supported: stdio, streamable", t)
	}
}
