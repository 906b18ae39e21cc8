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
	"context"
	"fmt"
	"net/http"
	"sync"

	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"trpc.group/trpc-go/trpc-agent-eval-go/log"
	"trpc.group/trpc-go/trpc-agent-eval-go/tool"
)

// MCPGateway implements Gateway over an MCP session.
//
// The connection is established lazily on first use and kept open
// until Close. Tool declarations are normalized into the canonical
// form at this boundary; the rest of the code never sees wire-format
// tool records.
type MCPGateway struct {
	config  gatewayConfig
	session *sessionManager
}

var _ Gateway = (*MCPGateway)(nil)

// New creates a gateway for the given connection configuration.
func New(connection ConnectionConfig, opt ...Option) (*MCPGateway, error) {
	if err := connection.validate(); err != nil {
		return nil, fmt.Errorf("invalid gateway configuration: %w", err)
	}
	config := gatewayConfig{connectionConfig: connection}
	for _, o := range opt {
		o(&config)
	}
	return &MCPGateway{
		config:  config,
		session: newSessionManager(connection, config.mcpOptions),
	}, nil
}

// ListTools implements Gateway.
func (g *MCPGateway) ListTools(ctx context.Context) ([]tool.Declaration, error) {
	if err := g.session.connect(ctx); err != nil {
		return nil, err
	}

	result, err := executeWithRetry(ctx, g.config.retryConfig, func() (any, error) {
		return g.session.listTools(ctx)
	}, "list_tools")
	if err != nil {
		return nil, err
	}

	rawTools := result.([]mcp.Tool)
	declarations := make([]tool.Declaration, 0, len(rawTools))
	for i := range rawTools {
		declaration, err := tool.NormalizeDeclaration(rawTools[i])
		if err != nil {
			log.Warnf("Skipping tool with unusable declaration: %v", err)
			continue
		}
		declarations = append(declarations, *declaration)
	}
	return declarations, nil
}

// CallTool implements Gateway. The returned value is the raw
// *mcp.CallToolResult; callers normalize it into text themselves.
func (g *MCPGateway) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	if err := g.session.connect(ctx); err != nil {
		return nil, err
	}

	return executeWithRetry(ctx, g.config.retryConfig, func() (any, error) {
		return g.session.callTool(ctx, name, args)
	}, "call_tool "+name)
}

// IsConnected returns whether the gateway session is connected and initialized.
func (g *MCPGateway) IsConnected() bool {
	return g.session.isConnected()
}

// Close implements Gateway.
func (g *MCPGateway) Close() error {
	return g.session.close()
}

// sessionManager manages the MCP client connection and session.
type sessionManager struct {
	config      ConnectionConfig
	mcpOptions  []mcp.ClientOption
	client      mcp.Connector
	mu          sync.RWMutex
	connected   bool
	initialized bool
}

// newSessionManager creates a new session manager.
func newSessionManager(config ConnectionConfig, mcpOptions []mcp.ClientOption) *sessionManager {
	return &sessionManager{
		config:     config,
		mcpOptions: mcpOptions,
	}
}

// connect establishes the connection to the gateway.
func (m *sessionManager) connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return nil
	}

	log.Infof("Connecting to gateway via %s transport", m.config.Transport)

	client, err := m.createClient()
	if err != nil {
		return fmt.Errorf("failed to create MCP client: %w", err)
	}

	m.client = client
	m.connected = true

	// Initialize the session.
	if err := m.initialize(ctx); err != nil {
		m.connected = false
		if closeErr := client.Close(); closeErr != nil {
			log.Errorf("Failed to close client after initialization failure: %v", closeErr)
		}
		return fmt.Errorf("failed to initialize MCP session: %w", err)
	}
	return nil
}

// createClient creates the appropriate MCP client based on transport configuration.
func (m *sessionManager) createClient() (mcp.Connector, error) {
	clientInfo := m.config.ClientInfo
	if clientInfo.Name == "" {
		clientInfo = defaultClientInfo
	}

	transportType, err := validateTransport(m.config.Transport)
	if err != nil {
		return nil, err
	}

	switch transportType {
	case transportStdio:
		config := mcp.StdioTransportConfig{
			ServerParams: mcp.StdioServerParameters{
				Command: m.config.Command,
				Args:    m.config.Args,
			},
			Timeout: m.config.Timeout,
		}
		return mcp.NewStdioClient(config, clientInfo)

	case transportStreamable:
		options := []mcp.ClientOption{
			mcp.WithClientLogger(mcp.GetDefaultLogger()),
		}

		if len(m.config.Headers) > 0 {
			headers := http.Header{}
			for k, v := range m.config.Headers {
				headers.Set(k, v)
			}
			options = append(options, mcp.WithHTTPHeaders(headers))
		}
		options = append(options, m.mcpOptions...)

		return mcp.NewClient(m.config.ServerURL, clientInfo, options...)

	default:
		return nil, fmt.Errorf("unsupported transport: %s", m.config.Transport)
	}
}

// initialize initializes the MCP session.
func (m *sessionManager) initialize(ctx context.Context) error {
	if m.initialized {
		return nil
	}

	initReq := &mcp.InitializeRequest{}
	initResp, err := m.client.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	log.Infof("Gateway session initialized: server=%s version=%s protocol=%s",
		initResp.ServerInfo.Name, initResp.ServerInfo.Version, initResp.ProtocolVersion)

	m.initialized = true
	return nil
}

// listTools retrieves the list of available tools from the gateway.
func (m *sessionManager) listTools(ctx context.Context) ([]mcp.Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected || !m.initialized {
		return nil, fmt.Errorf("MCP session not connected or initialized")
	}

	listReq := &mcp.ListToolsRequest{}
	listResp, err := m.client.ListTools(ctx, listReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	log.Debugf("Listed %d tools from gateway", len(listResp.Tools))
	return listResp.Tools, nil
}

// callTool executes a tool call on the gateway. The raw result is
// returned unchanged, including results whose IsError flag is set:
// tool-reported errors are content for the model, not Go errors.
func (m *sessionManager) callTool(ctx context.Context, name string, arguments map[string]any) (*mcp.CallToolResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected || !m.initialized {
		return nil, fmt.Errorf("MCP session not connected or initialized")
	}

	log.Debugf("Calling tool %s", name)

	callReq := &mcp.CallToolRequest{}
	callReq.Params.Name = name
	callReq.Params.Arguments = arguments

	callResp, err := m.client.CallTool(ctx, callReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call tool %s: %w", name, err)
	}

	log.Debugf("Tool %s returned %d content items", name, len(callResp.Content))
	return callResp, nil
}

// close closes the MCP session and client connection.
func (m *sessionManager) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected || m.client == nil {
		return nil
	}

	log.Info("Closing gateway session")

	err := m.client.Close()
	m.connected = false
	m.initialized = false
	m.client = nil

	if err != nil {
		return fmt.Errorf("failed to close MCP client: %w", err)
	}
	return nil
}

// isConnected returns whether the session is connected and initialized.
func (m *sessionManager) isConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected && m.initialized
}
