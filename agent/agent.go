//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package agent implements the tool-calling conversation loop that drives an
// evaluation run. The loop sends the conversation to the model, executes any
// requested tool calls through the gateway one at a time, feeds the
// normalized results back to the model and repeats until the model produces
// a final answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trpc.group/trpc-go/trpc-agent-eval-go/gateway"
	"trpc.group/trpc-go/trpc-agent-eval-go/internal/jsonrepair"
	itelemetry "trpc.group/trpc-go/trpc-agent-eval-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
	"trpc.group/trpc-go/trpc-agent-eval-go/metric"
	"trpc.group/trpc-go/trpc-agent-eval-go/model"
	"trpc.group/trpc-go/trpc-agent-eval-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-agent-eval-go/tool"
)

// Loop orchestrates one conversation between a model and a tool gateway.
// A Loop is safe to reuse across runs; each Run owns its own conversation,
// tool list copy and metrics recorder.
type Loop struct {
	model   model.Model
	gateway gateway.Gateway
	options options
}

// options holds the configuration for a Loop.
type options struct {
	activationTools  map[string]struct{}
	maxRounds        int
	generationConfig model.GenerationConfig
}

// Option configures a Loop.
type Option func(*options)

// WithActivationTools sets the names of tools whose invocation changes the
// set of tools available on the gateway. After each call to one of them the
// loop re-fetches the tool list before the next model round.
func WithActivationTools(names ...string) Option {
	return func(opts *options) {
		if opts.activationTools == nil {
			opts.activationTools = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			opts.activationTools[name] = struct{}{}
		}
	}
}

// WithMaxRounds bounds the number of model rounds in a single run.
// Zero (the default) leaves the loop unbounded; it then runs until the model
// stops requesting tools. Exceeding a non-zero bound fails the run.
func WithMaxRounds(n int) Option {
	return func(opts *options) {
		opts.maxRounds = n
	}
}

// WithGenerationConfig sets the generation parameters sent with every model
// request.
func WithGenerationConfig(cfg model.GenerationConfig) Option {
	return func(opts *options) {
		opts.generationConfig = cfg
	}
}

// New creates a conversation loop over the given model and gateway.
// Both collaborators are borrowed: the loop never closes the gateway.
func New(m model.Model, gw gateway.Gateway, opt ...Option) *Loop {
	opts := options{}
	for _, o := range opt {
		o(&opts)
	}
	return &Loop{
		model:   m,
		gateway: gw,
		options: opts,
	}
}

// Result is the outcome of one conversation run.
type Result struct {
	// FinalText is the content of the model's final answer, empty when the
	// model finished without content.
	FinalText string

	// Metrics holds per-tool invocation counts and durations accumulated
	// over the conversation.
	Metrics map[string]*metric.ToolMetrics

	// Rounds is the number of model calls made.
	Rounds int

	// Usage aggregates token usage over all model calls.
	Usage model.Usage
}

// Run drives the conversation for one question until the model produces a
// final answer. The tool list is copied; the caller's slice is not mutated
// by refreshes. Model call failures are fatal and abort the run, tool
// execution failures are surfaced to the model as error text and the
// conversation continues.
func (l *Loop) Run(ctx context.Context, question string, tools []tool.Declaration, systemPrompt string) (*Result, error) {
	conversation := []model.Message{
		model.NewSystemMessage(systemPrompt),
		model.NewUserMessage(question),
	}
	currentTools := make([]tool.Declaration, len(tools))
	copy(currentTools, tools)

	recorder := metric.NewRecorder()
	modelName := l.model.Info().Name
	var usage model.Usage

	for round := 1; ; round++ {
		if l.options.maxRounds > 0 && round > l.options.maxRounds {
			return nil, fmt.Errorf("conversation exceeded %d rounds without a final answer", l.options.maxRounds)
		}

		rsp, err := l.chat(ctx, modelName, conversation, currentTools)
		if err != nil {
			return nil, fmt.Errorf("model call failed in round %d: %w", round, err)
		}
		usage.Add(rsp.Usage)

		choice := rsp.Choices[0]
		conversation = append(conversation, choice.Message)

		if !rsp.RequestsToolCalls() {
			return &Result{
				FinalText: choice.Message.Content,
				Metrics:   recorder.Snapshot(),
				Rounds:    round,
				Usage:     usage,
			}, nil
		}

		// Dispatch the requested tool calls one at a time, in the order the
		// model emitted them. Every call gets a tool message, even on
		// failure, to keep the call/result correlation intact.
		for _, call := range choice.Message.ToolCalls {
			name := call.Function.Name
			text := l.executeToolCall(ctx, modelName, recorder, declarationFor(currentTools, name), call)
			conversation = append(conversation, model.NewToolMessage(call.ID, name, text))

			if _, ok := l.options.activationTools[name]; !ok {
				continue
			}
			refreshed, err := l.gateway.ListTools(ctx)
			if err != nil {
				log.Warnf("Tool list refresh after %s failed, keeping previous list: %v", name, err)
				continue
			}
			currentTools = refreshed
		}
	}
}

// chat sends the conversation to the model and validates the response shape.
func (l *Loop) chat(ctx context.Context, modelName string, conversation []model.Message, tools []tool.Declaration) (*model.Response, error) {
	request := &model.Request{
		Messages:         conversation,
		GenerationConfig: l.options.generationConfig,
		Tools:            tool.AdaptAll(tools),
	}

	_, span := trace.Tracer.Start(ctx, itelemetry.NewChatSpanName(modelName))
	defer span.End()

	itelemetry.IncChatRequestCnt(ctx, modelName)
	start := time.Now()
	rsp, err := l.model.Chat(ctx, request)
	itelemetry.RecordChatRequestDuration(ctx, modelName, time.Since(start))
	if err == nil && len(rsp.Choices) == 0 {
		err = &model.ResponseError{
			Message: "model response has no choices",
			Type:    model.ErrorTypeMalformedResponse,
		}
	}
	itelemetry.TraceChat(span, modelName, request, rsp, err)
	if err != nil {
		return nil, err
	}
	if rsp.Usage != nil {
		itelemetry.RecordChatInputTokenUsage(ctx, modelName, int64(rsp.Usage.PromptTokens))
		itelemetry.RecordChatOutputTokenUsage(ctx, modelName, int64(rsp.Usage.CompletionTokens))
	}
	return rsp, nil
}

// executeToolCall dispatches one tool call and returns the text to feed back
// to the model. The elapsed duration is recorded whether the call succeeds
// or fails.
func (l *Loop) executeToolCall(ctx context.Context, modelName string, recorder *metric.Recorder,
	declaration *tool.Declaration, call model.ToolCall) string {
	name := call.Function.Name

	_, span := trace.Tracer.Start(ctx, itelemetry.NewExecuteToolSpanName(name))
	defer span.End()

	start := time.Now()
	text, err := l.callTool(ctx, name, call.Function.Arguments)
	elapsed := time.Since(start)

	recorder.Record(name, elapsed)
	itelemetry.IncExecuteToolRequestCnt(ctx, modelName, name)
	itelemetry.RecordExecuteToolOperationDuration(ctx, modelName, name, elapsed)

	if err != nil {
		log.Errorf("Failed to execute tool %s: %v", name, err)
		text = fmt.Sprintf("Error executing tool %s: %s", name, err.Error())
	}
	itelemetry.TraceToolCall(span, declaration, call.ID, call.Function.Arguments, text, err)
	return text
}

// callTool parses the call arguments, invokes the gateway and normalizes the
// raw result. Arguments that are not valid JSON go through repair first;
// arguments that stay unparseable fail the call and the error text goes back
// to the model.
func (l *Loop) callTool(ctx context.Context, name string, arguments []byte) (string, error) {
	args := map[string]any{}
	if len(arguments) > 0 {
		repaired := jsonrepair.RepairToolCallArguments(name, arguments)
		if err := json.Unmarshal(repaired, &args); err != nil {
			return "", fmt.Errorf("malformed tool arguments: %w", err)
		}
	}
	raw, err := l.gateway.CallTool(ctx, name, args)
	if err != nil {
		return "", err
	}
	return NormalizeToolResult(raw), nil
}

// declarationFor finds the declaration for a tool name in the current list.
// Unknown names get a synthesized declaration so tracing stays usable.
func declarationFor(tools []tool.Declaration, name string) *tool.Declaration {
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i]
		}
	}
	return &tool.Declaration{Name: name}
}
