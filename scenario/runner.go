//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"trpc.group/trpc-go/trpc-agent-eval-go/agent"
	"trpc.group/trpc-go/trpc-agent-eval-go/gateway"
	itelemetry "trpc.group/trpc-go/trpc-agent-eval-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-agent-eval-go/log"
	"trpc.group/trpc-go/trpc-agent-eval-go/metric"
	"trpc.group/trpc-go/trpc-agent-eval-go/model"
	"trpc.group/trpc-go/trpc-agent-eval-go/telemetry/trace"
)

// Runner executes scenarios against one model and one shared gateway
// session, strictly in order. Ordering matters: activation tools invoked
// in an earlier scenario change the tool set later scenarios see, so the
// runner re-fetches the tool list before every scenario.
type Runner struct {
	model   model.Model
	gateway gateway.Gateway
	options options
}

// options holds the configuration for a Runner.
type options struct {
	systemPrompt string
	loopOptions  []agent.Option
}

// Option configures a Runner.
type Option func(*options)

// WithSystemPrompt overrides the system prompt sent with every scenario.
func WithSystemPrompt(prompt string) Option {
	return func(opts *options) {
		opts.systemPrompt = prompt
	}
}

// WithLoopOptions forwards options to the conversation loop, e.g.
// activation tool names or a round bound.
func WithLoopOptions(opt ...agent.Option) Option {
	return func(opts *options) {
		opts.loopOptions = append(opts.loopOptions, opt...)
	}
}

// New creates a runner. The gateway is borrowed for the lifetime of the
// run; the caller owns it and closes it after the summary is produced.
func New(m model.Model, gw gateway.Gateway, opt ...Option) *Runner {
	opts := options{systemPrompt: DefaultSystemPrompt}
	for _, o := range opt {
		o(&opts)
	}
	return &Runner{
		model:   m,
		gateway: gw,
		options: opts,
	}
}

// Run executes the scenarios in order and returns the aggregated
// summary. A failure inside one scenario, including a model call
// failure, marks that case failed with the error recorded and the run
// continues with the remaining scenarios.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*Summary, error) {
	if len(scenarios) == 0 {
		return nil, errors.New("no scenarios to run")
	}
	summary := &Summary{
		RunID:     uuid.NewString(),
		Model:     r.model.Info().Name,
		StartedAt: time.Now(),
		Total:     len(scenarios),
	}
	loop := agent.New(r.model, r.gateway, r.options.loopOptions...)
	for i := range scenarios {
		result := r.runScenario(ctx, loop, &scenarios[i])
		if result.Passed {
			summary.Passed++
		}
		summary.Cases = append(summary.Cases, result)
	}
	log.Infof("Evaluation run %s finished: %d/%d passed", summary.RunID, summary.Passed, summary.Total)
	return summary, nil
}

// runScenario drives one scenario to completion and scores it. It never
// fails; errors are recorded on the case result.
func (r *Runner) runScenario(ctx context.Context, loop *agent.Loop, sc *Scenario) *CaseResult {
	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewRunScenarioSpanName(sc.ID))
	defer span.End()
	span.SetAttributes(
		attribute.String(itelemetry.KeyRunnerName, sc.Name),
		attribute.String(itelemetry.KeyRunnerScenarioID, sc.ID),
		attribute.String(itelemetry.KeyRunnerInput, sc.Task),
	)

	result := &CaseResult{
		ID:              sc.ID,
		Name:            sc.Name,
		Task:            sc.Task,
		ExpectedAnswers: sc.Validation.ResponseMustContain,
	}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start).Seconds()
	}()

	log.Infof("Running scenario %s: %s", sc.ID, sc.Name)

	// Fetch the tool list fresh so activation state from earlier
	// scenarios in the shared session is visible.
	tools, err := r.gateway.ListTools(ctx)
	if err != nil {
		log.Errorf("Scenario %s failed to list tools: %v", sc.ID, err)
		result.Error = err.Error()
		return result
	}
	run, err := loop.Run(ctx, sc.Task, tools, r.options.systemPrompt)
	if err != nil {
		log.Errorf("Scenario %s failed: %v", sc.ID, err)
		result.Error = err.Error()
		return result
	}

	result.Response = run.FinalText
	result.Answer = ExtractTag(run.FinalText, "response")
	result.Summary = ExtractTag(run.FinalText, "summary")
	result.Feedback = ExtractTag(run.FinalText, "feedback")
	result.ToolMetrics = run.Metrics
	result.NumToolCalls = countToolCalls(run.Metrics)
	result.Passed = sc.Validation.Matches(result.Answer)

	span.SetAttributes(attribute.String(itelemetry.KeyRunnerOutput, run.FinalText))
	return result
}

// countToolCalls totals the tool invocations across all tools.
func countToolCalls(metrics map[string]*metric.ToolMetrics) int {
	total := 0
	for _, m := range metrics {
		total += len(m.Durations)
	}
	return total
}
