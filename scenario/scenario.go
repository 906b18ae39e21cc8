//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package scenario loads evaluation scenarios from YAML and runs them
// through the conversation loop, scoring each extracted answer against
// the acceptable values the scenario declares.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is one evaluation task handed to the agent.
type Scenario struct {
	// ID uniquely identifies the scenario within a file.
	ID string `yaml:"id" json:"id"`
	// Name is the human readable scenario name used in reports.
	Name string `yaml:"name" json:"name"`
	// Task is the question handed to the agent.
	Task string `yaml:"task" json:"task"`
	// Validation holds the pass criteria for the final answer.
	Validation Validation `yaml:"validation" json:"validation"`
}

// Validation describes how a scenario's final answer is scored.
type Validation struct {
	// ResponseMustContain lists the acceptable answers. The scenario
	// passes when any of them occurs in the extracted answer, compared
	// case insensitively. Without non-empty entries the scenario passes
	// as soon as the run completes, which covers graceful-failure
	// scenarios that only assert the agent finishes.
	ResponseMustContain []string `yaml:"response_must_contain" json:"response_must_contain"`
}

// Matches reports whether the answer satisfies the validation.
func (v Validation) Matches(answer string) bool {
	lower := strings.ToLower(answer)
	hasExpectation := false
	for _, want := range v.ResponseMustContain {
		if want == "" {
			continue
		}
		hasExpectation = true
		if strings.Contains(lower, strings.ToLower(want)) {
			return true
		}
	}
	return !hasExpectation
}

// file is the YAML document shape.
type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load reads scenarios from a YAML file. The file must contain at least
// one scenario and every scenario needs a unique id and a task.
func Load(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	if len(doc.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s contains no scenarios", path)
	}
	seen := make(map[string]struct{}, len(doc.Scenarios))
	for i, sc := range doc.Scenarios {
		if sc.ID == "" {
			return nil, fmt.Errorf("scenario at index %d has no id", i)
		}
		if sc.Task == "" {
			return nil, fmt.Errorf("scenario %s has no task", sc.ID)
		}
		if _, ok := seen[sc.ID]; ok {
			return nil, fmt.Errorf("duplicate scenario id %s", sc.ID)
		}
		seen[sc.ID] = struct{}{}
	}
	return doc.Scenarios, nil
}

// DefaultSystemPrompt is the system prompt sent with every scenario
// unless the runner is configured with another one. It instructs the
// model to discover tools through the gateway and to wrap its output in
// the tags the runner extracts.
const DefaultSystemPrompt = `You are an AI assistant with access to tools via a tool gateway.

Your primary goal is to solve the user's request using the available tools.

## TOOL DISCOVERY WORKFLOW

1. **Check active tools first**: list the tools you already have before searching for more.
2. **Search for tools**: use the gateway's discovery tool with a short query like "search" or "github" to find more.
3. **Add tools**: activate tools by their SERVER NAME (e.g. "brave-search", NOT "brave_web_search").
4. **Use tools**: call the tool functions with the EXACT argument names from their schemas.

## ERROR RECOVERY

If a tool returns "Invalid arguments":
1. Check the tool's input schema for required parameters
2. Verify you're using the exact parameter names (case-sensitive)
3. Ensure required parameters are provided
4. Try with minimal required arguments first

## OUTPUT FORMAT

When given a task, you MUST:
1. Use the available tools to complete the task
2. Provide summary of each step in your approach, wrapped in <summary> tags
3. Provide feedback on the tools provided, wrapped in <feedback> tags
4. Provide your final response, wrapped in <response> tags

Summary Requirements:
- In your <summary> tags, explain the steps you took, which tools you used, and why.

Feedback Requirements:
- In your <feedback> tags, provide constructive feedback on tool usability.

Response Requirements:
- Your response should be concise and directly address what was asked
- Always wrap your final response in <response> tags
- If you cannot solve the task return <response>NOT_FOUND</response>
- For names or text, provide the exact text requested
- Your response should go last`
