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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-eval-go/metric"
)

// timestampLayout names the report files, e.g. scenario_report_20250102_150405.md.
const timestampLayout = "20060102_150405"

// Summary aggregates the outcome of one evaluation run.
type Summary struct {
	// RunID uniquely identifies the run.
	RunID string `json:"runId"`
	// Model is the name of the evaluated model.
	Model string `json:"model"`
	// StartedAt is when the run started. It also stamps the report
	// filenames.
	StartedAt time.Time `json:"startedAt"`
	// Cases holds the per-scenario results in execution order.
	Cases []*CaseResult `json:"cases"`
	// Passed is the number of passed scenarios.
	Passed int `json:"passed"`
	// Total is the number of executed scenarios.
	Total int `json:"total"`
}

// CaseResult is the outcome of one scenario.
type CaseResult struct {
	// ID is the scenario id.
	ID string `json:"id"`
	// Name is the scenario name.
	Name string `json:"name"`
	// Task is the question handed to the agent.
	Task string `json:"task"`
	// Passed reports whether the answer satisfied the validation.
	Passed bool `json:"passed"`
	// Answer is the content of the final <response> tag, empty when the
	// model emitted none.
	Answer string `json:"answer"`
	// Response is the model's full final message.
	Response string `json:"response"`
	// Summary is the content of the final <summary> tag.
	Summary string `json:"summary"`
	// Feedback is the content of the final <feedback> tag.
	Feedback string `json:"feedback"`
	// ExpectedAnswers lists the acceptable answers from the scenario.
	ExpectedAnswers []string `json:"expectedAnswers"`
	// Duration is the wall-clock scenario duration in seconds.
	Duration float64 `json:"totalDuration"`
	// NumToolCalls is the total number of tool invocations.
	NumToolCalls int `json:"numToolCalls"`
	// ToolMetrics holds the per-tool counts and durations.
	ToolMetrics map[string]*metric.ToolMetrics `json:"toolCalls"`
	// Error is set when the scenario did not complete, e.g. on a model
	// call failure. An errored case never passes.
	Error string `json:"error,omitempty"`
}

// Markdown renders the human readable report.
func (s *Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Scenario Evaluation Report - %s\n\n", s.StartedAt.Format(timestampLayout))
	for _, c := range s.Cases {
		status := "✅"
		if !c.Passed {
			status = "❌"
		}
		fmt.Fprintf(&b, "## %s %s\n", c.Name, status)
		fmt.Fprintf(&b, "**Task**: %s\n\n", c.Task)
		fmt.Fprintf(&b, "**Summary**: %s\n\n", c.Summary)
		if c.Error != "" {
			fmt.Fprintf(&b, "**Error**: %s\n\n", c.Error)
		}
		b.WriteString("---\n\n")
	}
	fmt.Fprintf(&b, "\n## Overall Score: %d/%d (%d%%)\n", s.Passed, s.Total, s.percent())
	return b.String()
}

// percent is the integer-truncated pass rate.
func (s *Summary) percent() int {
	if s.Total == 0 {
		return 0
	}
	return 100 * s.Passed / s.Total
}

// Save writes the markdown report and the raw JSON results into dir,
// creating it if needed. The files are named scenario_report_<timestamp>.md
// and scenario_results_<timestamp>.json and written atomically so a
// concurrent reader never observes a partial file. It returns the two
// paths written.
func (s *Summary) Save(dir string) (reportPath, resultsPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	stamp := s.StartedAt.Format(timestampLayout)
	reportPath = filepath.Join(dir, fmt.Sprintf("scenario_report_%s.md", stamp))
	resultsPath = filepath.Join(dir, fmt.Sprintf("scenario_results_%s.json", stamp))

	if err := writeFileAtomic(reportPath, []byte(s.Markdown())); err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal results: %w", err)
	}
	if err := writeFileAtomic(resultsPath, append(data, '\n')); err != nil {
		return "", "", fmt.Errorf("write results: %w", err)
	}
	return reportPath, resultsPath, nil
}

// writeFileAtomic writes data through a temp file and renames it into
// place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
