//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package jsonrepair

import (
	"bytes"
	"encoding/json"

	"trpc.group/trpc-go/trpc-agent-eval-go/log"
)

// RepairToolCallArguments returns repaired tool call arguments when the input
// is not valid JSON. Valid input passes through untouched, and so does input
// the repair cannot save; the caller's own parse then reports the failure.
func RepairToolCallArguments(toolName string, arguments []byte) []byte {
	trimmed := bytes.TrimSpace(arguments)
	if len(trimmed) == 0 || json.Valid(trimmed) {
		return arguments
	}
	repaired, err := Repair(arguments)
	if err != nil {
		log.Errorf("Tool call arguments JSON repair failed for %s: %v", toolName, err)
		return arguments
	}
	log.Infof("Tool call arguments JSON repaired for %s", toolName)
	return repaired
}
