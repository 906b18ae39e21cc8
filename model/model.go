//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package model provides interfaces for working with LLMs.
package model

import "context"

// Model is the interface for chat models.
//
// Implementations send the full conversation to the backing service and
// block until the complete response is available. Failures to obtain a
// response are returned as errors; API-level errors reported inside an
// otherwise well-formed response body surface as *ResponseError.
type Model interface {
	// Chat sends a chat request and returns the complete response.
	Chat(ctx context.Context, request *Request) (*Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a model.
type Info struct {
	// Name is the name of the model.
	Name string
}
