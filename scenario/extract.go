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
	"regexp"
	"strings"
	"sync"
)

var (
	tagPatternMu sync.Mutex
	tagPatterns  = make(map[string]*regexp.Regexp)
)

// tagPattern returns the compiled pattern for one tag, caching it since
// the runner extracts the same three tags for every scenario.
func tagPattern(tag string) *regexp.Regexp {
	tagPatternMu.Lock()
	defer tagPatternMu.Unlock()
	if p, ok := tagPatterns[tag]; ok {
		return p
	}
	quoted := regexp.QuoteMeta(tag)
	p := regexp.MustCompile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
	tagPatterns[tag] = p
	return p
}

// ExtractTag returns the content wrapped by the given XML-style tag,
// trimmed of surrounding whitespace. The content may span lines and the
// last occurrence wins. Text without the tag yields the empty string;
// there is no fallback to the untagged text.
func ExtractTag(text, tag string) string {
	matches := tagPattern(tag).FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}
