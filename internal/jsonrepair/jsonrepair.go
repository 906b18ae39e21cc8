//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package jsonrepair turns the malformed JSON that models emit for tool call
// arguments back into valid JSON. The input is parsed permissively and
// re-emitted as canonical compact JSON: markdown code fences are stripped,
// unquoted keys and bare words become strings, single and smart quotes become
// double quotes, Python literals map to their JSON counterparts, trailing
// commas and ellipses are dropped and structures truncated at end of input
// are closed. Original formatting is not preserved.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// numberPattern matches a complete JSON number literal.
var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Repair parses input permissively and returns it re-emitted as canonical
// compact JSON. It fails when the input contains no value at all; anything
// after the first value is ignored.
func Repair(input []byte) ([]byte, error) {
	p := &parser{text: []rune(stripFences(string(input)))}
	p.skipJunk()
	if p.eof() {
		return nil, errors.New("no JSON value found")
	}
	var buf strings.Builder
	emit(&buf, p.parseValue())
	out := buf.String()
	if !json.Valid([]byte(out)) {
		return nil, fmt.Errorf("repair produced invalid JSON: %s", out)
	}
	return []byte(out), nil
}

// member is one key/value pair of an object. Objects are slices of members
// so that key order survives the round trip.
type member struct {
	key   string
	value any
}

type object []member

type array []any

// number is a validated JSON number literal kept as written.
type number string

// literal is one of true, false or null.
type literal string

// emit writes the parsed value tree as compact JSON.
func emit(buf *strings.Builder, v any) {
	switch t := v.(type) {
	case object:
		buf.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.key)
			buf.WriteByte(':')
			emit(buf, m.value)
		}
		buf.WriteByte('}')
	case array:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			emit(buf, item)
		}
		buf.WriteByte(']')
	case number:
		buf.WriteString(string(t))
	case literal:
		buf.WriteString(string(t))
	case string:
		writeString(buf, t)
	}
}

func writeString(buf *strings.Builder, s string) {
	encoded, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail, but degrade to an empty string
		// rather than emit nothing.
		encoded = []byte(`""`)
	}
	buf.Write(encoded)
}

// stripFences removes a surrounding markdown code fence, including an
// optional language tag after the opening backticks.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimLeft(t, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	return strings.TrimSuffix(strings.TrimSpace(t), "```")
}

type parser struct {
	text []rune
	i    int
}

func (p *parser) eof() bool { return p.i >= len(p.text) }

func (p *parser) ch() rune { return p.text[p.i] }

func (p *parser) has(s string) bool {
	runes := []rune(s)
	if p.i+len(runes) > len(p.text) {
		return false
	}
	for k, c := range runes {
		if p.text[p.i+k] != c {
			return false
		}
	}
	return true
}

// skipJunk advances past whitespace, comments and ellipsis placeholders.
func (p *parser) skipJunk() {
	for !p.eof() {
		switch {
		case unicode.IsSpace(p.ch()):
			p.i++
		case p.has("//"):
			for !p.eof() && p.ch() != '\n' {
				p.i++
			}
		case p.has("/*"):
			p.i += 2
			for !p.eof() && !p.has("*/") {
				p.i++
			}
			if !p.eof() {
				p.i += 2
			}
		case p.has("..."):
			p.i += 3
		default:
			return
		}
	}
}

func (p *parser) parseValue() any {
	p.skipJunk()
	if p.eof() {
		return literal("null")
	}
	switch c := p.ch(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '}' || c == ']' || c == ',':
		// A delimiter where a value belongs means the value is missing.
		return literal("null")
	case isQuote(c):
		return p.parseString(closersFor(c))
	case c == '-' || c == '+' || c == '.' || unicode.IsDigit(c):
		return p.parseNumberOrWord()
	default:
		return p.parseWord()
	}
}

func (p *parser) parseObject() any {
	p.i++
	obj := object{}
	for {
		p.skipJunk()
		if p.eof() {
			return obj
		}
		switch p.ch() {
		case '}':
			p.i++
			return obj
		case ',', ';':
			p.i++
			continue
		}
		key := p.parseKey()
		p.skipJunk()
		var value any = literal("null")
		if !p.eof() {
			switch p.ch() {
			case ':', '=':
				p.i++
				value = p.parseValue()
			case '}', ',':
				// Key without a value.
			default:
				// Missing colon; parse the value anyway.
				value = p.parseValue()
			}
		}
		obj = append(obj, member{key: key, value: value})
	}
}

func (p *parser) parseArray() any {
	p.i++
	arr := array{}
	for {
		p.skipJunk()
		if p.eof() {
			return arr
		}
		switch p.ch() {
		case ']':
			p.i++
			return arr
		case ',', ';':
			p.i++
			continue
		}
		arr = append(arr, p.parseValue())
	}
}

func (p *parser) parseKey() string {
	if isQuote(p.ch()) {
		return p.parseString(closersFor(p.ch()))
	}
	start := p.i
	for !p.eof() {
		c := p.ch()
		if c == ':' || c == '=' || c == ',' || c == '}' || isQuote(c) || unicode.IsSpace(c) {
			break
		}
		p.i++
	}
	return string(p.text[start:p.i])
}

// parseString consumes a quoted string. A string truncated at end of input is
// closed there, except that trailing structural characters are handed back so
// the enclosing containers can still close themselves.
func (p *parser) parseString(isCloser func(rune) bool) string {
	p.i++
	start := p.i
	end := p.i
	closed := false
	for !p.eof() {
		c := p.ch()
		if isCloser(c) {
			end = p.i
			p.i++
			closed = true
			break
		}
		if c == '\\' && p.i+1 < len(p.text) {
			p.i += 2
			continue
		}
		p.i++
	}
	if !closed {
		end = p.i
		for end > start && isStructural(p.text[end-1]) {
			end--
		}
		p.i = end
	}
	return decodeEscapes(p.text[start:end])
}

func isStructural(c rune) bool {
	return c == ',' || c == '}' || c == ']' || unicode.IsSpace(c)
}

// decodeEscapes resolves backslash escapes in raw string content. Incomplete
// escapes at the end of truncated input are dropped.
func decodeEscapes(raw []rune) string {
	var sb strings.Builder
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			sb.WriteRune(c)
			i++
			continue
		}
		if i+1 >= len(raw) {
			break
		}
		switch e := raw[i+1]; e {
		case 'b':
			sb.WriteRune('\b')
			i += 2
		case 'f':
			sb.WriteRune('\f')
			i += 2
		case 'n':
			sb.WriteRune('\n')
			i += 2
		case 'r':
			sb.WriteRune('\r')
			i += 2
		case 't':
			sb.WriteRune('\t')
			i += 2
		case 'u':
			r, n, ok := decodeUnicodeEscape(raw[i:])
			if !ok {
				return sb.String()
			}
			sb.WriteRune(r)
			i += n
		default:
			sb.WriteRune(e)
			i += 2
		}
	}
	return sb.String()
}

// decodeUnicodeEscape decodes a \uXXXX sequence at the start of raw,
// combining surrogate pairs. It reports the decoded rune and the number of
// runes consumed; ok is false when the sequence is cut off.
func decodeUnicodeEscape(raw []rune) (r rune, n int, ok bool) {
	if len(raw) < 6 {
		return 0, 0, false
	}
	high, err := strconv.ParseUint(string(raw[2:6]), 16, 32)
	if err != nil {
		return 0, 0, false
	}
	if utf16.IsSurrogate(rune(high)) && len(raw) >= 12 && raw[6] == '\\' && raw[7] == 'u' {
		low, err := strconv.ParseUint(string(raw[8:12]), 16, 32)
		if err == nil {
			if combined := utf16.DecodeRune(rune(high), rune(low)); combined != unicode.ReplacementChar {
				return combined, 12, true
			}
		}
	}
	return rune(high), 6, true
}

// parseNumberOrWord parses a token that starts like a number. When the digit
// run continues into other characters, such as a timestamp, the whole token
// is a word instead.
func (p *parser) parseNumberOrWord() any {
	start := p.i
	for !p.eof() && isNumberChar(p.ch()) {
		p.i++
	}
	if p.eof() || isWordStop(p.ch()) || unicode.IsSpace(p.ch()) {
		return fixNumber(string(p.text[start:p.i]))
	}
	p.i = start
	return p.parseWord()
}

// fixNumber coerces a number-like token into a valid JSON number literal,
// padding truncated fractions and exponents; tokens beyond saving become
// strings.
func fixNumber(raw string) any {
	candidate := strings.TrimPrefix(raw, "+")
	if numberPattern.MatchString(candidate) {
		return number(candidate)
	}
	if numberPattern.MatchString(candidate + "0") {
		return number(candidate + "0")
	}
	if f, err := strconv.ParseFloat(candidate, 64); err == nil {
		return number(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return raw
}

// parseWord consumes an unquoted token up to the next structural delimiter.
// Keywords map to JSON literals, anything else becomes a string.
func (p *parser) parseWord() any {
	start := p.i
	for !p.eof() && !isWordStop(p.ch()) {
		p.i++
	}
	word := strings.TrimSpace(string(p.text[start:p.i]))
	switch word {
	case "true", "True":
		return literal("true")
	case "false", "False":
		return literal("false")
	case "null", "None", "nil", "undefined":
		return literal("null")
	}
	return word
}

func isWordStop(c rune) bool {
	return c == ',' || c == '}' || c == ']'
}

func isNumberChar(c rune) bool {
	return unicode.IsDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

func isQuote(c rune) bool {
	return c == '"' || c == '\'' || c == '‘' || c == '’' || c == '“' || c == '”'
}

// closersFor returns the closing quote test for an opening quote; smart
// quotes accept either orientation.
func closersFor(open rune) func(rune) bool {
	switch open {
	case '‘', '’':
		return func(c rune) bool { return c == '‘' || c == '’' }
	case '“', '”':
		return func(c rune) bool { return c == '“' || c == '”' }
	default:
		return func(c rune) bool { return c == open }
	}
}
