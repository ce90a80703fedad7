// Package redact suppresses lines of file content that look like they carry secrets.
//
// A Redactor holds an ordered list of rules. Each content line is checked against the
// rules in order; the first rule that matches replaces the whole line with the
// placeholder and no further rules are consulted for that line.
package redact

import (
	"fmt"
	"strings"
)

// DefaultPlaceholder replaces redacted lines when no placeholder is configured.
const DefaultPlaceholder = "[REDACTED]"

// Rule decides whether a single line of text carries a secret.
type Rule interface {
	ID() string
	Match(line string) bool
}

// Redactor applies rules to lines with first-match-wins semantics.
type Redactor struct {
	rules       []Rule
	placeholder string
	hits        map[string]int
}

// NewRedactor returns a Redactor using rules in the given order.
func NewRedactor(placeholder string, rules ...Rule) (*Redactor, error) {
	trimmedPlaceholder := strings.TrimSpace(placeholder)
	if trimmedPlaceholder == "" {
		trimmedPlaceholder = DefaultPlaceholder
	}
	if strings.ContainsAny(trimmedPlaceholder, "\r\n") {
		return nil, fmt.Errorf("redaction placeholder must be a single line")
	}
	for index, rule := range rules {
		if rule == nil {
			return nil, fmt.Errorf("redaction rule %d is nil", index)
		}
	}
	return &Redactor{
		rules:       rules,
		placeholder: trimmedPlaceholder,
		hits:        map[string]int{},
	}, nil
}

// Apply returns the placeholder and true when a rule matches line, otherwise line and false.
func (redactor *Redactor) Apply(line string) (string, bool) {
	if redactor == nil {
		return line, false
	}
	for _, rule := range redactor.rules {
		if rule.Match(line) {
			redactor.hits[rule.ID()]++
			return redactor.placeholder, true
		}
	}
	return line, false
}

// Placeholder returns the replacement used for redacted lines.
func (redactor *Redactor) Placeholder() string {
	return redactor.placeholder
}

// Hits returns the number of lines each rule has redacted so far, keyed by rule ID.
func (redactor *Redactor) Hits() map[string]int {
	snapshot := make(map[string]int, len(redactor.hits))
	for ruleID, count := range redactor.hits {
		snapshot[ruleID] = count
	}
	return snapshot
}
