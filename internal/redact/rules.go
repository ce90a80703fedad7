package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternDefinition describes a regular expression rule, usually loaded from configuration.
type PatternDefinition struct {
	ID       string
	Pattern  string
	Keywords []string
}

// PatternRule matches lines against a compiled regular expression.
// When keywords are present at least one must occur in the line (case-insensitive)
// before the expression is evaluated.
type PatternRule struct {
	id       string
	pattern  *regexp.Regexp
	keywords []string
}

// NewPatternRule compiles a definition into a PatternRule.
func NewPatternRule(definition PatternDefinition) (*PatternRule, error) {
	identifier := strings.TrimSpace(definition.ID)
	if identifier == "" {
		return nil, fmt.Errorf("redaction rule ID is required")
	}
	if strings.TrimSpace(definition.Pattern) == "" {
		return nil, fmt.Errorf("redaction rule %s: pattern is required", identifier)
	}
	compiled, compileError := regexp.Compile(definition.Pattern)
	if compileError != nil {
		return nil, fmt.Errorf("redaction rule %s: invalid pattern: %w", identifier, compileError)
	}
	keywords := make([]string, 0, len(definition.Keywords))
	for _, keyword := range definition.Keywords {
		if trimmed := strings.ToLower(strings.TrimSpace(keyword)); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return &PatternRule{id: identifier, pattern: compiled, keywords: keywords}, nil
}

// ID returns the rule identifier.
func (rule *PatternRule) ID() string {
	return rule.id
}

// Match reports whether line matches the rule.
func (rule *PatternRule) Match(line string) bool {
	if len(rule.keywords) > 0 {
		lowerLine := strings.ToLower(line)
		found := false
		for _, keyword := range rule.keywords {
			if strings.Contains(lowerLine, keyword) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return rule.pattern.MatchString(line)
}

// CompileRules compiles definitions in order.
func CompileRules(definitions []PatternDefinition) ([]Rule, error) {
	rules := make([]Rule, 0, len(definitions))
	for _, definition := range definitions {
		rule, err := NewPatternRule(definition)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	rules, err := CompileRules(DefaultDefinitions())
	if err != nil {
		panic(fmt.Sprintf("redact: built-in rules failed to compile: %v", err))
	}
	return rules
}

// DefaultDefinitions lists the built-in rules. Assignment-style rules come first
// because they catch the most common leak in source trees: a literal credential
// assigned to a key with a telling name.
func DefaultDefinitions() []PatternDefinition {
	return []PatternDefinition{
		{
			ID:       "assigned-credential",
			Pattern:  `(?i)(?:api[_-]?key|access[_-]?key|secret|token|passw(?:or)?d|passwd|pwd|client[_-]?secret|auth[_-]?key)["']?\s*[:=]\s*["'][^"'\s]{8,}["']`,
			Keywords: []string{"key", "secret", "token", "pass", "pwd"},
		},
		{
			ID:       "env-credential",
			Pattern:  `(?i)^\s*(?:export\s+)?[A-Z0-9_]*(?:API_KEY|SECRET|TOKEN|PASSWORD|PRIVATE_KEY)[A-Z0-9_]*\s*=\s*\S{8,}`,
			Keywords: []string{"key", "secret", "token", "password"},
		},
		{
			ID:      "private-key",
			Pattern: `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP |ENCRYPTED )?PRIVATE KEY(?: BLOCK)?-----`,
		},
		{
			ID:      "aws-access-key-id",
			Pattern: `\b(?:A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}\b`,
		},
		{
			ID:      "github-token",
			Pattern: `\b(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{36}\b|\bgithub_pat_[A-Za-z0-9_]{22,}`,
		},
		{
			ID:      "gitlab-token",
			Pattern: `\bglpat-[A-Za-z0-9\-]{20,}`,
		},
		{
			ID:      "slack-token",
			Pattern: `\bxox[baprs]-[A-Za-z0-9\-]{10,}`,
		},
		{
			ID:      "stripe-key",
			Pattern: `\b(?:sk|pk|rk)_(?:live|test)_[A-Za-z0-9]{24,}`,
		},
		{
			ID:      "google-api-key",
			Pattern: `\bAIza[A-Za-z0-9_\-]{35}`,
		},
		{
			ID:      "anthropic-api-key",
			Pattern: `\bsk-ant-[A-Za-z0-9_\-]{32,}`,
		},
		{
			ID:      "openai-api-key",
			Pattern: `\bsk-(?:proj-)?[A-Za-z0-9_\-]{32,}`,
		},
		{
			ID:      "npm-token",
			Pattern: `\bnpm_[A-Za-z0-9]{36}\b`,
		},
		{
			ID:      "sendgrid-api-key",
			Pattern: `\bSG\.[A-Za-z0-9_\-]{22,}\.[A-Za-z0-9_\-]{43,}`,
		},
		{
			ID:      "jwt",
			Pattern: `\beyJ[A-Za-z0-9_-]{8,}\.eyJ[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}`,
		},
		{
			ID:       "credential-url",
			Pattern:  `(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqps?)://[^:\s/]+:[^@\s]+@\S+`,
			Keywords: []string{"://"},
		},
		{
			ID:       "bearer-token",
			Pattern:  `(?i)\bbearer\s+[A-Za-z0-9_\-\.=]{20,}`,
			Keywords: []string{"bearer"},
		},
	}
}
