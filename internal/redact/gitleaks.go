package redact

import (
	"fmt"

	"github.com/zricethezav/gitleaks/v8/detect"
)

const gitleaksRuleID = "gitleaks"

// GitleaksRule matches lines in which the gitleaks default rule set finds a secret.
type GitleaksRule struct {
	detector *detect.Detector
}

// NewGitleaksRule builds a rule backed by the gitleaks default configuration.
func NewGitleaksRule() (*GitleaksRule, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("initialize gitleaks detector: %w", err)
	}
	return &GitleaksRule{detector: detector}, nil
}

// ID returns the rule identifier.
func (rule *GitleaksRule) ID() string {
	return gitleaksRuleID
}

// Match reports whether gitleaks reports at least one finding for line.
func (rule *GitleaksRule) Match(line string) bool {
	if rule == nil || rule.detector == nil || line == "" {
		return false
	}
	return len(rule.detector.DetectString(line)) > 0
}
