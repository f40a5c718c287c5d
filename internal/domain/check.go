package domain

import (
	"strings"
	"time"
)

// Severity grades a check result
type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityWarning   Severity = "warning"
	SeverityInfo      Severity = "info"
	SeverityUnchanged Severity = "unchanged"
)

// Rank orders severities, higher is worse. Unknown severities rank below unchanged.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	case SeverityUnchanged:
		return 0
	}
	return -1
}

// IsValidSeverity checks if a severity is known
func IsValidSeverity(s Severity) bool {
	return s.Rank() >= 0
}

// CheckResult is the finding of one check rule
type CheckResult struct {
	RuleID        string     `json:"ruleId" validate:"required"`
	Category      string     `json:"category,omitempty"`
	Field         string     `json:"field,omitempty"`
	Severity      Severity   `json:"severity" validate:"required,oneof=critical warning info unchanged"`
	Title         string     `json:"title"`
	Message       string     `json:"message,omitempty"`
	BaselineValue string     `json:"baselineValue,omitempty"`
	RenewalValue  string     `json:"renewalValue,omitempty"`
	Blocking      bool       `json:"blocking,omitempty"`
	Reviewed      bool       `json:"reviewed"`
	ReviewedBy    *string    `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
}

// IsPropertyCheck reports whether the result came from property verification
func (c CheckResult) IsPropertyCheck() bool {
	return IsPropertyRuleID(c.RuleID)
}

// IsReviewable reports whether an agent is expected to acknowledge the result
func (c CheckResult) IsReviewable() bool {
	return c.Severity != SeverityUnchanged
}

// IsPropertyRuleID reports whether a rule id is in the property verification namespace
func IsPropertyRuleID(ruleID string) bool {
	return strings.HasPrefix(ruleID, PROPERTY_RULE_PREFIX)
}

// CheckSummary aggregates a set of check results
type CheckSummary struct {
	TotalChecks    int      `json:"totalChecks"`
	CriticalCount  int      `json:"criticalCount"`
	WarningCount   int      `json:"warningCount"`
	InfoCount      int      `json:"infoCount"`
	UnchangedCount int      `json:"unchangedCount"`
	PipelineHalted bool     `json:"pipelineHalted"`
	BlockerRuleIDs []string `json:"blockerRuleIds"`
	// ReviewProgress is the percentage (0-100) of reviewable results already reviewed
	ReviewProgress int `json:"reviewProgress"`
}
