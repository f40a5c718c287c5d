package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

var jsonNull = []byte("null")

// marshalJSON encodes v for a NOT NULL jsonb column; nil values become the JSON literal null
func marshalJSON(v interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// rawOrNull keeps a provider payload as is, or stores JSON null when it is missing
func rawOrNull(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON(jsonNull)
	}
	return datatypes.JSON(raw)
}

func isJSONNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// toComparisonRow maps a domain comparison into its row. ID and timestamps are left to the caller.
func toComparisonRow(c *domain.RenewalComparison) (*schema.RenewalComparison, error) {
	baseline, err := marshalJSON(c.BaselineSnapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal baseline snapshot: %w", err)
	}
	renewal, err := marshalJSON(c.RenewalSnapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal renewal snapshot: %w", err)
	}
	changes := c.MaterialChanges
	if changes == nil {
		changes = []string{}
	}
	materialChanges, err := marshalJSON(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal material changes: %w", err)
	}
	checkResults, checkSummary, err := marshalChecks(c)
	if err != nil {
		return nil, err
	}
	verification, err := marshalJSON(c.PropertyVerification)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal property verification: %w", err)
	}

	return &schema.RenewalComparison{
		ID:                   c.ID,
		TenantID:             c.TenantID,
		PolicyNumber:         domain.NormalizePolicyNumber(c.PolicyNumber),
		CarrierName:          c.CarrierName,
		LineOfBusiness:       string(c.LineOfBusiness),
		RenewalEffectiveDate: c.RenewalEffectiveDate.Time,
		CustomerID:           c.CustomerID,
		PolicyID:             c.PolicyID,
		AssignedAgentID:      c.AssignedAgentID,
		CurrentPremium:       c.CurrentPremium,
		RenewalPremium:       c.RenewalPremium,
		PremiumChangeAmount:  c.PremiumChangeAmount,
		PremiumChangePercent: c.PremiumChangePercent,
		BaselineSnapshot:     baseline,
		RenewalSnapshot:      renewal,
		RenewalFingerprint:   c.RenewalFingerprint,
		MaterialChanges:      materialChanges,
		CheckResults:         checkResults,
		CheckSummary:         checkSummary,
		Recommendation:       string(c.Recommendation),
		PropertyVerification: verification,
		Status:               string(c.Status),
		RenewalSource:        string(c.RenewalSource),
	}, nil
}

func marshalChecks(c *domain.RenewalComparison) (datatypes.JSON, datatypes.JSON, error) {
	results := c.CheckResults
	if results == nil {
		results = []domain.CheckResult{}
	}
	checkResults, err := marshalJSON(results)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal check results: %w", err)
	}
	summary := c.CheckSummary
	if summary.BlockerRuleIDs == nil {
		summary.BlockerRuleIDs = []string{}
	}
	checkSummary, err := marshalJSON(summary)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal check summary: %w", err)
	}
	return checkResults, checkSummary, nil
}

// toDomainComparison maps a row back into the aggregate
func toDomainComparison(row *schema.RenewalComparison) (*domain.RenewalComparison, error) {
	c := &domain.RenewalComparison{
		PremiumDelta: domain.PremiumDelta{
			CurrentPremium:       row.CurrentPremium,
			RenewalPremium:       row.RenewalPremium,
			PremiumChangeAmount:  row.PremiumChangeAmount,
			PremiumChangePercent: row.PremiumChangePercent,
		},
		ID:                   row.ID,
		TenantID:             row.TenantID,
		PolicyNumber:         row.PolicyNumber,
		CarrierName:          row.CarrierName,
		LineOfBusiness:       domain.LineOfBusiness(row.LineOfBusiness),
		RenewalEffectiveDate: domain.NewDate(row.RenewalEffectiveDate),
		CustomerID:           row.CustomerID,
		PolicyID:             row.PolicyID,
		AssignedAgentID:      row.AssignedAgentID,
		RenewalFingerprint:   row.RenewalFingerprint,
		Recommendation:       domain.Recommendation(row.Recommendation),
		Status:               domain.ComparisonStatus(row.Status),
		RenewalSource:        domain.RenewalSource(row.RenewalSource),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}

	if !isJSONNull(row.BaselineSnapshot) {
		var baseline domain.PolicySnapshot
		if err := json.Unmarshal(row.BaselineSnapshot, &baseline); err != nil {
			return nil, fmt.Errorf("failed to unmarshal baseline snapshot: %w", err)
		}
		c.BaselineSnapshot = &baseline
	}
	if !isJSONNull(row.RenewalSnapshot) {
		var renewal domain.PolicySnapshot
		if err := json.Unmarshal(row.RenewalSnapshot, &renewal); err != nil {
			return nil, fmt.Errorf("failed to unmarshal renewal snapshot: %w", err)
		}
		c.RenewalSnapshot = &renewal
	}
	if !isJSONNull(row.MaterialChanges) {
		if err := json.Unmarshal(row.MaterialChanges, &c.MaterialChanges); err != nil {
			return nil, fmt.Errorf("failed to unmarshal material changes: %w", err)
		}
	}
	if !isJSONNull(row.CheckResults) {
		if err := json.Unmarshal(row.CheckResults, &c.CheckResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal check results: %w", err)
		}
	}
	if !isJSONNull(row.CheckSummary) {
		if err := json.Unmarshal(row.CheckSummary, &c.CheckSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal check summary: %w", err)
		}
	}
	if !isJSONNull(row.PropertyVerification) {
		var verification domain.PropertyVerification
		if err := json.Unmarshal(row.PropertyVerification, &verification); err != nil {
			return nil, fmt.Errorf("failed to unmarshal property verification: %w", err)
		}
		c.PropertyVerification = &verification
	}
	if c.MaterialChanges == nil {
		c.MaterialChanges = []string{}
	}
	if c.CheckResults == nil {
		c.CheckResults = []domain.CheckResult{}
	}

	return c, nil
}

func toAuditRow(tenantID, comparisonID string, e AuditEventInput) schema.RenewalAuditLog {
	data := e.EventData
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	performedBy := e.PerformedBy
	if performedBy == "" {
		performedBy = domain.SYSTEM_ACTOR
	}
	performedAt := e.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now().UTC()
	}
	return schema.RenewalAuditLog{
		TenantID:            tenantID,
		RenewalComparisonID: comparisonID,
		EventType:           string(e.EventType),
		EventData:           datatypes.JSON(data),
		PerformedBy:         performedBy,
		PerformedAt:         performedAt,
	}
}

func toDomainAuditEvent(row schema.RenewalAuditLog) domain.AuditEvent {
	return domain.AuditEvent{
		ID:                  row.ID,
		TenantID:            row.TenantID,
		RenewalComparisonID: row.RenewalComparisonID,
		EventType:           domain.AuditEventType(row.EventType),
		EventData:           json.RawMessage(row.EventData),
		PerformedBy:         row.PerformedBy,
		PerformedAt:         row.PerformedAt,
	}
}
