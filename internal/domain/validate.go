package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("line_of_business", func(fl validator.FieldLevel) bool {
		return IsValidLineOfBusiness(LineOfBusiness(fl.Field().String()))
	})
	return v
}

// ValidateSnapshot checks a snapshot at the ingestion boundary.
// Malformed snapshots must be rejected or quarantined before they reach the engine.
func ValidateSnapshot(s PolicySnapshot) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	if s.Premium.Valid && s.Premium.Decimal.IsNegative() {
		return fmt.Errorf("%w: premium must not be negative", ErrValidation)
	}
	if s.EffectiveDate != nil && s.ExpirationDate != nil && s.ExpirationDate.Before(s.EffectiveDate.Time) {
		return fmt.Errorf("%w: expirationDate precedes effectiveDate", ErrValidation)
	}
	seen := make(map[string]struct{}, len(s.Coverages))
	for _, c := range s.Coverages {
		key := strings.ToUpper(strings.TrimSpace(c.Type))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate coverage type %s", ErrValidation, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ValidateCheckResults checks externally supplied check results. Rule ids must be unique
// and the PV- namespace is reserved for property verification.
func ValidateCheckResults(results []CheckResult) error {
	seen := make(map[string]struct{}, len(results))
	for i, r := range results {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("checkResults[%d]: %w", i, formatValidationError(err))
		}
		if IsPropertyRuleID(r.RuleID) {
			return fmt.Errorf("checkResults[%d]: %w: ruleId prefix %s is reserved", i, ErrValidation, PROPERTY_RULE_PREFIX)
		}
		if _, dup := seen[r.RuleID]; dup {
			return fmt.Errorf("checkResults[%d]: %w: duplicate ruleId %s", i, ErrValidation, r.RuleID)
		}
		seen[r.RuleID] = struct{}{}
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
