package comparison

import (
	"fmt"
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// ChangeKind is what changed on a coverage line
type ChangeKind string

const (
	ChangeKindLimit      ChangeKind = "limit"
	ChangeKindDeductible ChangeKind = "deductible"
	ChangeKindAdded      ChangeKind = "added"
	ChangeKindRemoved    ChangeKind = "removed"
)

// CoverageChange is one difference between the baseline and renewal coverages
type CoverageChange struct {
	Type      string
	Kind      ChangeKind
	Direction Direction
	From      string
	To        string
}

// Describe renders the change as a material change line, e.g. "BI limit increased 25/50 → 50/100"
func (c CoverageChange) Describe() string {
	switch c.Kind {
	case ChangeKindAdded:
		if c.To == "" {
			return fmt.Sprintf("%s coverage added", c.Type)
		}
		return fmt.Sprintf("%s coverage added (limit %s)", c.Type, c.To)
	case ChangeKindRemoved:
		if c.From == "" {
			return fmt.Sprintf("%s coverage removed", c.Type)
		}
		return fmt.Sprintf("%s coverage removed (was limit %s)", c.Type, c.From)
	default:
		return fmt.Sprintf("%s %s %s %s → %s", c.Type, c.Kind, c.Direction, displayAmount(c.From), displayAmount(c.To))
	}
}

func displayAmount(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// CoverageKey normalizes a coverage type for matching across terms
func CoverageKey(coverageType string) string {
	return strings.ToUpper(strings.TrimSpace(coverageType))
}

// DiffCoverages compares coverage lines by normalized type.
// Changes follow baseline order, then coverages only present on the renewal in renewal order.
func DiffCoverages(baseline, renewal []domain.Coverage) []CoverageChange {
	renewalByKey := make(map[string]domain.Coverage, len(renewal))
	for _, c := range renewal {
		key := CoverageKey(c.Type)
		if _, dup := renewalByKey[key]; !dup {
			renewalByKey[key] = c
		}
	}

	var changes []CoverageChange
	seen := make(map[string]struct{}, len(baseline))
	for _, before := range baseline {
		key := CoverageKey(before.Type)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		after, ok := renewalByKey[key]
		if !ok {
			changes = append(changes, CoverageChange{
				Type: key, Kind: ChangeKindRemoved, Direction: DirectionChanged,
				From: strings.TrimSpace(before.LimitAmount),
			})
			continue
		}

		from, to := strings.TrimSpace(before.LimitAmount), strings.TrimSpace(after.LimitAmount)
		if dir := CompareAmounts(from, to); dir != DirectionUnchanged {
			changes = append(changes, CoverageChange{Type: key, Kind: ChangeKindLimit, Direction: dir, From: from, To: to})
		}
		from, to = strings.TrimSpace(before.Deductible), strings.TrimSpace(after.Deductible)
		if dir := CompareAmounts(from, to); dir != DirectionUnchanged {
			changes = append(changes, CoverageChange{Type: key, Kind: ChangeKindDeductible, Direction: dir, From: from, To: to})
		}
	}

	for _, after := range renewal {
		key := CoverageKey(after.Type)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		changes = append(changes, CoverageChange{
			Type: key, Kind: ChangeKindAdded, Direction: DirectionChanged,
			To: strings.TrimSpace(after.LimitAmount),
		})
	}

	return changes
}

// MaterialChanges renders coverage changes in order
func MaterialChanges(changes []CoverageChange) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		out = append(out, c.Describe())
	}
	return out
}
