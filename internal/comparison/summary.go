package comparison

import (
	"math"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// Summarize aggregates check results. reviewProgress counts only results that are not unchanged
// and is 100 when nothing needs review.
func Summarize(results []domain.CheckResult) domain.CheckSummary {
	summary := domain.CheckSummary{
		TotalChecks:    len(results),
		BlockerRuleIDs: []string{},
	}

	var reviewable, reviewed int
	for _, r := range results {
		switch r.Severity {
		case domain.SeverityCritical:
			summary.CriticalCount++
		case domain.SeverityWarning:
			summary.WarningCount++
		case domain.SeverityInfo:
			summary.InfoCount++
		case domain.SeverityUnchanged:
			summary.UnchangedCount++
		}

		if r.Blocking && r.Severity == domain.SeverityCritical {
			summary.PipelineHalted = true
			summary.BlockerRuleIDs = append(summary.BlockerRuleIDs, r.RuleID)
		}

		if r.IsReviewable() {
			reviewable++
			if r.Reviewed {
				reviewed++
			}
		}
	}

	if reviewable == 0 {
		summary.ReviewProgress = 100
	} else {
		summary.ReviewProgress = int(math.Round(100 * float64(reviewed) / float64(reviewable)))
	}

	return summary
}

// Recommend maps the worst severity to a recommendation; a halted pipeline always escalates
func Recommend(summary domain.CheckSummary) domain.Recommendation {
	switch {
	case summary.PipelineHalted, summary.CriticalCount > 0:
		return domain.RecommendationEscalate
	case summary.WarningCount > 0:
		return domain.RecommendationReview
	default:
		return domain.RecommendationAccept
	}
}
