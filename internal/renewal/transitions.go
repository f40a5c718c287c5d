package renewal

import "github.com/agencyops/renewal-engine/internal/domain"

// transitions lists the statuses each status may move to. Terminal statuses have no entry.
var transitions = map[domain.ComparisonStatus][]domain.ComparisonStatus{
	// waiting_agent_review is reached from a placeholder only by the engine upgrade
	domain.StatusPendingManualRenewal: {domain.StatusWaitingAgentReview, domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusWaitingAgentReview:   {domain.StatusAgentReviewed, domain.StatusRequoteRequested, domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusAgentReviewed:        {domain.StatusRequoteRequested, domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusRequoteRequested:     {domain.StatusAgentReviewed, domain.StatusCompleted, domain.StatusCancelled},
}

// CanTransition reports whether a comparison may move from one status to another
func CanTransition(from, to domain.ComparisonStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// canDecide reports whether an agent decision may move a comparison from one status to another.
// Agents never perform the placeholder upgrade.
func canDecide(from, to domain.ComparisonStatus) bool {
	if to == domain.StatusWaitingAgentReview {
		return false
	}
	return CanTransition(from, to)
}
