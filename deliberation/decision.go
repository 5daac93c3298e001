package deliberation

import "fmt"

// OptimizerDecision is the token family of the Optimizer.
type OptimizerDecision string

const (
	Accept OptimizerDecision = "Accept"
	Reject OptimizerDecision = "Reject"
)

// ParseOptimizerDecision validates s as an OptimizerDecision.
func ParseOptimizerDecision(s string) (OptimizerDecision, error) {
	switch d := OptimizerDecision(s); d {
	case Accept, Reject:
		return d, nil
	}
	return "", fmt.Errorf("deliberation: unknown optimizer decision %q", s)
}

// Accepted reports whether d approves the plans.
func (d OptimizerDecision) Accepted() bool { return d == Accept }

// ReviewDecision is the token family of the Reviewer.
type ReviewDecision string

const (
	Accepted ReviewDecision = "Accepted"
	Rejected ReviewDecision = "Rejected"
)

// ParseReviewDecision validates s as a ReviewDecision.
func ParseReviewDecision(s string) (ReviewDecision, error) {
	switch d := ReviewDecision(s); d {
	case Accepted, Rejected:
		return d, nil
	}
	return "", fmt.Errorf("deliberation: unknown review decision %q", s)
}

// Accepted reports whether d approves the result.
func (d ReviewDecision) Accepted() bool { return d == Accepted }
