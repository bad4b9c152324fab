// Package entitlement derives capability decisions from a user's plan tier.
//
// The decision is advisory: the credential that pays for generation is
// supplied by the same user the gate would restrict, so there is no security
// boundary here, only a product-tier signal. Real monetization enforcement
// would require holding the credential and the upstream call behind a
// server-side boundary.
package entitlement

// Plan is a user's plan tier.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPaid Plan = "PAID"
)

// ParsePlan maps a stored plan tag to a Plan; anything unrecognized is FREE.
func ParsePlan(s string) Plan {
	if Plan(s) == PlanPaid {
		return PlanPaid
	}
	return PlanFree
}

// CanUseGeneration reports whether the plan may invoke generation
// operations. Pure; callers are responsible for acting on the decision.
func CanUseGeneration(p Plan) bool {
	return p == PlanPaid
}
