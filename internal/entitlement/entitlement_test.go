package entitlement

import "testing"

func TestCanUseGeneration(t *testing.T) {
	if CanUseGeneration(PlanFree) {
		t.Error("FREE plan must not pass the gate")
	}
	if !CanUseGeneration(PlanPaid) {
		t.Error("PAID plan must pass the gate")
	}
	// Repeated calls carry no state.
	for i := 0; i < 3; i++ {
		if CanUseGeneration(PlanFree) || !CanUseGeneration(PlanPaid) {
			t.Fatal("gate decision changed across invocations")
		}
	}
}

func TestParsePlan(t *testing.T) {
	cases := map[string]Plan{
		"PAID":    PlanPaid,
		"FREE":    PlanFree,
		"":        PlanFree,
		"unknown": PlanFree,
	}
	for in, want := range cases {
		if got := ParsePlan(in); got != want {
			t.Errorf("ParsePlan(%q) = %v, want %v", in, got, want)
		}
	}
}
