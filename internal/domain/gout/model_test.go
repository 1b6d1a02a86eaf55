package gout

import (
	"testing"

	"github.com/gouthelper/gouthelper/pkg/validate"
)

func boolPtr(b bool) *bool { return &b }

func TestEditValidate_LongTermRequiresAtGoal(t *testing.T) {
	cases := []struct {
		name string
		edit Edit
		ok   bool
	}{
		{"long term while at goal", Edit{AtGoal: boolPtr(true), AtGoalLongTerm: true}, true},
		{"long term while not at goal", Edit{AtGoal: boolPtr(false), AtGoalLongTerm: true}, false},
		{"long term with unknown goal status", Edit{AtGoal: nil, AtGoalLongTerm: true}, false},
		{"not long term, not at goal", Edit{AtGoal: boolPtr(false)}, true},
		{"everything unknown", Edit{}, true},
		{"flaring on treatment", Edit{Flaring: boolPtr(true), OnUlt: true, OnPpx: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.edit.Validate()
			if tc.ok && errs.HasErrors() {
				t.Errorf("unexpected errors: %v", errs)
			}
			if !tc.ok && !errs.HasErrors() {
				t.Error("expected rejection")
			}
		})
	}
}

func TestEditValidate_ErrorShape(t *testing.T) {
	errs := Edit{AtGoalLongTerm: true}.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d", len(errs))
	}
	if errs[0].Field != "goutdetail.at_goal_long_term" {
		t.Errorf("field = %s", errs[0].Field)
	}
	if errs[0].Code != validate.CodeInvalidChoice {
		t.Errorf("code = %s", errs[0].Code)
	}
}
