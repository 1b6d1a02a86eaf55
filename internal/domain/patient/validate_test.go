package patient

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/internal/domain/ckd"
	"github.com/gouthelper/gouthelper/internal/domain/gout"
	"github.com/gouthelper/gouthelper/internal/domain/medhistory"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func dobForAge(age int) time.Time {
	return time.Date(testNow.Year()-age, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func baseEdit(age int, gender clinical.Gender) Edit {
	return Edit{
		Username:    "testpatient",
		DateOfBirth: dobForAge(age),
		Gender:      gender,
		Ethnicity:   clinical.Caucasian,
	}
}

func hasCode(errs validate.Errors, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidate_Accepts(t *testing.T) {
	out, errs := baseEdit(30, clinical.Male).Validate(testNow)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out.Age != 30 {
		t.Errorf("age = %d, want 30", out.Age)
	}
}

func TestValidate_AgeBelowMinimum(t *testing.T) {
	_, errs := baseEdit(17, clinical.Male).Validate(testNow)
	if !hasCode(errs, validate.CodeAgeBelowMinimum) {
		t.Fatalf("expected AGE_BELOW_MINIMUM, got %v", errs)
	}

	if _, errs := baseEdit(18, clinical.Male).Validate(testNow); errs.HasErrors() {
		t.Errorf("age 18 should be accepted: %v", errs)
	}
}

func TestValidate_MenopauseGate(t *testing.T) {
	// Female aged 50 with no menopause entry is rejected.
	_, errs := baseEdit(50, clinical.Female).Validate(testNow)
	if !hasCode(errs, validate.CodeMenopauseRequired) {
		t.Fatalf("expected MENOPAUSE_REQUIRED, got %v", errs)
	}

	// The same payload with the entry is accepted.
	edit := baseEdit(50, clinical.Female)
	edit.Menopause = &medhistory.Edit{Type: clinical.MHMenopause, HistoryOf: true}
	out, errs := edit.Validate(testNow)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out.Menopause == nil || !out.Menopause.HistoryOf {
		t.Error("menopause entry should survive validation")
	}
}

func TestValidate_MenopauseWindowBoundaries(t *testing.T) {
	cases := []struct {
		age      int
		gender   clinical.Gender
		required bool
	}{
		{39, clinical.Female, false},
		{40, clinical.Female, true},
		{59, clinical.Female, true},
		{60, clinical.Female, false},
		{50, clinical.Male, false},
	}
	for _, tc := range cases {
		if got := MenopauseRequired(tc.gender, tc.age); got != tc.required {
			t.Errorf("MenopauseRequired(%s, %d) = %v, want %v", tc.gender, tc.age, got, tc.required)
		}
	}
}

func TestValidate_MenopauseIgnoredWhenNotRequired(t *testing.T) {
	edit := baseEdit(30, clinical.Female)
	edit.Menopause = &medhistory.Edit{Type: clinical.MHMenopause, HistoryOf: true}
	out, errs := edit.Validate(testNow)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out.Menopause != nil {
		t.Error("menopause entry outside the window should be dropped")
	}
}

func TestValidate_CKDPassthroughContext(t *testing.T) {
	// Age 45, male, creatinine 1.9 derives stage III; stating stage II must
	// surface the CKD validator's disagreement through the patient edit.
	cr := decimal.RequireFromString("1.9")
	edit := baseEdit(45, clinical.Male)
	edit.Creatinine = &cr
	stage := clinical.StageII
	edit.CKD = &ckd.Edit{Stage: &stage}

	_, errs := edit.Validate(testNow)
	if !hasCode(errs, validate.CodeStageDisagreesWithLabs) {
		t.Fatalf("expected STAGE_DISAGREES_WITH_LABS, got %v", errs)
	}

	stage = clinical.StageIII
	out, errs := edit.Validate(testNow)
	if errs.HasErrors() {
		t.Fatalf("agreeing stage should pass: %v", errs)
	}
	if out.CKD == nil || out.CKD.Stage != clinical.StageIII {
		t.Error("canonical CKD detail missing or wrong stage")
	}
}

func TestValidate_AtomicErrorList(t *testing.T) {
	// Several failures at once must all be reported.
	cr := decimal.RequireFromString("9.99")
	edit := Edit{
		Username:    "",
		DateOfBirth: dobForAge(16),
		Gender:      clinical.Gender(7),
		Ethnicity:   clinical.Ethnicity("MARTIAN"),
		Gout:        gout.Edit{AtGoalLongTerm: true},
		Creatinine:  &cr,
	}
	_, errs := edit.Validate(testNow)
	for _, code := range []string{
		validate.CodeRequired,
		validate.CodeAgeBelowMinimum,
		validate.CodeInvalidChoice,
		validate.CodeCreatinineOutOfRange,
	} {
		if !hasCode(errs, code) {
			t.Errorf("missing %s in %v", code, errs)
		}
	}
}
