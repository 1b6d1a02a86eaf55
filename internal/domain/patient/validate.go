package patient

import (
	"time"

	"github.com/gouthelper/gouthelper/internal/domain/ckd"
	"github.com/gouthelper/gouthelper/internal/domain/labs"
	"github.com/gouthelper/gouthelper/internal/domain/medhistory"
	"github.com/gouthelper/gouthelper/pkg/chrono"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// ValidateDateOfBirth enforces the minimum patient age.
func ValidateDateOfBirth(dob, now time.Time) validate.Errors {
	var errs validate.Errors
	if chrono.Age(dob, now) < clinical.MinPatientAge {
		errs = errs.Addf("dateofbirth.value", validate.CodeAgeBelowMinimum,
			"patients must be at least %d years old", clinical.MinPatientAge)
	}
	return errs
}

// MenopauseRequired reports whether a menopause history entry must accompany
// the edit: FEMALE and age in [40, 60).
func MenopauseRequired(gender clinical.Gender, age int) bool {
	return gender == clinical.Female &&
		age >= clinical.MinMenopauseAge && age < clinical.MaxMenopauseAge
}

// Validate checks the whole payload and returns its canonical form or the
// complete list of field errors. Sub-payloads are validated first; the
// age-dependent rules then run on the computed age; the CKD validator runs
// last with the computed age, gender, and creatinine as its context. The
// edit never partially applies.
func (e Edit) Validate(now time.Time) (Canonical, validate.Errors) {
	var errs validate.Errors

	if e.Username == "" {
		errs = errs.Add("patient.username", validate.CodeRequired, "a username is required")
	}
	errs = append(errs, ValidateDateOfBirth(e.DateOfBirth, now)...)
	age := chrono.Age(e.DateOfBirth, now)

	if !e.Gender.Valid() {
		errs = errs.Addf("gender.value", validate.CodeInvalidChoice,
			"%d is not a gender", int(e.Gender))
	}
	if !e.Ethnicity.Valid() {
		errs = errs.Addf("ethnicity.value", validate.CodeInvalidChoice,
			"%q is not a known ethnicity", string(e.Ethnicity))
	}
	errs = append(errs, e.Gout.Validate()...)
	creatinine := e.Creatinine
	if creatinine != nil {
		v := creatinine.RoundBank(2)
		creatinine = &v
		errs = append(errs, labs.ValidateBaselineCreatinine(v)...)
	}

	menopause := e.Menopause
	if e.Gender.Valid() {
		if MenopauseRequired(e.Gender, age) {
			if menopause == nil {
				errs = errs.Add("menopause", validate.CodeMenopauseRequired,
					"menopause history is required for female patients aged 40 to 59")
			}
		} else {
			// Present but not required: accepted and ignored.
			menopause = nil
		}
	}
	if menopause != nil {
		menopause = &medhistory.Edit{Type: clinical.MHMenopause, HistoryOf: menopause.HistoryOf}
	}

	var canonicalCKD *ckd.Canonical
	if e.CKD != nil {
		pctx := ckd.Context{Age: &age, Creatinine: creatinine}
		if e.Gender.Valid() {
			g := e.Gender
			pctx.Gender = &g
		}
		resolved, ckdErrs := ckd.Validate(*e.CKD, pctx)
		if ckdErrs.HasErrors() {
			errs = append(errs, ckdErrs...)
		} else {
			canonicalCKD = &resolved
		}
	}

	if errs.HasErrors() {
		return Canonical{}, errs
	}
	return Canonical{
		Username:    e.Username,
		DateOfBirth: e.DateOfBirth,
		Age:         age,
		Gender:      e.Gender,
		Ethnicity:   e.Ethnicity,
		Gout:        e.Gout,
		Menopause:   menopause,
		CKD:         canonicalCKD,
		Creatinine:  creatinine,
	}, nil
}
