package ckd

import (
	"github.com/gouthelper/gouthelper/internal/platform/renal"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// Validate resolves a CKD payload against the patient context and returns
// its canonical form, or the full list of field errors. It never partially
// resolves; a payload either comes back normalized or rejected.
//
// Resolution order: dialysis field consistency first, then the implied
// stage V for dialysis, then agreement between the stated stage and the
// lab-derived stage, and finally the requirement that some stage be known.
func Validate(edit Edit, pctx Context) (Canonical, validate.Errors) {
	var errs validate.Errors

	if edit.DialysisType != nil && !edit.DialysisType.Valid() {
		errs = errs.Addf("ckddetail.dialysis_type", validate.CodeInvalidChoice,
			"%d is not a dialysis type", int(*edit.DialysisType))
	}
	if edit.DialysisDuration != nil && !edit.DialysisDuration.Valid() {
		errs = errs.Addf("ckddetail.dialysis_duration", validate.CodeInvalidChoice,
			"%d is not a dialysis duration", int(*edit.DialysisDuration))
	}
	if edit.Stage != nil && !edit.Stage.Valid() {
		errs = errs.Addf("ckddetail.stage", validate.CodeInvalidChoice,
			"%d is not a CKD stage", int(*edit.Stage))
	}
	if errs.HasErrors() {
		return Canonical{}, errs
	}

	calculated := calculatedStage(pctx)

	if edit.DialysisDuration != nil && !edit.Dialysis {
		errs = errs.Add("ckddetail.dialysis_duration", validate.CodeDialysisFieldMismatch,
			"dialysis duration is set but the patient is not on dialysis")
	}
	if edit.DialysisType != nil && !edit.Dialysis {
		errs = errs.Add("ckddetail.dialysis_type", validate.CodeDialysisFieldMismatch,
			"dialysis type is set but the patient is not on dialysis")
	}
	if errs.HasErrors() {
		return Canonical{}, errs
	}

	stage := edit.Stage
	if edit.Dialysis && stage == nil {
		v := clinical.StageV
		stage = &v
	}

	if stage != nil && calculated != nil && *stage != *calculated {
		errs = errs.Addf("ckddetail.stage", validate.CodeStageDisagreesWithLabs,
			"stated stage %s disagrees with the lab-derived stage %s", *stage, *calculated)
	}
	if edit.Dialysis {
		if *stage != clinical.StageV || (calculated != nil && *calculated != clinical.StageV) {
			errs = errs.Add("ckddetail.dialysis", validate.CodeDialysisRequiresStageV,
				"a patient on dialysis must be CKD stage V")
		}
		if edit.DialysisType == nil {
			errs = errs.Add("ckddetail.dialysis_type", validate.CodeRequired,
				"dialysis type is required for a patient on dialysis")
		}
		if edit.DialysisDuration == nil {
			errs = errs.Add("ckddetail.dialysis_duration", validate.CodeRequired,
				"dialysis duration is required for a patient on dialysis")
		}
	}
	if !edit.Dialysis && stage == nil && calculated == nil {
		errs = errs.Add("ckddetail.stage", validate.CodeStageUndetermined,
			"CKD requires a stage, either stated or derivable from age, gender, and creatinine")
	}
	if errs.HasErrors() {
		return Canonical{}, errs
	}

	out := Canonical{
		Dialysis:         edit.Dialysis,
		DialysisType:     edit.DialysisType,
		DialysisDuration: edit.DialysisDuration,
	}
	switch {
	case edit.Dialysis:
		out.Stage = clinical.StageV
	case stage != nil:
		out.Stage = *stage
	default:
		out.Stage = *calculated
	}
	return out, nil
}

func calculatedStage(pctx Context) *clinical.Stage {
	if pctx.Age == nil || pctx.Gender == nil || pctx.Creatinine == nil {
		return nil
	}
	s := renal.StageFromCreatinine(*pctx.Creatinine, *pctx.Age, *pctx.Gender)
	return &s
}
