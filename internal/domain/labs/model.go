// Package labs holds laboratory results. The only lab GoutHelper tracks is
// the baseline serum creatinine used by the CKD validator.
package labs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// BaselineCreatinine maps to the baseline_creatinine table. One per patient.
// The unit is fixed to mg/dL.
type BaselineCreatinine struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	Value     decimal.Decimal `db:"value" json:"value"`
	Units     string          `db:"units" json:"units"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ReferenceRange returns the lower and upper reference limits for serum
// creatinine in mg/dL.
func ReferenceRange() (lower, upper decimal.Decimal) {
	return clinical.CreatinineLowerLimit, clinical.CreatinineUpperLimit
}

// Edit is the baseline creatinine payload inside a patient edit.
type Edit struct {
	Value decimal.Decimal `json:"value"`
}

// ValidateBaselineCreatinine accepts values in [0.50, 5.00] mg/dL. Values
// above 5.00 imply active dialysis and belong on the CKD record instead.
func ValidateBaselineCreatinine(value decimal.Decimal) validate.Errors {
	var errs validate.Errors
	if value.LessThan(clinical.CreatinineMinValue) || value.GreaterThan(clinical.CreatinineMaxValue) {
		errs = errs.Addf("baselinecreatinine.value", validate.CodeCreatinineOutOfRange,
			"baseline creatinine %s mg/dL is outside the accepted range [%s, %s]",
			value.StringFixed(2), clinical.CreatinineMinValue.StringFixed(2), clinical.CreatinineMaxValue.StringFixed(2))
	}
	return errs
}

// Validate normalizes the payload or reports why it cannot be accepted.
// The value is quantized to two decimals (banker's rounding) before the
// range check, so 5.004 passes as 5.00.
func (e Edit) Validate() (decimal.Decimal, validate.Errors) {
	v := e.Value.RoundBank(2)
	if errs := ValidateBaselineCreatinine(v); errs.HasErrors() {
		return decimal.Decimal{}, errs
	}
	return v, nil
}
