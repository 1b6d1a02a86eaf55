// Package ckd manages chronic kidney disease details and the cross-field
// validation that keeps dialysis, stage, and lab-derived stage consistent.
package ckd

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/pkg/clinical"
)

// CkdDetail maps to the ckd_detail table. Exactly one of two shapes is
// storable: non-dialysis CKD (stage set, type and duration null) or dialysis
// CKD (stage V, type and duration set). The table CHECK constraint enforces
// the same rule independently of the validator.
type CkdDetail struct {
	ID               uuid.UUID                  `db:"id" json:"id"`
	PatientID        uuid.UUID                  `db:"patient_id" json:"patient_id"`
	Dialysis         bool                       `db:"dialysis" json:"dialysis"`
	DialysisType     *clinical.DialysisType     `db:"dialysis_type" json:"dialysis_type"`
	DialysisDuration *clinical.DialysisDuration `db:"dialysis_duration" json:"dialysis_duration"`
	Stage            clinical.Stage             `db:"stage" json:"stage"`
	CreatedAt        time.Time                  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time                  `db:"updated_at" json:"updated_at"`
}

// Edit is the partial CKD payload. Stage may be omitted when it is derivable
// from labs or implied by dialysis.
type Edit struct {
	Dialysis         bool                       `json:"dialysis"`
	DialysisType     *clinical.DialysisType     `json:"dialysis_type"`
	DialysisDuration *clinical.DialysisDuration `json:"dialysis_duration"`
	Stage            *clinical.Stage            `json:"stage"`
}

// Context carries the patient facts the validator derives a stage from. The
// calculated stage exists only when all three fields are present.
type Context struct {
	Age        *int
	Gender     *clinical.Gender
	Creatinine *decimal.Decimal
}

// Canonical is a validated CKD detail with every derived field resolved.
type Canonical struct {
	Dialysis         bool                       `json:"dialysis"`
	DialysisType     *clinical.DialysisType     `json:"dialysis_type"`
	DialysisDuration *clinical.DialysisDuration `json:"dialysis_duration"`
	Stage            clinical.Stage             `json:"stage"`
}

// Edit converts the canonical form back into a payload, for re-validation
// on subsequent edits.
func (c Canonical) Edit() Edit {
	stage := c.Stage
	return Edit{
		Dialysis:         c.Dialysis,
		DialysisType:     c.DialysisType,
		DialysisDuration: c.DialysisDuration,
		Stage:            &stage,
	}
}
