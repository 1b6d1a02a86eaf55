// Package medhistory stores a patient's medical history as a set of tagged
// condition records. Each condition type appears at most once per patient;
// type-specific behavior lives in lookup tables keyed by the tag.
package medhistory

import (
	"time"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// MedicalHistory maps to the medical_history table.
type MedicalHistory struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	Type      clinical.MHType `db:"mhtype" json:"type"`
	HistoryOf bool            `db:"history_of" json:"history_of"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Label returns the display name for the record's condition.
func (m *MedicalHistory) Label() string {
	return m.Type.Label()
}

// Edit is a single condition entry inside a patient edit.
type Edit struct {
	Type      clinical.MHType `json:"type"`
	HistoryOf bool            `json:"history_of"`
}

// Validate checks the condition tag against the closed enum.
func (e Edit) Validate() validate.Errors {
	var errs validate.Errors
	if !e.Type.Valid() {
		errs = errs.Addf("medhistory.type", validate.CodeInvalidChoice,
			"%q is not a known condition", string(e.Type))
	}
	return errs
}
