// Package patient owns the patient record and its one-to-one demographic
// details, and runs the whole-payload edit validation that the per-detail
// validators plug into.
package patient

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/internal/domain/ckd"
	"github.com/gouthelper/gouthelper/internal/domain/gout"
	"github.com/gouthelper/gouthelper/internal/domain/medhistory"
	"github.com/gouthelper/gouthelper/pkg/clinical"
)

// Patient maps to the patient table. Role is PATIENT for a self-managed
// record or PSEUDOPATIENT for one kept by a provider or anonymous visitor.
// ProviderAlias is non-null exactly when ProviderID is; the table CHECK
// enforces the pairing.
type Patient struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	Username      string        `db:"username" json:"username"`
	Role          clinical.Role `db:"role" json:"role"`
	ProviderID    *uuid.UUID    `db:"provider_id" json:"provider_id,omitempty"`
	ProviderAlias *int          `db:"provider_alias" json:"provider_alias,omitempty"`
	CreatorID     *uuid.UUID    `db:"creator_id" json:"creator_id,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// DateOfBirth, Gender, and Ethnicity are one-to-one demographic records
// created together with their patient.
type DateOfBirth struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Value     time.Time `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Gender struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	Value     clinical.Gender `db:"value" json:"value"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type Ethnicity struct {
	ID        uuid.UUID          `db:"id" json:"id"`
	PatientID uuid.UUID          `db:"patient_id" json:"patient_id"`
	Value     clinical.Ethnicity `db:"value" json:"value"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt time.Time          `db:"updated_at" json:"updated_at"`
}

// Profile is a patient with its demographic details loaded.
type Profile struct {
	Patient     Patient      `json:"patient"`
	DateOfBirth *DateOfBirth `json:"date_of_birth,omitempty"`
	Gender      *Gender      `json:"gender,omitempty"`
	Ethnicity   *Ethnicity   `json:"ethnicity,omitempty"`
}

// Edit is the full patient-edit payload. DateOfBirth is mandatory so the
// age-dependent checks always have an age to work with.
type Edit struct {
	Username    string             `json:"username"`
	DateOfBirth time.Time          `json:"date_of_birth"`
	Gender      clinical.Gender    `json:"gender"`
	Ethnicity   clinical.Ethnicity `json:"ethnicity"`
	Gout        gout.Edit          `json:"gout"`
	Menopause   *medhistory.Edit   `json:"menopause,omitempty"`
	CKD         *ckd.Edit          `json:"ckd,omitempty"`
	Creatinine  *decimal.Decimal   `json:"baseline_creatinine,omitempty"`
}

// Canonical is a fully validated patient edit with every derived field
// resolved. Menopause is nil when the entry was not required.
type Canonical struct {
	Username    string
	DateOfBirth time.Time
	Age         int
	Gender      clinical.Gender
	Ethnicity   clinical.Ethnicity
	Gout        gout.Edit
	Menopause   *medhistory.Edit
	CKD         *ckd.Canonical
	Creatinine  *decimal.Decimal
}
