// Package gout tracks the gout status flags attached to every patient.
package gout

import (
	"time"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/pkg/validate"
)

// GoutDetail maps to the gout_detail table. AtGoal and Flaring are
// tri-valued: nil means unknown. The remaining flags are definite booleans.
type GoutDetail struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	AtGoal         *bool     `db:"at_goal" json:"at_goal"`
	AtGoalLongTerm bool      `db:"at_goal_long_term" json:"at_goal_long_term"`
	Flaring        *bool     `db:"flaring" json:"flaring"`
	OnPpx          bool      `db:"on_ppx" json:"on_ppx"`
	OnUlt          bool      `db:"on_ult" json:"on_ult"`
	StartingUlt    bool      `db:"starting_ult" json:"starting_ult"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Edit is the gout detail payload inside a patient edit.
type Edit struct {
	AtGoal         *bool `json:"at_goal"`
	AtGoalLongTerm bool  `json:"at_goal_long_term"`
	Flaring        *bool `json:"flaring"`
	OnPpx          bool  `json:"on_ppx"`
	OnUlt          bool  `json:"on_ult"`
	StartingUlt    bool  `json:"starting_ult"`
}

// Validate rejects a payload claiming long-term goal maintenance while the
// urate is not currently at goal. Unknown at_goal counts as not at goal.
func (e Edit) Validate() validate.Errors {
	var errs validate.Errors
	if e.AtGoalLongTerm && (e.AtGoal == nil || !*e.AtGoal) {
		errs = errs.Add("goutdetail.at_goal_long_term", validate.CodeInvalidChoice,
			"a patient cannot be at goal long term without being at goal")
	}
	return errs
}
