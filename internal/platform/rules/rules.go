// Package rules implements GoutHelper's object-level permission algebra: a
// set of named leaf predicates over an (actor, target) pair, composed into
// per-action rules with AND / OR / NOT nodes that short-circuit left to
// right. The composed formulas are part of the API contract; changing them
// changes who can see and edit patients.
package rules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// Actor is the authenticated (or anonymous) user a request acts as.
type Actor struct {
	ID        uuid.UUID
	Username  string
	Role      clinical.Role
	Anonymous bool
}

// Anonymous returns the anonymous actor.
func Anonymous() Actor {
	return Actor{Anonymous: true}
}

// PatientRef carries the ownership edges of the patient a target belongs to.
// For a patient-typed target it describes the patient itself.
type PatientRef struct {
	ID            uuid.UUID
	Username      string
	Role          clinical.Role
	ProviderID    *uuid.UUID
	ProviderAlias *int
	CreatorID     *uuid.UUID
}

// Target is the object a rule is evaluated against. Exists is false when the
// caller could not resolve a target at all. IsUser marks user-typed targets
// (patients, providers, admins); detail records leave it false and set
// Patient to their owning patient.
type Target struct {
	Exists   bool
	IsUser   bool
	ID       uuid.UUID
	Username string
	Role     clinical.Role
	Patient  *PatientRef
}

// ForPatient builds the target for a patient user record.
func ForPatient(p PatientRef) Target {
	return Target{
		Exists:   true,
		IsUser:   true,
		ID:       p.ID,
		Username: p.Username,
		Role:     p.Role,
		Patient:  &p,
	}
}

// ForRecord builds the target for a detail record owned by a patient.
func ForRecord(id uuid.UUID, owner PatientRef) Target {
	return Target{Exists: true, ID: id, Patient: &owner}
}

// ForUser builds the target for a non-patient user record.
func ForUser(id uuid.UUID, username string, role clinical.Role) Target {
	return Target{Exists: true, IsUser: true, ID: id, Username: username, Role: role}
}

// NoTarget is the unresolved target.
func NoTarget() Target {
	return Target{}
}

// InapplicableError reports that a leaf predicate touched a relation the
// target does not have. Composites must order role-narrowing predicates
// before relation-accessing ones so this only surfaces on misuse.
type InapplicableError struct {
	Predicate string
}

func (e *InapplicableError) Error() string {
	return fmt.Sprintf("predicate %s is inapplicable to the target", e.Predicate)
}

// Predicate is a node in the rule expression tree.
type Predicate struct {
	name string
	eval func(a Actor, t Target) (bool, error)
}

// Name returns the predicate's name, mainly for diagnostics.
func (p Predicate) Name() string { return p.name }

// Eval evaluates the predicate for an (actor, target) pair.
func (p Predicate) Eval(a Actor, t Target) (bool, error) {
	return p.eval(a, t)
}

func leaf(name string, fn func(a Actor, t Target) (bool, error)) Predicate {
	return Predicate{name: name, eval: fn}
}

// And returns a predicate true iff every operand is true, evaluated left to
// right with short-circuiting.
func And(ps ...Predicate) Predicate {
	return Predicate{name: "and", eval: func(a Actor, t Target) (bool, error) {
		for _, p := range ps {
			ok, err := p.eval(a, t)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}}
}

// Or returns a predicate true iff any operand is true, evaluated left to
// right with short-circuiting.
func Or(ps ...Predicate) Predicate {
	return Predicate{name: "or", eval: func(a Actor, t Target) (bool, error) {
		for _, p := range ps {
			ok, err := p.eval(a, t)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return Predicate{name: "not " + p.name, eval: func(a Actor, t Target) (bool, error) {
		ok, err := p.eval(a, t)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}}
}

// ── Leaf predicates ──

var ActorIsAnonymous = leaf("actor_is_anonymous", func(a Actor, _ Target) (bool, error) {
	return a.Anonymous, nil
})

var ActorIsAdmin = leaf("actor_is_admin", func(a Actor, _ Target) (bool, error) {
	return !a.Anonymous && a.Role == clinical.RoleAdmin, nil
})

var ActorIsProvider = leaf("actor_is_provider", func(a Actor, _ Target) (bool, error) {
	return !a.Anonymous && a.Role == clinical.RoleProvider, nil
})

var TargetExists = leaf("target_exists", func(_ Actor, t Target) (bool, error) {
	return t.Exists, nil
})

var TargetIsPatientOrPseudopatient = leaf("target_is_patient_or_pseudopatient", func(_ Actor, t Target) (bool, error) {
	return t.Exists && t.IsUser &&
		(t.Role == clinical.RolePatient || t.Role == clinical.RolePseudopatient), nil
})

var TargetIsAProvider = leaf("target_is_a_provider", func(_ Actor, t Target) (bool, error) {
	return t.Exists && t.IsUser && t.Role == clinical.RoleProvider, nil
})

var ActorIsTarget = leaf("actor_equals_target", func(a Actor, t Target) (bool, error) {
	return t.Exists && t.IsUser && !a.Anonymous && a.ID == t.ID, nil
})

var ActorUsernameIsTarget = leaf("actor_username_equals_target", func(a Actor, t Target) (bool, error) {
	return t.Exists && t.Username != "" && a.Username == t.Username, nil
})

var ActorIsTargetPatient = leaf("actor_equals_target_patient", func(a Actor, t Target) (bool, error) {
	if !t.Exists || t.Patient == nil {
		return false, &InapplicableError{Predicate: "actor_equals_target_patient"}
	}
	return !a.Anonymous && a.ID == t.Patient.ID, nil
})

var ActorIsTargetPatientsProvider = leaf("actor_equals_target_patients_provider", func(a Actor, t Target) (bool, error) {
	if !t.Exists || t.Patient == nil {
		return false, &InapplicableError{Predicate: "actor_equals_target_patients_provider"}
	}
	return !a.Anonymous && t.Patient.ProviderID != nil && *t.Patient.ProviderID == a.ID, nil
})

var ActorIsTargetPatientsCreator = leaf("actor_equals_target_patients_creator", func(a Actor, t Target) (bool, error) {
	if !t.Exists || t.Patient == nil {
		return false, &InapplicableError{Predicate: "actor_equals_target_patients_creator"}
	}
	return !a.Anonymous && t.Patient.CreatorID != nil && *t.Patient.CreatorID == a.ID, nil
})

var TargetPatientHasNoProvider = leaf("target_patient_has_no_provider", func(_ Actor, t Target) (bool, error) {
	if !t.Exists || t.Patient == nil {
		return false, &InapplicableError{Predicate: "target_patient_has_no_provider"}
	}
	return t.Patient.ProviderID == nil, nil
})

var TargetPatientHasNoCreator = leaf("target_patient_has_no_creator", func(_ Actor, t Target) (bool, error) {
	if !t.Exists || t.Patient == nil {
		return false, &InapplicableError{Predicate: "target_patient_has_no_creator"}
	}
	return t.Patient.CreatorID == nil, nil
})

// ── Composed rules ──

// AddObject governs creating a detail record for a patient.
var AddObject = Or(
	And(
		Not(ActorIsAnonymous),
		Or(
			ActorIsAdmin,
			And(TargetExists, Or(ActorIsTarget, ActorIsTargetPatientsProvider, ActorIsTargetPatientsCreator)),
		),
	),
	And(TargetPatientHasNoProvider, TargetPatientHasNoCreator),
)

// DeleteObject governs deleting a detail record.
var DeleteObject = And(
	Not(ActorIsAnonymous),
	Or(ActorIsAdmin, ActorIsTargetPatient, ActorIsTargetPatientsProvider, ActorIsTargetPatientsCreator),
)

// ChangeObject governs editing a detail record. Records of unaffiliated
// patients (no provider, no creator) are world-editable.
var ChangeObject = Or(
	DeleteObject,
	And(TargetPatientHasNoProvider, TargetPatientHasNoCreator),
)

// ViewObject shares ChangeObject's formula.
var ViewObject = ChangeObject

// AddProviderPatient governs creating a patient bound to a provider: admins
// may add for any provider, providers only for themselves.
var AddProviderPatient = And(
	Not(ActorIsAnonymous),
	Or(
		And(ActorIsAdmin, TargetIsAProvider),
		And(ActorIsProvider, ActorUsernameIsTarget),
	),
)

// ChangePatient governs editing a patient record itself.
var ChangePatient = Or(
	And(
		Not(ActorIsAnonymous),
		TargetIsPatientOrPseudopatient,
		Or(
			ActorIsAdmin,
			ActorIsTarget,
			ActorIsTargetPatientsProvider,
			And(TargetPatientHasNoProvider, Or(TargetPatientHasNoCreator, ActorIsTargetPatientsCreator)),
		),
	),
	And(
		ActorIsAnonymous,
		TargetIsPatientOrPseudopatient,
		TargetPatientHasNoProvider,
		TargetPatientHasNoCreator,
	),
)

// ViewPatient shares ChangePatient's formula.
var ViewPatient = ChangePatient

// DeletePatient governs deleting a patient record.
var DeletePatient = And(
	Not(ActorIsAnonymous),
	TargetIsPatientOrPseudopatient,
	Or(ActorIsAdmin, ActorIsTarget, ActorIsTargetPatientsProvider, ActorIsTargetPatientsCreator),
)

// ChangeUser governs editing a non-patient user record.
var ChangeUser = And(Not(ActorIsAnonymous), Or(ActorIsTarget, ActorIsAdmin))

// DeleteUser and ViewUser share ChangeUser's formula.
var (
	DeleteUser = ChangeUser
	ViewUser   = ChangeUser
)

// Action names a permission-checked operation.
type Action string

const (
	ActionAdd                Action = "add"
	ActionChange             Action = "change"
	ActionDelete             Action = "delete"
	ActionView               Action = "view"
	ActionAddProviderPatient Action = "add_patient_for_provider"
	ActionChangePatient      Action = "change_patient"
	ActionDeletePatient      Action = "delete_patient"
	ActionViewPatient        Action = "view_patient"
	ActionChangeUser         Action = "change_user"
	ActionDeleteUser         Action = "delete_user"
	ActionViewUser           Action = "view_user"
)

var ruleForAction = map[Action]Predicate{
	ActionAdd:                AddObject,
	ActionChange:             ChangeObject,
	ActionDelete:             DeleteObject,
	ActionView:               ViewObject,
	ActionAddProviderPatient: AddProviderPatient,
	ActionChangePatient:      ChangePatient,
	ActionDeletePatient:      DeletePatient,
	ActionViewPatient:        ViewPatient,
	ActionChangeUser:         ChangeUser,
	ActionDeleteUser:         DeleteUser,
	ActionViewUser:           ViewUser,
}

// Can reports whether the actor may perform the action on the target. A
// predicate evaluation error counts as a denial.
func Can(action Action, actor Actor, target Target) bool {
	rule, ok := ruleForAction[action]
	if !ok {
		return false
	}
	allowed, err := rule.Eval(actor, target)
	return err == nil && allowed
}

// Decision is the result of a permission check, with a stable code for
// denials.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
}

// Decide evaluates the action's rule and renders a denial with a stable
// code: NOT_FOUND when no target could be resolved, FORBIDDEN otherwise.
func Decide(action Action, actor Actor, target Target) Decision {
	if Can(action, actor, target) {
		return Decision{Allowed: true}
	}
	who := actor.Username
	if actor.Anonymous {
		who = "anonymous"
	}
	if !target.Exists {
		return Decision{
			Code:   validate.CodeNotFound,
			Reason: fmt.Sprintf("no target found for %s by %s", action, who),
		}
	}
	return Decision{
		Code:   validate.CodeForbidden,
		Reason: fmt.Sprintf("%s may not %s this target", who, action),
	}
}
