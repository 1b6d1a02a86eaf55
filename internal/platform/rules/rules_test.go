package rules

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

func ptr[T any](v T) *T { return &v }

func admin() Actor {
	return Actor{ID: uuid.New(), Username: "root", Role: clinical.RoleAdmin}
}

func provider(id uuid.UUID) Actor {
	return Actor{ID: id, Username: "drjones", Role: clinical.RoleProvider}
}

func patientActor(id uuid.UUID) Actor {
	return Actor{ID: id, Username: "pat", Role: clinical.RolePatient}
}

// unaffiliated returns a pseudopatient with no provider and no creator.
func unaffiliated() PatientRef {
	return PatientRef{ID: uuid.New(), Username: "pseudo", Role: clinical.RolePseudopatient}
}

func boundPatient(providerID, creatorID uuid.UUID) PatientRef {
	return PatientRef{
		ID:            uuid.New(),
		Username:      "pat",
		Role:          clinical.RolePatient,
		ProviderID:    &providerID,
		ProviderAlias: ptr(1),
		CreatorID:     &creatorID,
	}
}

func TestViewPatientUnaffiliatedIsWorldViewable(t *testing.T) {
	target := ForPatient(unaffiliated())
	if !Can(ActionViewPatient, Anonymous(), target) {
		t.Error("anonymous should view a patient with no provider and no creator")
	}

	// The same patient with a provider assigned is no longer world-viewable.
	providerID := uuid.New()
	bound := unaffiliated()
	bound.ProviderID = &providerID
	bound.ProviderAlias = ptr(7)
	if Can(ActionViewPatient, Anonymous(), ForPatient(bound)) {
		t.Error("anonymous should not view a patient with a provider")
	}
}

func TestChangePatient(t *testing.T) {
	providerID := uuid.New()
	creatorID := uuid.New()
	bound := boundPatient(providerID, creatorID)
	target := ForPatient(bound)

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin", admin(), true},
		{"the patient", patientActor(bound.ID), true},
		{"the provider", provider(providerID), true},
		{"the creator, patient has provider", provider(creatorID), false},
		{"unrelated provider", provider(uuid.New()), false},
		{"anonymous", Anonymous(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(ActionChangePatient, tt.actor, target); got != tt.want {
				t.Errorf("Can(change_patient) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChangePatientCreatorWithoutProvider(t *testing.T) {
	creatorID := uuid.New()
	p := unaffiliated()
	p.CreatorID = &creatorID
	target := ForPatient(p)

	if !Can(ActionChangePatient, provider(creatorID), target) {
		t.Error("creator should edit a patient with no provider")
	}
	if Can(ActionChangePatient, provider(uuid.New()), target) {
		t.Error("stranger should not edit a created patient")
	}
	if Can(ActionChangePatient, Anonymous(), target) {
		t.Error("anonymous should not edit a patient that has a creator")
	}
}

func TestDeletePatient(t *testing.T) {
	providerID := uuid.New()
	creatorID := uuid.New()
	bound := boundPatient(providerID, creatorID)
	target := ForPatient(bound)

	for name, tc := range map[string]struct {
		actor Actor
		want  bool
	}{
		"admin":    {admin(), true},
		"patient":  {patientActor(bound.ID), true},
		"provider": {provider(providerID), true},
		"creator":  {provider(creatorID), true},
		"stranger": {provider(uuid.New()), false},
		"anon":     {Anonymous(), false},
	} {
		if got := Can(ActionDeletePatient, tc.actor, target); got != tc.want {
			t.Errorf("%s: Can(delete_patient) = %v, want %v", name, got, tc.want)
		}
	}

	// delete-patient never applies to a non-patient user record.
	userTarget := ForUser(uuid.New(), "drsmith", clinical.RoleProvider)
	if Can(ActionDeletePatient, admin(), userTarget) {
		t.Error("delete_patient should not apply to a provider record")
	}
}

func TestDetailRecordRules(t *testing.T) {
	providerID := uuid.New()
	creatorID := uuid.New()
	owner := boundPatient(providerID, creatorID)
	record := ForRecord(uuid.New(), owner)

	for _, action := range []Action{ActionChange, ActionDelete, ActionView} {
		if !Can(action, patientActor(owner.ID), record) {
			t.Errorf("owner patient denied %s on own record", action)
		}
		if !Can(action, provider(providerID), record) {
			t.Errorf("provider denied %s on bound patient's record", action)
		}
		if !Can(action, provider(creatorID), record) {
			t.Errorf("creator denied %s", action)
		}
		if Can(action, provider(uuid.New()), record) {
			t.Errorf("stranger allowed %s", action)
		}
		if Can(action, Anonymous(), record) {
			t.Errorf("anonymous allowed %s on an affiliated record", action)
		}
	}

	// Records of unaffiliated patients are world-editable.
	free := ForRecord(uuid.New(), unaffiliated())
	for _, action := range []Action{ActionChange, ActionView} {
		if !Can(action, Anonymous(), free) {
			t.Errorf("anonymous denied %s on unaffiliated record", action)
		}
	}
	// But not world-deletable.
	if Can(ActionDelete, Anonymous(), free) {
		t.Error("anonymous allowed delete on unaffiliated record")
	}
}

func TestAddObject(t *testing.T) {
	providerID := uuid.New()
	owner := boundPatient(providerID, uuid.New())
	target := ForPatient(owner)

	if !Can(ActionAdd, admin(), NoTarget()) {
		t.Error("admin should add even without a resolved target")
	}
	if !Can(ActionAdd, provider(providerID), target) {
		t.Error("bound provider should add records for the patient")
	}
	if Can(ActionAdd, provider(uuid.New()), target) {
		t.Error("unrelated provider should not add records")
	}
	if !Can(ActionAdd, Anonymous(), ForPatient(unaffiliated())) {
		t.Error("anyone should add records for an unaffiliated patient")
	}
	if Can(ActionAdd, Anonymous(), NoTarget()) {
		t.Error("anonymous with no target should be denied")
	}
}

func TestAddProviderPatient(t *testing.T) {
	prov := provider(uuid.New())
	self := ForUser(prov.ID, prov.Username, clinical.RoleProvider)
	other := ForUser(uuid.New(), "drsmith", clinical.RoleProvider)
	nonProvider := ForUser(uuid.New(), "pat", clinical.RolePatient)

	if !Can(ActionAddProviderPatient, prov, self) {
		t.Error("provider should add patients for themselves")
	}
	if Can(ActionAddProviderPatient, prov, other) {
		t.Error("provider should not add patients for another provider")
	}
	if !Can(ActionAddProviderPatient, admin(), other) {
		t.Error("admin should add patients for any provider")
	}
	if Can(ActionAddProviderPatient, admin(), nonProvider) {
		t.Error("admin may only add provider patients for actual providers")
	}
	if Can(ActionAddProviderPatient, Anonymous(), self) {
		t.Error("anonymous denied")
	}
}

func TestUserRules(t *testing.T) {
	id := uuid.New()
	self := Actor{ID: id, Username: "drjones", Role: clinical.RoleProvider}
	target := ForUser(id, "drjones", clinical.RoleProvider)

	for _, action := range []Action{ActionChangeUser, ActionDeleteUser, ActionViewUser} {
		if !Can(action, self, target) {
			t.Errorf("user denied %s on own record", action)
		}
		if !Can(action, admin(), target) {
			t.Errorf("admin denied %s", action)
		}
		if Can(action, provider(uuid.New()), target) {
			t.Errorf("other user allowed %s", action)
		}
		if Can(action, Anonymous(), target) {
			t.Errorf("anonymous allowed %s", action)
		}
	}
}

func TestViewChangeDuality(t *testing.T) {
	// view and change share their formula: any denial of change for a
	// non-anonymous actor on a provider-bound target is a denial of view.
	providerID := uuid.New()
	target := ForRecord(uuid.New(), boundPatient(providerID, uuid.New()))
	actors := []Actor{admin(), provider(providerID), provider(uuid.New()), patientActor(uuid.New())}
	for _, a := range actors {
		if Can(ActionChange, a, target) != Can(ActionView, a, target) {
			t.Errorf("view/change diverged for %s", a.Username)
		}
	}
}

func TestDecide(t *testing.T) {
	d := Decide(ActionDeletePatient, Anonymous(), ForPatient(unaffiliated()))
	if d.Allowed {
		t.Fatal("anonymous delete should be denied")
	}
	if d.Code != validate.CodeForbidden {
		t.Errorf("code = %s, want FORBIDDEN", d.Code)
	}

	d = Decide(ActionViewPatient, Anonymous(), NoTarget())
	if d.Allowed || d.Code != validate.CodeNotFound {
		t.Errorf("missing target should be NOT_FOUND, got %+v", d)
	}

	if d = Decide(ActionViewPatient, Anonymous(), ForPatient(unaffiliated())); !d.Allowed {
		t.Errorf("expected allow, got %+v", d)
	}
}

func TestInapplicablePredicate(t *testing.T) {
	// Relation-accessing leaves fail with a structured error on targets
	// without a patient.
	userTarget := ForUser(uuid.New(), "drsmith", clinical.RoleProvider)
	_, err := ActorIsTargetPatient.Eval(admin(), userTarget)
	if _, ok := err.(*InapplicableError); !ok {
		t.Errorf("want InapplicableError, got %v", err)
	}
	// The composed user rules never touch patient relations.
	if !Can(ActionViewUser, admin(), userTarget) {
		t.Error("admin denied view_user")
	}
}
