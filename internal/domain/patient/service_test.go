package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/internal/domain/ckd"
	"github.com/gouthelper/gouthelper/internal/domain/gout"
	"github.com/gouthelper/gouthelper/internal/domain/labs"
	"github.com/gouthelper/gouthelper/internal/domain/medhistory"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

type mockRepo struct {
	patients    map[uuid.UUID]*Patient
	dobs        map[uuid.UUID]*DateOfBirth
	genders     map[uuid.UUID]*Gender
	ethnicities map[uuid.UUID]*Ethnicity
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:    make(map[uuid.UUID]*Patient),
		dobs:        make(map[uuid.UUID]*DateOfBirth),
		genders:     make(map[uuid.UUID]*Gender),
		ethnicities: make(map[uuid.UUID]*Ethnicity),
	}
}
func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}
func (m *mockRepo) GetByUsername(_ context.Context, username string) (*Patient, error) {
	for _, p := range m.patients {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.patients[p.ID] = p
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	delete(m.dobs, id)
	delete(m.genders, id)
	delete(m.ethnicities, id)
	return nil
}
func (m *mockRepo) ListByProvider(_ context.Context, pid uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.patients {
		if p.ProviderID != nil && *p.ProviderID == pid {
			r = append(r, p)
		}
	}
	return r, len(r), nil
}
func (m *mockRepo) NextProviderAlias(_ context.Context, pid uuid.UUID) (int, error) {
	max := 0
	for _, p := range m.patients {
		if p.ProviderID != nil && *p.ProviderID == pid && p.ProviderAlias != nil && *p.ProviderAlias > max {
			max = *p.ProviderAlias
		}
	}
	return max + 1, nil
}
func (m *mockRepo) SetDateOfBirth(_ context.Context, d *DateOfBirth) error {
	m.dobs[d.PatientID] = d
	return nil
}
func (m *mockRepo) GetDateOfBirth(_ context.Context, pid uuid.UUID) (*DateOfBirth, error) {
	d, ok := m.dobs[pid]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}
func (m *mockRepo) SetGender(_ context.Context, g *Gender) error {
	m.genders[g.PatientID] = g
	return nil
}
func (m *mockRepo) GetGender(_ context.Context, pid uuid.UUID) (*Gender, error) {
	g, ok := m.genders[pid]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return g, nil
}
func (m *mockRepo) SetEthnicity(_ context.Context, e *Ethnicity) error {
	m.ethnicities[e.PatientID] = e
	return nil
}
func (m *mockRepo) GetEthnicity(_ context.Context, pid uuid.UUID) (*Ethnicity, error) {
	e, ok := m.ethnicities[pid]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

type mockWriters struct {
	gout      map[uuid.UUID]gout.Edit
	baselines map[uuid.UUID]decimal.Decimal
	ckds      map[uuid.UUID]ckd.Edit
	history   map[uuid.UUID][]medhistory.Edit
}

func newMockWriters() *mockWriters {
	return &mockWriters{
		gout:      make(map[uuid.UUID]gout.Edit),
		baselines: make(map[uuid.UUID]decimal.Decimal),
		ckds:      make(map[uuid.UUID]ckd.Edit),
		history:   make(map[uuid.UUID][]medhistory.Edit),
	}
}
func (m *mockWriters) Set(ctx context.Context, _ *uuid.UUID, pid uuid.UUID, edit gout.Edit) (*gout.GoutDetail, error) {
	m.gout[pid] = edit
	return &gout.GoutDetail{PatientID: pid}, nil
}
func (m *mockWriters) SetBaseline(_ context.Context, _ *uuid.UUID, pid uuid.UUID, edit labs.Edit) (*labs.BaselineCreatinine, error) {
	m.baselines[pid] = edit.Value
	return &labs.BaselineCreatinine{PatientID: pid, Value: edit.Value}, nil
}
func (m *mockWriters) BaselineValue(_ context.Context, pid uuid.UUID) *decimal.Decimal {
	v, ok := m.baselines[pid]
	if !ok {
		return nil
	}
	return &v
}

type mockCkdWriter struct{ m *mockWriters }

func (w mockCkdWriter) Set(_ context.Context, _ *uuid.UUID, pid uuid.UUID, edit ckd.Edit, _ ckd.Context) (*ckd.CkdDetail, error) {
	w.m.ckds[pid] = edit
	return &ckd.CkdDetail{PatientID: pid}, nil
}

type mockHistoryWriter struct{ m *mockWriters }

func (w mockHistoryWriter) Set(_ context.Context, _ *uuid.UUID, pid uuid.UUID, edit medhistory.Edit) (*medhistory.MedicalHistory, error) {
	w.m.history[pid] = append(w.m.history[pid], edit)
	return &medhistory.MedicalHistory{PatientID: pid, Type: edit.Type, HistoryOf: edit.HistoryOf}, nil
}

func newTestService() (*Service, *mockRepo, *mockWriters) {
	repo := newMockRepo()
	writers := newMockWriters()
	svc := NewService(repo, nil, nil, writers, writers, mockCkdWriter{writers}, mockHistoryWriter{writers})
	svc.now = func() time.Time { return testNow }
	return svc, repo, writers
}

func TestCreate_CascadesAllDetails(t *testing.T) {
	svc, repo, writers := newTestService()

	cr := decimal.RequireFromString("1.9")
	stage := clinical.StageIII
	edit := baseEdit(45, clinical.Male)
	edit.Creatinine = &cr
	edit.CKD = &ckd.Edit{Stage: &stage}
	edit.Gout = gout.Edit{OnUlt: true}

	p, err := svc.Create(context.Background(), nil, clinical.RolePseudopatient, nil, edit)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := repo.dobs[p.ID]; !ok {
		t.Error("date of birth not written")
	}
	if g := repo.genders[p.ID]; g == nil || g.Value != clinical.Male {
		t.Error("gender not written")
	}
	if _, ok := repo.ethnicities[p.ID]; !ok {
		t.Error("ethnicity not written")
	}
	if !writers.gout[p.ID].OnUlt {
		t.Error("gout detail not written")
	}
	if _, ok := writers.baselines[p.ID]; !ok {
		t.Error("baseline creatinine not written")
	}
	if got := writers.ckds[p.ID]; got.Stage == nil || *got.Stage != clinical.StageIII {
		t.Error("ckd detail not written with canonical stage")
	}
}

func TestCreate_RejectsInvalidRole(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), nil, clinical.RoleProvider, nil, baseEdit(30, clinical.Male))
	if err == nil {
		t.Fatal("provider role cannot own a patient record")
	}
}

func TestCreate_AllocatesProviderAlias(t *testing.T) {
	svc, _, _ := newTestService()
	providerID := uuid.New()

	first, err := svc.Create(context.Background(), nil, clinical.RolePseudopatient, &providerID, baseEdit(30, clinical.Male))
	if err != nil {
		t.Fatal(err)
	}
	edit := baseEdit(35, clinical.Male)
	edit.Username = "secondpatient"
	second, err := svc.Create(context.Background(), nil, clinical.RolePseudopatient, &providerID, edit)
	if err != nil {
		t.Fatal(err)
	}
	if first.ProviderAlias == nil || *first.ProviderAlias != 1 {
		t.Errorf("first alias = %v, want 1", first.ProviderAlias)
	}
	if second.ProviderAlias == nil || *second.ProviderAlias != 2 {
		t.Errorf("second alias = %v, want 2", second.ProviderAlias)
	}
}

func TestCreate_ValidationIsAtomic(t *testing.T) {
	svc, repo, _ := newTestService()

	edit := baseEdit(50, clinical.Female) // menopause entry missing
	_, err := svc.Create(context.Background(), nil, clinical.RolePseudopatient, nil, edit)
	if err == nil {
		t.Fatal("expected MENOPAUSE_REQUIRED")
	}
	if _, ok := validate.AsErrors(err); !ok {
		t.Fatalf("expected validate.Errors, got %T", err)
	}
	if len(repo.patients) != 0 {
		t.Error("nothing may be persisted on a rejected edit")
	}
}

func TestUpdate_RewritesDetails(t *testing.T) {
	svc, repo, _ := newTestService()

	p, err := svc.Create(context.Background(), nil, clinical.RolePseudopatient, nil, baseEdit(30, clinical.Male))
	if err != nil {
		t.Fatal(err)
	}

	edit := baseEdit(30, clinical.Male)
	edit.Username = "renamed"
	edit.Ethnicity = clinical.Korean
	if _, err := svc.Update(context.Background(), nil, p.ID, edit); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.patients[p.ID].Username != "renamed" {
		t.Error("username not updated")
	}
	if repo.ethnicities[p.ID].Value != clinical.Korean {
		t.Error("ethnicity not rewritten")
	}
}

func TestFacts(t *testing.T) {
	svc, _, _ := newTestService()

	edit := baseEdit(45, clinical.Female)
	edit.Menopause = &medhistory.Edit{Type: clinical.MHMenopause, HistoryOf: false}
	p, err := svc.Create(context.Background(), nil, clinical.RolePseudopatient, nil, edit)
	if err != nil {
		t.Fatal(err)
	}
	age, gender, err := svc.Facts(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if age == nil || *age != 45 {
		t.Errorf("age = %v, want 45", age)
	}
	if gender == nil || *gender != clinical.Female {
		t.Errorf("gender = %v, want FEMALE", gender)
	}
}

func TestRef(t *testing.T) {
	svc, _, _ := newTestService()

	ref, err := svc.Ref(context.Background(), uuid.New())
	if err != nil || ref != nil {
		t.Error("missing patient should resolve to nil ref")
	}

	providerID := uuid.New()
	creatorID := uuid.New()
	p, err := svc.Create(context.Background(), &creatorID, clinical.RolePseudopatient, &providerID, baseEdit(30, clinical.Male))
	if err != nil {
		t.Fatal(err)
	}
	ref, err = svc.Ref(context.Background(), p.ID)
	if err != nil || ref == nil {
		t.Fatal("expected ref")
	}
	if ref.ProviderID == nil || *ref.ProviderID != providerID {
		t.Error("provider edge missing")
	}
	if ref.CreatorID == nil || *ref.CreatorID != creatorID {
		t.Error("creator edge missing")
	}
}

type brokenRepo struct {
	*mockRepo
	err error
}

func (b brokenRepo) GetByID(_ context.Context, _ uuid.UUID) (*Patient, error) {
	return nil, b.err
}

func (b brokenRepo) GetDateOfBirth(_ context.Context, _ uuid.UUID) (*DateOfBirth, error) {
	return nil, b.err
}

// A lookup failure must not masquerade as a missing patient, or the
// permission layer would treat the target as unaffiliated.
func TestRef_LookupFailureIsNotMissing(t *testing.T) {
	repo := brokenRepo{newMockRepo(), fmt.Errorf("connection reset")}
	writers := newMockWriters()
	svc := NewService(repo, nil, nil, writers, writers, mockCkdWriter{writers}, mockHistoryWriter{writers})

	ref, err := svc.Ref(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected the lookup failure to surface")
	}
	if ref != nil {
		t.Error("no ref should be returned on failure")
	}

	if _, _, err := svc.Facts(context.Background(), uuid.New()); err == nil {
		t.Error("expected the lookup failure to surface from Facts")
	}
}
