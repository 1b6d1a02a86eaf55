package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/internal/domain/ckd"
	"github.com/gouthelper/gouthelper/internal/domain/gout"
	"github.com/gouthelper/gouthelper/internal/domain/labs"
	"github.com/gouthelper/gouthelper/internal/domain/medhistory"
	"github.com/gouthelper/gouthelper/internal/platform/audit"
	"github.com/gouthelper/gouthelper/internal/platform/db"
	"github.com/gouthelper/gouthelper/internal/platform/rules"
	"github.com/gouthelper/gouthelper/pkg/chrono"
	"github.com/gouthelper/gouthelper/pkg/clinical"
)

// The detail writers the cascading create and update fan out to. Implemented
// by the gout, labs, ckd, and medhistory services.
type GoutWriter interface {
	Set(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit gout.Edit) (*gout.GoutDetail, error)
}

type BaselineWriter interface {
	SetBaseline(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit labs.Edit) (*labs.BaselineCreatinine, error)
	BaselineValue(ctx context.Context, patientID uuid.UUID) *decimal.Decimal
}

type CkdWriter interface {
	Set(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit ckd.Edit, pctx ckd.Context) (*ckd.CkdDetail, error)
}

type HistoryWriter interface {
	Set(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit medhistory.Edit) (*medhistory.MedicalHistory, error)
}

type Service struct {
	repo    Repository
	pool    *pgxpool.Pool
	sink    audit.Sink
	gout    GoutWriter
	labs    BaselineWriter
	ckd     CkdWriter
	history HistoryWriter
	now     func() time.Time
}

func NewService(repo Repository, pool *pgxpool.Pool, sink audit.Sink,
	goutW GoutWriter, labsW BaselineWriter, ckdW CkdWriter, historyW HistoryWriter) *Service {
	return &Service{
		repo:    repo,
		pool:    pool,
		sink:    sink,
		gout:    goutW,
		labs:    labsW,
		ckd:     ckdW,
		history: historyW,
		now:     time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*Patient, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Profile loads the patient with its demographic details.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := &Profile{Patient: *p}
	if d, err := s.repo.GetDateOfBirth(ctx, id); err == nil {
		profile.DateOfBirth = d
	}
	if g, err := s.repo.GetGender(ctx, id); err == nil {
		profile.Gender = g
	}
	if e, err := s.repo.GetEthnicity(ctx, id); err == nil {
		profile.Ethnicity = e
	}
	return profile, nil
}

func (s *Service) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListByProvider(ctx, providerID, limit, offset)
}

// Create validates the whole edit and writes the patient and every detail
// record in one transaction. role must be PATIENT or PSEUDOPATIENT;
// providerID binds the new patient to a provider and allocates its alias.
func (s *Service) Create(ctx context.Context, actorID *uuid.UUID, role clinical.Role,
	providerID *uuid.UUID, edit Edit) (*Patient, error) {
	canonical, errs := edit.Validate(s.now())
	if errs.HasErrors() {
		return nil, errs
	}
	if role != clinical.RolePatient && role != clinical.RolePseudopatient {
		return nil, fmt.Errorf("role %s cannot own a patient record", role)
	}

	txCtx, done, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.createInTx(txCtx, actorID, role, providerID, canonical)
	if err = done(err); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, "create", p.ID, nil, p)
	return p, nil
}

func (s *Service) createInTx(ctx context.Context, actorID *uuid.UUID, role clinical.Role,
	providerID *uuid.UUID, canonical Canonical) (*Patient, error) {
	p := &Patient{
		Username:  canonical.Username,
		Role:      role,
		CreatorID: actorID,
	}
	if providerID != nil {
		alias, err := s.repo.NextProviderAlias(ctx, *providerID)
		if err != nil {
			return nil, fmt.Errorf("allocate provider alias: %w", err)
		}
		p.ProviderID = providerID
		p.ProviderAlias = &alias
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	if err := s.writeDetails(ctx, actorID, p.ID, canonical); err != nil {
		return nil, err
	}
	return p, nil
}

// Update validates the whole edit and rewrites the details in one
// transaction. The edit either applies completely or not at all.
func (s *Service) Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, edit Edit) (*Patient, error) {
	canonical, errs := edit.Validate(s.now())
	if errs.HasErrors() {
		return nil, errs
	}
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txCtx, done, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	err = func() error {
		p := *before
		p.Username = canonical.Username
		if err := s.repo.Update(txCtx, &p); err != nil {
			return fmt.Errorf("update patient: %w", err)
		}
		return s.writeDetails(txCtx, actorID, id, canonical)
	}()
	if err = done(err); err != nil {
		return nil, err
	}

	after, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "update", id, before, after)
	return after, nil
}

func (s *Service) writeDetails(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, canonical Canonical) error {
	if err := s.repo.SetDateOfBirth(ctx, &DateOfBirth{PatientID: patientID, Value: canonical.DateOfBirth}); err != nil {
		return fmt.Errorf("write date of birth: %w", err)
	}
	if err := s.repo.SetGender(ctx, &Gender{PatientID: patientID, Value: canonical.Gender}); err != nil {
		return fmt.Errorf("write gender: %w", err)
	}
	if err := s.repo.SetEthnicity(ctx, &Ethnicity{PatientID: patientID, Value: canonical.Ethnicity}); err != nil {
		return fmt.Errorf("write ethnicity: %w", err)
	}
	if _, err := s.gout.Set(ctx, actorID, patientID, canonical.Gout); err != nil {
		return fmt.Errorf("write gout detail: %w", err)
	}
	if canonical.Creatinine != nil {
		if _, err := s.labs.SetBaseline(ctx, actorID, patientID, labs.Edit{Value: *canonical.Creatinine}); err != nil {
			return fmt.Errorf("write baseline creatinine: %w", err)
		}
	}
	if canonical.Menopause != nil {
		if _, err := s.history.Set(ctx, actorID, patientID, *canonical.Menopause); err != nil {
			return fmt.Errorf("write menopause history: %w", err)
		}
	}
	if canonical.CKD != nil {
		pctx := ckd.Context{Age: &canonical.Age, Creatinine: canonical.Creatinine}
		g := canonical.Gender
		pctx.Gender = &g
		if _, err := s.ckd.Set(ctx, actorID, patientID, canonical.CKD.Edit(), pctx); err != nil {
			return fmt.Errorf("write ckd detail: %w", err)
		}
	}
	return nil
}

// Delete removes the patient; detail rows cascade at the storage layer.
func (s *Service) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id, before, nil)
	return nil
}

// Ref resolves a patient into the ownership edges the permission rules
// evaluate. Returns nil, nil when the patient does not exist. Other lookup
// failures are returned as errors so a flaky query never reads as not-found.
func (s *Service) Ref(ctx context.Context, patientID uuid.UUID) (*rules.PatientRef, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve patient %s: %w", patientID, err)
	}
	return &rules.PatientRef{
		ID:            p.ID,
		Username:      p.Username,
		Role:          p.Role,
		ProviderID:    p.ProviderID,
		ProviderAlias: p.ProviderAlias,
		CreatorID:     p.CreatorID,
	}, nil
}

// Facts returns the patient's current age and gender for the CKD validator.
// Either may be nil when the record is missing.
func (s *Service) Facts(ctx context.Context, patientID uuid.UUID) (*int, *clinical.Gender, error) {
	var age *int
	var gender *clinical.Gender
	d, err := s.repo.GetDateOfBirth(ctx, patientID)
	switch {
	case err == nil:
		a := chrono.Age(d.Value, s.now())
		age = &a
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, nil, fmt.Errorf("load date of birth for %s: %w", patientID, err)
	}
	g, err := s.repo.GetGender(ctx, patientID)
	switch {
	case err == nil:
		v := g.Value
		gender = &v
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, nil, fmt.Errorf("load gender for %s: %w", patientID, err)
	}
	return age, gender, nil
}

func (s *Service) beginTx(ctx context.Context) (context.Context, func(error) error, error) {
	if s.pool == nil {
		return ctx, func(err error) error { return err }, nil
	}
	return db.WithTx(ctx, s.pool)
}

func (s *Service) record(ctx context.Context, actorID *uuid.UUID, action string, id uuid.UUID, before, after *Patient) {
	if s.sink == nil {
		return
	}
	entry := audit.Entry{ActorID: actorID, Entity: "patient", EntityID: id, Action: action}
	if before != nil {
		entry.Before = before
	}
	if after != nil {
		entry.After = after
	}
	_ = s.sink.Record(ctx, entry)
}
