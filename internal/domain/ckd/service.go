package ckd

import (
	"context"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/internal/platform/audit"
)

type Service struct {
	repo Repository
	sink audit.Sink
}

func NewService(repo Repository, sink audit.Sink) *Service {
	return &Service{repo: repo, sink: sink}
}

func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*CkdDetail, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

// Set validates the edit in the patient's context and creates or replaces
// the CKD detail with its canonical form.
func (s *Service) Set(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit Edit, pctx Context) (*CkdDetail, error) {
	canonical, errs := Validate(edit, pctx)
	if errs.HasErrors() {
		return nil, errs
	}

	existing, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		cd := &CkdDetail{
			PatientID:        patientID,
			Dialysis:         canonical.Dialysis,
			DialysisType:     canonical.DialysisType,
			DialysisDuration: canonical.DialysisDuration,
			Stage:            canonical.Stage,
		}
		if err := s.repo.Create(ctx, cd); err != nil {
			return nil, err
		}
		s.record(ctx, actorID, "create", cd.ID, nil, cd)
		return cd, nil
	}

	before := *existing
	existing.Dialysis = canonical.Dialysis
	existing.DialysisType = canonical.DialysisType
	existing.DialysisDuration = canonical.DialysisDuration
	existing.Stage = canonical.Stage
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "update", existing.ID, &before, existing)
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID) error {
	existing, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", existing.ID, existing, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID *uuid.UUID, action string, id uuid.UUID, before, after *CkdDetail) {
	if s.sink == nil {
		return
	}
	entry := audit.Entry{ActorID: actorID, Entity: "ckd_detail", EntityID: id, Action: action}
	if before != nil {
		entry.Before = before
	}
	if after != nil {
		entry.After = after
	}
	_ = s.sink.Record(ctx, entry)
}
