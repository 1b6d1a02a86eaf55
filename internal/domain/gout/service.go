package gout

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

func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*GoutDetail, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

// Set validates the edit and creates or updates the patient's gout detail.
// Every patient has exactly one; creation normally happens with the patient.
func (s *Service) Set(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit Edit) (*GoutDetail, error) {
	if errs := edit.Validate(); errs.HasErrors() {
		return nil, errs
	}

	existing, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		gd := &GoutDetail{
			PatientID:      patientID,
			AtGoal:         edit.AtGoal,
			AtGoalLongTerm: edit.AtGoalLongTerm,
			Flaring:        edit.Flaring,
			OnPpx:          edit.OnPpx,
			OnUlt:          edit.OnUlt,
			StartingUlt:    edit.StartingUlt,
		}
		if err := s.repo.Create(ctx, gd); err != nil {
			return nil, err
		}
		s.record(ctx, actorID, "create", gd.ID, nil, gd)
		return gd, nil
	}

	before := *existing
	existing.AtGoal = edit.AtGoal
	existing.AtGoalLongTerm = edit.AtGoalLongTerm
	existing.Flaring = edit.Flaring
	existing.OnPpx = edit.OnPpx
	existing.OnUlt = edit.OnUlt
	existing.StartingUlt = edit.StartingUlt
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "update", existing.ID, &before, existing)
	return existing, nil
}

func (s *Service) record(ctx context.Context, actorID *uuid.UUID, action string, id uuid.UUID, before, after *GoutDetail) {
	if s.sink == nil {
		return
	}
	entry := audit.Entry{ActorID: actorID, Entity: "gout_detail", EntityID: id, Action: action}
	if before != nil {
		entry.Before = before
	}
	if after != nil {
		entry.After = after
	}
	_ = s.sink.Record(ctx, entry)
}
