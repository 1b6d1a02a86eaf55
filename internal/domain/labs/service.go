package labs

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/internal/platform/audit"
	"github.com/gouthelper/gouthelper/pkg/clinical"
)

type Service struct {
	repo Repository
	sink audit.Sink
}

func NewService(repo Repository, sink audit.Sink) *Service {
	return &Service{repo: repo, sink: sink}
}

// SetBaseline creates or replaces the patient's baseline creatinine after
// validation. actorID is recorded in the audit trail.
func (s *Service) SetBaseline(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit Edit) (*BaselineCreatinine, error) {
	value, errs := edit.Validate()
	if errs.HasErrors() {
		return nil, errs
	}

	existing, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		bc := &BaselineCreatinine{
			PatientID: patientID,
			Value:     value,
			Units:     clinical.CreatinineUnits,
		}
		if err := s.repo.Create(ctx, bc); err != nil {
			return nil, err
		}
		s.record(ctx, actorID, "create", bc, nil, bc)
		return bc, nil
	}

	before := *existing
	existing.Value = value
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "update", existing, &before, existing)
	return existing, nil
}

func (s *Service) GetBaseline(ctx context.Context, patientID uuid.UUID) (*BaselineCreatinine, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

// BaselineValue returns the patient's creatinine value when one is on file.
func (s *Service) BaselineValue(ctx context.Context, patientID uuid.UUID) *decimal.Decimal {
	bc, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil
	}
	return &bc.Value
}

func (s *Service) DeleteBaseline(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID) error {
	existing, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", existing, existing, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID *uuid.UUID, action string, bc *BaselineCreatinine, before, after *BaselineCreatinine) {
	if s.sink == nil {
		return
	}
	entry := audit.Entry{
		ActorID:  actorID,
		Entity:   "baseline_creatinine",
		EntityID: bc.ID,
		Action:   action,
	}
	if before != nil {
		entry.Before = before
	}
	if after != nil {
		entry.After = after
	}
	_ = s.sink.Record(ctx, entry)
}
