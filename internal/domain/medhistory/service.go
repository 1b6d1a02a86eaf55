package medhistory

import (
	"context"

	"github.com/google/uuid"

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

func (s *Service) List(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Set records one condition for the patient, replacing any previous entry of
// the same type.
func (s *Service) Set(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edit Edit) (*MedicalHistory, error) {
	if errs := edit.Validate(); errs.HasErrors() {
		return nil, errs
	}

	before, _ := s.repo.GetByPatientAndType(ctx, patientID, edit.Type)
	mh := &MedicalHistory{PatientID: patientID, Type: edit.Type, HistoryOf: edit.HistoryOf}
	if before != nil {
		mh.ID = before.ID
	}
	if err := s.repo.Upsert(ctx, mh); err != nil {
		return nil, err
	}

	action := "create"
	if before != nil {
		action = "update"
	}
	s.record(ctx, actorID, action, mh.ID, before, mh)
	return mh, nil
}

// SetAll applies a batch of condition edits, typically from a patient edit.
func (s *Service) SetAll(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, edits []Edit) error {
	for _, edit := range edits {
		if _, err := s.Set(ctx, actorID, patientID, edit); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, actorID *uuid.UUID, patientID uuid.UUID, t clinical.MHType) error {
	before, err := s.repo.GetByPatientAndType(ctx, patientID, t)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, patientID, t); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", before.ID, before, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID *uuid.UUID, action string, id uuid.UUID, before, after *MedicalHistory) {
	if s.sink == nil {
		return
	}
	entry := audit.Entry{ActorID: actorID, Entity: "medical_history", EntityID: id, Action: action}
	if before != nil {
		entry.Before = before
	}
	if after != nil {
		entry.After = after
	}
	_ = s.sink.Record(ctx, entry)
}
