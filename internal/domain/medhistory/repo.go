package medhistory

import (
	"context"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/pkg/clinical"
)

type Repository interface {
	Upsert(ctx context.Context, mh *MedicalHistory) error
	GetByPatientAndType(ctx context.Context, patientID uuid.UUID, t clinical.MHType) (*MedicalHistory, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error)
	Delete(ctx context.Context, patientID uuid.UUID, t clinical.MHType) error
}
