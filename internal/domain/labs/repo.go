package labs

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, bc *BaselineCreatinine) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*BaselineCreatinine, error)
	Update(ctx context.Context, bc *BaselineCreatinine) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
