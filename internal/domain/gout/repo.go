package gout

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, gd *GoutDetail) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*GoutDetail, error)
	Update(ctx context.Context, gd *GoutDetail) error
}
