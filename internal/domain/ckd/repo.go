package ckd

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, cd *CkdDetail) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*CkdDetail, error)
	Update(ctx context.Context, cd *CkdDetail) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
