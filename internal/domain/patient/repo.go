package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByUsername(ctx context.Context, username string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Patient, int, error)
	NextProviderAlias(ctx context.Context, providerID uuid.UUID) (int, error)

	SetDateOfBirth(ctx context.Context, d *DateOfBirth) error
	GetDateOfBirth(ctx context.Context, patientID uuid.UUID) (*DateOfBirth, error)
	SetGender(ctx context.Context, g *Gender) error
	GetGender(ctx context.Context, patientID uuid.UUID) (*Gender, error)
	SetEthnicity(ctx context.Context, e *Ethnicity) error
	GetEthnicity(ctx context.Context, patientID uuid.UUID) (*Ethnicity, error)
}
