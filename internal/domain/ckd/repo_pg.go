package ckd

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gouthelper/gouthelper/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cdCols = `id, patient_id, dialysis, dialysis_type, dialysis_duration, stage, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*CkdDetail, error) {
	var cd CkdDetail
	err := row.Scan(&cd.ID, &cd.PatientID, &cd.Dialysis, &cd.DialysisType,
		&cd.DialysisDuration, &cd.Stage, &cd.CreatedAt, &cd.UpdatedAt)
	return &cd, err
}

func (r *repoPG) Create(ctx context.Context, cd *CkdDetail) error {
	cd.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ckd_detail (id, patient_id, dialysis, dialysis_type, dialysis_duration, stage)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		cd.ID, cd.PatientID, cd.Dialysis, cd.DialysisType, cd.DialysisDuration, cd.Stage)
	return err
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*CkdDetail, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cdCols+` FROM ckd_detail WHERE patient_id = $1`, patientID))
}

func (r *repoPG) Update(ctx context.Context, cd *CkdDetail) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE ckd_detail SET dialysis=$2, dialysis_type=$3, dialysis_duration=$4,
			stage=$5, updated_at=NOW()
		WHERE id = $1`,
		cd.ID, cd.Dialysis, cd.DialysisType, cd.DialysisDuration, cd.Stage)
	return err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM ckd_detail WHERE patient_id = $1`, patientID)
	return err
}
