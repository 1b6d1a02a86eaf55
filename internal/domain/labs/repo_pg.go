package labs

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

const bcCols = `id, patient_id, value, units, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*BaselineCreatinine, error) {
	var bc BaselineCreatinine
	err := row.Scan(&bc.ID, &bc.PatientID, &bc.Value, &bc.Units, &bc.CreatedAt, &bc.UpdatedAt)
	return &bc, err
}

func (r *repoPG) Create(ctx context.Context, bc *BaselineCreatinine) error {
	bc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO baseline_creatinine (id, patient_id, value, units)
		VALUES ($1, $2, $3, $4)`,
		bc.ID, bc.PatientID, bc.Value, bc.Units)
	return err
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*BaselineCreatinine, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+bcCols+` FROM baseline_creatinine WHERE patient_id = $1`, patientID))
}

func (r *repoPG) Update(ctx context.Context, bc *BaselineCreatinine) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE baseline_creatinine SET value = $2, updated_at = NOW()
		WHERE id = $1`,
		bc.ID, bc.Value)
	return err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM baseline_creatinine WHERE patient_id = $1`, patientID)
	return err
}
