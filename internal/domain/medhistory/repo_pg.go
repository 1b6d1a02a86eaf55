package medhistory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gouthelper/gouthelper/internal/platform/db"
	"github.com/gouthelper/gouthelper/pkg/clinical"
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

const mhCols = `id, patient_id, mhtype, history_of, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*MedicalHistory, error) {
	var mh MedicalHistory
	err := row.Scan(&mh.ID, &mh.PatientID, &mh.Type, &mh.HistoryOf, &mh.CreatedAt, &mh.UpdatedAt)
	return &mh, err
}

func (r *repoPG) Upsert(ctx context.Context, mh *MedicalHistory) error {
	if mh.ID == uuid.Nil {
		mh.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_history (id, patient_id, mhtype, history_of)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (patient_id, mhtype)
		DO UPDATE SET history_of = EXCLUDED.history_of, updated_at = NOW()`,
		mh.ID, mh.PatientID, mh.Type, mh.HistoryOf)
	return err
}

func (r *repoPG) GetByPatientAndType(ctx context.Context, patientID uuid.UUID, t clinical.MHType) (*MedicalHistory, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+mhCols+` FROM medical_history WHERE patient_id = $1 AND mhtype = $2`, patientID, t))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+mhCols+` FROM medical_history WHERE patient_id = $1 ORDER BY mhtype`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*MedicalHistory
	for rows.Next() {
		mh, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, mh)
	}
	return result, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, patientID uuid.UUID, t clinical.MHType) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM medical_history WHERE patient_id = $1 AND mhtype = $2`, patientID, t)
	return err
}
