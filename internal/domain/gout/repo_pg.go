package gout

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

const gdCols = `id, patient_id, at_goal, at_goal_long_term, flaring,
	on_ppx, on_ult, starting_ult, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*GoutDetail, error) {
	var gd GoutDetail
	err := row.Scan(&gd.ID, &gd.PatientID, &gd.AtGoal, &gd.AtGoalLongTerm, &gd.Flaring,
		&gd.OnPpx, &gd.OnUlt, &gd.StartingUlt, &gd.CreatedAt, &gd.UpdatedAt)
	return &gd, err
}

func (r *repoPG) Create(ctx context.Context, gd *GoutDetail) error {
	gd.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO gout_detail (id, patient_id, at_goal, at_goal_long_term, flaring,
			on_ppx, on_ult, starting_ult)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		gd.ID, gd.PatientID, gd.AtGoal, gd.AtGoalLongTerm, gd.Flaring,
		gd.OnPpx, gd.OnUlt, gd.StartingUlt)
	return err
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*GoutDetail, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+gdCols+` FROM gout_detail WHERE patient_id = $1`, patientID))
}

func (r *repoPG) Update(ctx context.Context, gd *GoutDetail) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE gout_detail SET at_goal=$2, at_goal_long_term=$3, flaring=$4,
			on_ppx=$5, on_ult=$6, starting_ult=$7, updated_at=NOW()
		WHERE id = $1`,
		gd.ID, gd.AtGoal, gd.AtGoalLongTerm, gd.Flaring,
		gd.OnPpx, gd.OnUlt, gd.StartingUlt)
	return err
}
