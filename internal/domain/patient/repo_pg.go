package patient

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

const patCols = `id, username, role, provider_id, provider_alias, creator_id, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Username, &p.Role, &p.ProviderID, &p.ProviderAlias,
		&p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, username, role, provider_id, provider_alias, creator_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Username, p.Role, p.ProviderID, p.ProviderAlias, p.CreatorID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patCols+` FROM patient WHERE username = $1`, username))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET username=$2, provider_id=$3, provider_alias=$4, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Username, p.ProviderID, p.ProviderAlias)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// Detail rows cascade via their foreign keys.
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient WHERE provider_id = $1`, providerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patCols+` FROM patient
		WHERE provider_id = $1
		ORDER BY provider_alias
		LIMIT $2 OFFSET $3`, providerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repoPG) NextProviderAlias(ctx context.Context, providerID uuid.UUID) (int, error) {
	var next int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(MAX(provider_alias), 0) + 1 FROM patient WHERE provider_id = $1`,
		providerID).Scan(&next)
	return next, err
}

func (r *repoPG) SetDateOfBirth(ctx context.Context, d *DateOfBirth) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO date_of_birth (id, patient_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (patient_id) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		d.ID, d.PatientID, d.Value)
	return err
}

func (r *repoPG) GetDateOfBirth(ctx context.Context, patientID uuid.UUID) (*DateOfBirth, error) {
	var d DateOfBirth
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, value, created_at, updated_at
		FROM date_of_birth WHERE patient_id = $1`, patientID).
		Scan(&d.ID, &d.PatientID, &d.Value, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) SetGender(ctx context.Context, g *Gender) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO gender (id, patient_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (patient_id) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		g.ID, g.PatientID, g.Value)
	return err
}

func (r *repoPG) GetGender(ctx context.Context, patientID uuid.UUID) (*Gender, error) {
	var g Gender
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, value, created_at, updated_at
		FROM gender WHERE patient_id = $1`, patientID).
		Scan(&g.ID, &g.PatientID, &g.Value, &g.CreatedAt, &g.UpdatedAt)
	return &g, err
}

func (r *repoPG) SetEthnicity(ctx context.Context, e *Ethnicity) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ethnicity (id, patient_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (patient_id) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		e.ID, e.PatientID, e.Value)
	return err
}

func (r *repoPG) GetEthnicity(ctx context.Context, patientID uuid.UUID) (*Ethnicity, error) {
	var e Ethnicity
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, value, created_at, updated_at
		FROM ethnicity WHERE patient_id = $1`, patientID).
		Scan(&e.ID, &e.PatientID, &e.Value, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}
