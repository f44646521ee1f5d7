package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// PatientRepository defines persistence access for patients.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	Update(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	GetByEmail(ctx context.Context, email string) (*domain.Patient, error)
	Count(ctx context.Context) (int64, error)
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

const patientColumns = `id, name, email, password_hash, phone, gender, dob, address_line1, address_line2, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `
        INSERT INTO patients (name, email, password_hash, phone, gender, dob, address_line1, address_line2)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		patient.Name,
		patient.Email,
		patient.PasswordHash,
		patient.Phone,
		patient.Gender,
		patient.DOB,
		patient.AddressLine1,
		patient.AddressLine2,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	const query = `
        UPDATE patients SET name=$1, phone=$2, gender=$3, dob=$4, address_line1=$5, address_line2=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		patient.Name,
		patient.Phone,
		patient.Gender,
		patient.DOB,
		patient.AddressLine1,
		patient.AddressLine2,
		patient.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id=$1`
	return scanPatient(r.pool.QueryRow(ctx, query, id))
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email=$1`
	return scanPatient(r.pool.QueryRow(ctx, query, email))
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&count)
	return count, err
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var patient domain.Patient
	if err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.PasswordHash,
		&patient.Phone,
		&patient.Gender,
		&patient.DOB,
		&patient.AddressLine1,
		&patient.AddressLine2,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &patient, nil
}
