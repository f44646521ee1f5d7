package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// DoctorRepository defines persistence access for doctors.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) error
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	List(ctx context.Context, limit, offset int) ([]domain.Doctor, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id string, profile domain.DoctorProfile) error
	SetAvailability(ctx context.Context, id string, available bool) error
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository returns a Postgres-backed implementation.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

const doctorColumns = `id, name, email, password_hash, speciality, degree, experience, about,
               fees, address_line1, address_line2, available, created_at, updated_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        INSERT INTO doctors (name, email, password_hash, speciality, degree, experience, about, fees, address_line1, address_line2, available)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		doctor.Name,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Speciality,
		doctor.Degree,
		doctor.Experience,
		doctor.About,
		doctor.Fees,
		doctor.AddressLine1,
		doctor.AddressLine2,
		doctor.Available,
	).Scan(&doctor.ID, &doctor.CreatedAt, &doctor.UpdatedAt)
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id=$1`
	return scanDoctor(r.pool.QueryRow(ctx, query, id))
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE email=$1`
	return scanDoctor(r.pool.QueryRow(ctx, query, email))
}

func (r *doctorRepository) List(ctx context.Context, limit, offset int) ([]domain.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *doctor)
	}
	return result, rows.Err()
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&count)
	return count, err
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, id string, profile domain.DoctorProfile) error {
	const query = `
        UPDATE doctors SET fees=$1, about=$2, address_line1=$3, address_line2=$4, available=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		profile.Fees,
		profile.About,
		profile.AddressLine1,
		profile.AddressLine2,
		profile.Available,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	const query = `UPDATE doctors SET available=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, available, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var doctor domain.Doctor
	if err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Email,
		&doctor.PasswordHash,
		&doctor.Speciality,
		&doctor.Degree,
		&doctor.Experience,
		&doctor.About,
		&doctor.Fees,
		&doctor.AddressLine1,
		&doctor.AddressLine2,
		&doctor.Available,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &doctor, nil
}
