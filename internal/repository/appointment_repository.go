package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// DashboardCounts aggregates per-doctor or clinic-wide dashboard numbers.
type DashboardCounts struct {
	Appointments int64
	Patients     int64
	Earnings     int64
}

// AppointmentRepository encapsulates appointment persistence. The storage
// layer is the sole synchronization point for status transitions.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Appointment, error)
	// TransitionStatus applies a single atomic conditional update: the row
	// moves to the target status only if it is still in the expected current
	// status. pgx.ErrNoRows means the caller lost the race or the row is gone.
	TransitionStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) (*domain.Appointment, error)
	CountsForDoctor(ctx context.Context, doctorID string) (DashboardCounts, error)
	CountsForClinic(ctx context.Context) (DashboardCounts, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentColumns = `id, patient_id, doctor_id, slot_date, slot_time, amount, paid, status, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (patient_id, doctor_id, slot_date, slot_time, amount, paid, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		appt.PatientID,
		appt.DoctorID,
		appt.SlotDate,
		appt.SlotTime,
		appt.Amount,
		appt.Paid,
		appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id=$1`
	return scanAppointment(r.pool.QueryRow(ctx, query, id))
}

func (r *appointmentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	query := `
        UPDATE appointments
        SET status=$2, updated_at=NOW()
        WHERE id=$1 AND status=$3
        RETURNING ` + appointmentColumns
	return scanAppointment(r.pool.QueryRow(ctx, query, id, to, from))
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
        FROM appointments WHERE doctor_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, doctorID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
        FROM appointments WHERE patient_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, patientID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *appointmentRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
        FROM appointments
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *appointmentRepository) CountsForDoctor(ctx context.Context, doctorID string) (DashboardCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(DISTINCT patient_id),
               COALESCE(SUM(amount) FILTER (WHERE status='completed' OR paid), 0)
        FROM appointments WHERE doctor_id=$1`
	var counts DashboardCounts
	err := r.pool.QueryRow(ctx, query, doctorID).Scan(&counts.Appointments, &counts.Patients, &counts.Earnings)
	return counts, err
}

func (r *appointmentRepository) CountsForClinic(ctx context.Context) (DashboardCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(DISTINCT patient_id),
               COALESCE(SUM(amount) FILTER (WHERE status='completed' OR paid), 0)
        FROM appointments`
	var counts DashboardCounts
	err := r.pool.QueryRow(ctx, query).Scan(&counts.Appointments, &counts.Patients, &counts.Earnings)
	return counts, err
}

func (r *appointmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	if err := row.Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.DoctorID,
		&appt.SlotDate,
		&appt.SlotTime,
		&appt.Amount,
		&appt.Paid,
		&appt.Status,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}

func scanAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var result []domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *appt)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
