package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carepoint/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentColumns = `a.id, a.patient_id, a.patient_name, a.department, a.appointment_date, a.time_slot,
	a.status, a.assigned_doctor_id, COALESCE(d.name, ''), a.created_at, a.updated_at`

const appointmentFrom = ` FROM appointments a LEFT JOIN doctors d ON d.id = a.assigned_doctor_id`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.Department,
		&a.Date,
		&a.TimeSlot,
		&a.Status,
		&a.AssignedDoctorID,
		&a.AssignedDoctorName,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a domain.Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (patient_id, patient_name, department, appointment_date, time_slot, status,
		                          assigned_doctor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		a.PatientID,
		a.PatientName,
		a.Department,
		a.Date,
		a.TimeSlot,
		a.Status,
		a.AssignedDoctorID,
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create appointment: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, `SELECT `+appointmentColumns+appointmentFrom+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get appointment %d: %w", id, notFound(err))
	}
	return a, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}

	return nil
}

func (r *AppointmentRepo) AssignDoctor(ctx context.Context, id, doctorID int64, _ string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET assigned_doctor_id = $1, updated_at = $2 WHERE id = $3`,
		doctorID, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("assign doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.PatientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.patient_id = $%d", argID))
		args = append(args, *filter.PatientID)
		argID++
	}

	if filter.DoctorID != nil {
		conditions = append(conditions, fmt.Sprintf("a.assigned_doctor_id = $%d", argID))
		args = append(args, *filter.DoctorID)
		argID++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("a.department = $%d", argID))
		args = append(args, *filter.Department)
		argID++
	}

	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date = $%d", argID))
		args = append(args, *filter.Date)
		argID++
	}

	query := `SELECT ` + appointmentColumns + appointmentFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}
