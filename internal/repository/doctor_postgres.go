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

type DoctorRepo struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) *DoctorRepo {
	return &DoctorRepo{
		db: db,
	}
}

const doctorColumns = `id, user_id, name, email, department, experience, available_days, time_slots,
	status, profile_photo_url, created_at, updated_at`

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var doctor domain.Doctor
	var slots []string

	err := row.Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.Name,
		&doctor.Email,
		&doctor.Department,
		&doctor.Experience,
		&doctor.AvailableDays,
		&slots,
		&doctor.Status,
		&doctor.ProfilePhotoURL,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doctor.TimeSlots = stringsToSlots(slots)
	return &doctor, nil
}

func (r *DoctorRepo) Create(ctx context.Context, dto domain.CreateDoctorDTO) (int64, error) {
	query := `
		INSERT INTO doctors (user_id, name, email, department, experience, available_days, time_slots, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.UserID,
		dto.Name,
		dto.Email,
		dto.Department,
		dto.Experience,
		dto.AvailableDays,
		slotsToStrings(dto.TimeSlots),
		dto.Status,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create doctor: %w", err)
	}

	return id, nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := scanDoctor(r.db.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get doctor %d: %w", id, notFound(err))
	}
	return doctor, nil
}

func (r *DoctorRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	doctor, err := scanDoctor(r.db.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("get doctor by user %d: %w", userID, notFound(err))
	}
	return doctor, nil
}

func (r *DoctorRepo) UpdateProfile(ctx context.Context, id int64, dto domain.UpdateDoctorProfileDTO) error {
	query := `
		UPDATE doctors
		SET department = $1,
		    experience = $2,
		    available_days = $3,
		    time_slots = $4,
		    status = $5,
		    updated_at = $6
		WHERE id = $7
	`

	tag, err := r.db.Exec(ctx, query,
		dto.Department,
		dto.Experience,
		dto.AvailableDays,
		slotsToStrings(dto.TimeSlots),
		dto.Status,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update doctor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *DoctorRepo) UpdateStatus(ctx context.Context, id int64, status domain.DoctorStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE doctors SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update doctor status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *DoctorRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `
		UPDATE doctors
		SET profile_photo_url = $1,
		    updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update doctor photo: %w", err)
	}

	return nil
}

func (r *DoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argID))
		args = append(args, *filter.Department)
		argID++
	}

	if filter.Day != nil {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(available_days)", argID))
		args = append(args, *filter.Day)
		argID++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	query := `SELECT ` + doctorColumns + ` FROM doctors`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, *doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}

	return doctors, nil
}
