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

type QueryRepo struct {
	db *pgxpool.Pool
}

func NewQueryRepository(db *pgxpool.Pool) *QueryRepo {
	return &QueryRepo{
		db: db,
	}
}

const queryColumns = `q.id, q.patient_id, q.patient_name, q.age, q.gender, q.category, q.symptoms, q.status,
	q.urgency, q.advisory_kind, q.advisory, q.assigned_doctor_id, COALESCE(d.name, ''), q.created_at, q.updated_at`

const queryFrom = ` FROM queries q LEFT JOIN doctors d ON d.id = q.assigned_doctor_id`

func scanQuery(row pgx.Row) (*domain.Query, error) {
	var q domain.Query
	err := row.Scan(
		&q.ID,
		&q.PatientID,
		&q.PatientName,
		&q.Age,
		&q.Gender,
		&q.Category,
		&q.Symptoms,
		&q.Status,
		&q.Urgency,
		&q.AdvisoryKind,
		&q.Advisory,
		&q.AssignedDoctorID,
		&q.AssignedDoctorName,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QueryRepo) Create(ctx context.Context, q domain.Query) (int64, error) {
	query := `
		INSERT INTO queries (patient_id, patient_name, age, gender, category, symptoms, status,
		                     urgency, advisory_kind, advisory, assigned_doctor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id
	`

	createdAt := q.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		q.PatientID,
		q.PatientName,
		q.Age,
		q.Gender,
		q.Category,
		q.Symptoms,
		q.Status,
		q.Urgency,
		q.AdvisoryKind,
		q.Advisory,
		q.AssignedDoctorID,
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create query: %w", err)
	}

	return id, nil
}

func (r *QueryRepo) GetByID(ctx context.Context, id int64) (*domain.Query, error) {
	q, err := scanQuery(r.db.QueryRow(ctx, `SELECT `+queryColumns+queryFrom+` WHERE q.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get query %d: %w", id, notFound(err))
	}
	return q, nil
}

func (r *QueryRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	query := `
		UPDATE queries
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("update query status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}

	return nil
}

func (r *QueryRepo) List(ctx context.Context, filter domain.QueryFilter) ([]domain.Query, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.PatientID != nil {
		conditions = append(conditions, fmt.Sprintf("q.patient_id = $%d", argID))
		args = append(args, *filter.PatientID)
		argID++
	}

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("q.category = $%d", argID))
		args = append(args, *filter.Category)
		argID++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("q.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	query := `SELECT ` + queryColumns + queryFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY q.id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	queries := make([]domain.Query, 0)
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		queries = append(queries, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}

	return queries, nil
}
