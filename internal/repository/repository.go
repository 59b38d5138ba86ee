package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"carepoint/internal/domain"
)

type Repositories struct {
	User        UserRepository
	Auth        AuthRepository
	Doctor      DoctorRepository
	Query       QueryRepository
	Appointment AppointmentRepository
	OTPBooking  OTPBookingRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Auth:        NewAuthRepository(db),
		Doctor:      NewDoctorRepository(db),
		Query:       NewQueryRepository(db),
		Appointment: NewAppointmentRepository(db),
		OTPBooking:  NewOTPBookingRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

// DoctorRepository is the doctor registry. List returns doctors in
// insertion order, which the matcher relies on for its first-match rule.
type DoctorRepository interface {
	Create(ctx context.Context, doctor domain.CreateDoctorDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error)
	UpdateProfile(ctx context.Context, id int64, profile domain.UpdateDoctorProfileDTO) error
	UpdateStatus(ctx context.Context, id int64, status domain.DoctorStatus) error
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error)
}

type QueryRepository interface {
	Create(ctx context.Context, query domain.Query) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Query, error)
	// UpdateStatus moves the query from one status to another and returns
	// domain.ErrInvalidTransition if it no longer has the from status.
	UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error
	List(ctx context.Context, filter domain.QueryFilter) ([]domain.Query, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment domain.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error
	AssignDoctor(ctx context.Context, id, doctorID int64, doctorName string) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
}

type OTPBookingRepository interface {
	Create(ctx context.Context, booking domain.OTPBooking) (int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.OTPBooking, error)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func slotsToStrings(slots []domain.TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = string(s)
	}
	return out
}

func stringsToSlots(values []string) []domain.TimeSlot {
	out := make([]domain.TimeSlot, len(values))
	for i, v := range values {
		out[i] = domain.TimeSlot(v)
	}
	return out
}
