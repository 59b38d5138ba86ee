package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"carepoint/config"
	"carepoint/internal/domain"
	"carepoint/internal/events"
	"carepoint/internal/otp"
	"carepoint/internal/repository"
	"carepoint/internal/storage"
)

// errInternal is what callers see when a dependency fails; the cause is
// logged where it happens.
var errInternal = errors.New("internal error, please try again later")

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Publisher   events.Publisher
	Verifier    otp.Verifier
}

type Services struct {
	User        UserService
	Auth        AuthService
	Doctor      DoctorService
	Query       QueryService
	Appointment AppointmentService
	Analytics   AnalyticsService
	OTP         OTPService
}

func NewServices(deps Deps) *Services {
	if deps.Publisher == nil {
		deps.Publisher = events.Noop{}
	}
	if timeout := deps.Config.Kafka.WriteTimeout; timeout > 0 {
		deps.Publisher = events.Bounded{Publisher: deps.Publisher, Timeout: timeout}
	}
	if deps.Verifier == nil {
		deps.Verifier = otp.Unconfigured{}
	}

	limiter := otp.NewPhoneLimiter(deps.Config.OTP.SendsPerMinute, deps.Config.OTP.Burst)

	return &Services{
		User:        NewUserService(deps.Repos.User, deps.Logger),
		Auth:        NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Doctor:      NewDoctorService(deps.Repos.Doctor, deps.Repos.User, deps.Repos.Appointment, deps.FileStorage, deps.Logger),
		Query:       NewQueryService(deps.Repos.Query, deps.Repos.Doctor, deps.Repos.User, deps.Publisher, deps.Logger),
		Appointment: NewAppointmentService(deps.Repos.Appointment, deps.Repos.Doctor, deps.Repos.User, deps.Publisher, deps.Logger),
		Analytics:   NewAnalyticsService(deps.Repos.Query, deps.Repos.Appointment, deps.Repos.Doctor, deps.Logger),
		OTP:         NewOTPService(deps.Verifier, limiter, deps.Repos.OTPBooking, deps.Publisher, deps.Logger),
	}
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest, userAgent, ip string) (*domain.AuthResult, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type DoctorService interface {
	Create(ctx context.Context, dto domain.CreateDoctorDTO) (*domain.Doctor, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error)
	// Search finds active doctors in a department (or all departments) who
	// work the given weekday.
	Search(ctx context.Context, department, day string) ([]domain.Doctor, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DoctorStatus) (*domain.Doctor, error)

	GetProfile(ctx context.Context, userID int64) (*domain.Doctor, error)
	UpsertProfile(ctx context.Context, userID int64, dto domain.UpdateDoctorProfileDTO) (*domain.Doctor, error)
	UploadProfilePhoto(ctx context.Context, userID int64, photo []byte, filename string) (*domain.Doctor, error)
	AssignedAppointments(ctx context.Context, userID int64) ([]domain.Appointment, error)
}

type QueryService interface {
	Submit(ctx context.Context, patientID int64, dto domain.CreateQueryDTO) (*domain.SubmittedQuery, error)
	Preview(ctx context.Context, symptoms string) (*domain.TriageResponse, error)
	GetByID(ctx context.Context, id int64) (*domain.Query, error)
	List(ctx context.Context, filter domain.QueryFilter) ([]domain.Query, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (*domain.Query, error)
}

type AppointmentService interface {
	Request(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (*domain.Appointment, error)
	AssignDoctor(ctx context.Context, id, doctorID int64) (*domain.Appointment, error)
}

type AnalyticsService interface {
	Overview(ctx context.Context, today time.Time) (*domain.Overview, error)
}

type OTPService interface {
	Send(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, req domain.VerifyOTPRequest) (*domain.OTPBooking, error)
	ListBookings(ctx context.Context, limit, offset int) ([]domain.OTPBooking, error)
}

// publish emits an event after a successful write. Failures are logged and
// never reach the caller.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, eventType domain.EventType, payload any) {
	event := events.NewEvent(eventType, payload)
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.String("id", event.ID), zap.Error(err))
	}
}

// passthrough returns err unchanged when it is one callers are meant to
// see, and errInternal otherwise.
func passthrough(err error) error {
	if _, ok := domain.AsValidationError(err); ok {
		return err
	}
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrEmailTaken,
		domain.ErrInvalidCredentials,
		domain.ErrInactiveAccount,
		domain.ErrInvalidTransition,
		domain.ErrForbidden,
		domain.ErrOTPRejected,
		domain.ErrOTPProvider,
		domain.ErrRateLimited,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	return errInternal
}
