package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/events"
	"carepoint/internal/matching"
	"carepoint/internal/repository"
)

type AppointmentServiceImpl struct {
	repo       repository.AppointmentRepository
	doctorRepo repository.DoctorRepository
	userRepo   repository.UserRepository
	publisher  events.Publisher
	logger     *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:       repo,
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Request stores an appointment request and assigns the first doctor who
// works the requested weekday and slot. No match leaves it unassigned.
func (s *AppointmentServiceImpl) Request(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	dto.Normalize()
	date, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	patient, err := s.userRepo.GetByID(ctx, patientID)
	if err != nil {
		s.logger.Error("patient not found for appointment", zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, passthrough(err)
	}

	registry, err := registrySnapshot(ctx, s.doctorRepo, s.logger)
	if err != nil {
		return nil, err
	}

	appointment := domain.Appointment{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Department:  dto.Department,
		Date:        date,
		TimeSlot:    dto.TimeSlot,
		Status:      domain.StatusPending,
	}
	if doctor := matching.AssignForBooking(dto.Department, date, dto.TimeSlot, registry); doctor != nil {
		id := doctor.ID
		appointment.AssignedDoctorID = &id
		appointment.AssignedDoctorName = doctor.Name
	}

	id, err := s.repo.Create(ctx, appointment)
	if err != nil {
		s.logger.Error("failed to save appointment", zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, errInternal
	}

	stored, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment requested",
		zap.Int64("id", id),
		zap.String("department", dto.Department),
		zap.String("date", date.Format(domain.DateLayout)),
		zap.Int64p("doctor_id", appointment.AssignedDoctorID),
	)
	publish(ctx, s.publisher, s.logger, domain.EventAppointmentRequested, stored)

	return stored, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get appointment", zap.Int64("id", id), zap.Error(err))
		return nil, errInternal
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		v := domain.NewValidationError()
		v.Add("status", "Unknown status")
		return nil, v
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.Error(err))
		return nil, errInternal
	}
	return appointments, nil
}

func (s *AppointmentServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (*domain.Appointment, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, current.Status, status); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotFound) {
			return nil, passthrough(err)
		}
		s.logger.Error("failed to update appointment status", zap.Int64("id", id), zap.Error(err))
		return nil, errInternal
	}

	s.logger.Info("appointment status changed",
		zap.Int64("id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
	)
	return s.GetByID(ctx, id)
}

// AssignDoctor overrides the automatic assignment. The doctor must exist but
// does not have to be active or work the requested day.
func (s *AppointmentServiceImpl) AssignDoctor(ctx context.Context, id, doctorID int64) (*domain.Appointment, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v := domain.NewValidationError()
			v.Add("doctor_id", "Doctor does not exist")
			return nil, v
		}
		s.logger.Error("failed to get doctor", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, errInternal
	}

	if err := s.repo.AssignDoctor(ctx, id, doctor.ID, doctor.Name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to assign doctor", zap.Int64("id", id), zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, errInternal
	}

	s.logger.Info("doctor assigned", zap.Int64("id", id), zap.Int64("doctor_id", doctorID))
	return s.GetByID(ctx, id)
}
