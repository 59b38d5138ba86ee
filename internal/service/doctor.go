package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/repository"
	"carepoint/internal/storage"
)

var errPhotoStorageDisabled = errors.New("photo uploads are not configured")

type DoctorServiceImpl struct {
	repo            repository.DoctorRepository
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	files           storage.FileStorage
	logger          *zap.Logger
}

// NewDoctorService builds the doctor registry service. files may be nil when
// object storage is not configured; photo uploads then fail.
func NewDoctorService(
	repo repository.DoctorRepository,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	files storage.FileStorage,
	logger *zap.Logger,
) *DoctorServiceImpl {
	return &DoctorServiceImpl{
		repo:            repo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		files:           files,
		logger:          logger,
	}
}

func (s *DoctorServiceImpl) Create(ctx context.Context, dto domain.CreateDoctorDTO) (*domain.Doctor, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("failed to create doctor", zap.String("name", dto.Name), zap.Error(err))
		return nil, errInternal
	}

	s.logger.Info("doctor added", zap.Int64("id", id), zap.String("department", dto.Department))
	return s.GetByID(ctx, id)
}

func (s *DoctorServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get doctor", zap.Int64("id", id), zap.Error(err))
		return nil, errInternal
	}
	return doctor, nil
}

func (s *DoctorServiceImpl) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		v := domain.NewValidationError()
		v.Add("status", "Unknown doctor status")
		return nil, v
	}

	doctors, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list doctors", zap.Error(err))
		return nil, errInternal
	}
	return doctors, nil
}

func (s *DoctorServiceImpl) Search(ctx context.Context, department, day string) ([]domain.Doctor, error) {
	active := domain.DoctorStatusActive
	filter := domain.DoctorFilter{Status: &active}

	if department != "" && department != domain.AllDepartments {
		filter.Department = &department
	}

	if day != "" {
		weekday, ok := domain.ParseWeekday(day)
		if !ok {
			v := domain.NewValidationError()
			v.Add("day", "Unknown weekday "+day)
			return nil, v
		}
		canonical := domain.Weekdays[weekday]
		filter.Day = &canonical
	}

	return s.List(ctx, filter)
}

func (s *DoctorServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.DoctorStatus) (*domain.Doctor, error) {
	if !status.IsValid() {
		v := domain.NewValidationError()
		v.Add("status", "Unknown doctor status")
		return nil, v
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to update doctor status", zap.Int64("id", id), zap.Error(err))
		return nil, errInternal
	}

	s.logger.Info("doctor status changed", zap.Int64("id", id), zap.String("status", string(status)))
	return s.GetByID(ctx, id)
}

func (s *DoctorServiceImpl) GetProfile(ctx context.Context, userID int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get doctor profile", zap.Int64("user_id", userID), zap.Error(err))
		return nil, errInternal
	}
	return doctor, nil
}

// UpsertProfile updates the doctor record linked to userID, creating it from
// the account's name and email on first save.
func (s *DoctorServiceImpl) UpsertProfile(ctx context.Context, userID int64, dto domain.UpdateDoctorProfileDTO) (*domain.Doctor, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if dto.Status == "" {
			dto.Status = existing.Status
		}
		if err := s.repo.UpdateProfile(ctx, existing.ID, dto); err != nil {
			s.logger.Error("failed to update doctor profile", zap.Int64("id", existing.ID), zap.Error(err))
			return nil, errInternal
		}
		return s.GetByID(ctx, existing.ID)

	case errors.Is(err, domain.ErrNotFound):
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			s.logger.Error("doctor account not found", zap.Int64("user_id", userID), zap.Error(err))
			return nil, passthrough(err)
		}
		return s.Create(ctx, domain.CreateDoctorDTO{
			UserID:        &userID,
			Name:          user.Name,
			Email:         user.Email,
			Department:    dto.Department,
			Experience:    dto.Experience,
			AvailableDays: dto.AvailableDays,
			TimeSlots:     dto.TimeSlots,
			Status:        dto.Status,
		})

	default:
		s.logger.Error("failed to get doctor profile", zap.Int64("user_id", userID), zap.Error(err))
		return nil, errInternal
	}
}

func (s *DoctorServiceImpl) UploadProfilePhoto(ctx context.Context, userID int64, photo []byte, filename string) (*domain.Doctor, error) {
	if s.files == nil {
		return nil, errPhotoStorageDisabled
	}

	doctor, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.files.UploadFile(ctx, photo, filename)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) || errors.Is(err, storage.ErrNotImage) {
			v := domain.NewValidationError()
			v.Add("photo", err.Error())
			return nil, v
		}
		s.logger.Error("failed to upload profile photo", zap.Int64("doctor_id", doctor.ID), zap.Error(err))
		return nil, errInternal
	}

	if err := s.repo.UpdateProfilePhoto(ctx, doctor.ID, url); err != nil {
		s.logger.Error("failed to save profile photo url", zap.Int64("doctor_id", doctor.ID), zap.Error(err))
		if delErr := s.files.DeleteFile(ctx, url); delErr != nil {
			s.logger.Warn("failed to remove orphaned photo", zap.String("url", url), zap.Error(delErr))
		}
		return nil, errInternal
	}

	if doctor.ProfilePhotoURL != "" {
		if err := s.files.DeleteFile(ctx, doctor.ProfilePhotoURL); err != nil {
			s.logger.Warn("failed to remove previous photo", zap.String("url", doctor.ProfilePhotoURL), zap.Error(err))
		}
	}

	return s.GetByID(ctx, doctor.ID)
}

func (s *DoctorServiceImpl) AssignedAppointments(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	doctor, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{DoctorID: &doctor.ID})
	if err != nil {
		s.logger.Error("failed to list doctor appointments", zap.Int64("doctor_id", doctor.ID), zap.Error(err))
		return nil, errInternal
	}
	return appointments, nil
}
