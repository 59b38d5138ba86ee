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

type QueryServiceImpl struct {
	repo       repository.QueryRepository
	doctorRepo repository.DoctorRepository
	userRepo   repository.UserRepository
	publisher  events.Publisher
	logger     *zap.Logger
}

func NewQueryService(
	repo repository.QueryRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		repo:       repo,
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Submit stores a patient's symptom report together with the guidance
// computed against the current doctor registry.
func (s *QueryServiceImpl) Submit(ctx context.Context, patientID int64, dto domain.CreateQueryDTO) (*domain.SubmittedQuery, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	patient, err := s.userRepo.GetByID(ctx, patientID)
	if err != nil {
		s.logger.Error("patient not found for query", zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, passthrough(err)
	}

	registry, err := registrySnapshot(ctx, s.doctorRepo, s.logger)
	if err != nil {
		return nil, err
	}

	guidance := matching.BuildGuidance(dto.Symptoms, registry)

	query := domain.Query{
		PatientID:        patient.ID,
		PatientName:      patient.Name,
		Age:              *dto.Age,
		Gender:           dto.Gender,
		Category:         dto.Category,
		Symptoms:         dto.Symptoms,
		Status:           domain.StatusPending,
		Urgency:          guidance.Urgency,
		AdvisoryKind:     guidance.Kind,
		Advisory:         guidance.Text,
		AssignedDoctorID: guidance.DoctorID(),
	}
	if guidance.Doctor != nil {
		query.AssignedDoctorName = guidance.Doctor.Name
	}

	id, err := s.repo.Create(ctx, query)
	if err != nil {
		s.logger.Error("failed to save query", zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, errInternal
	}

	stored, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("query submitted",
		zap.Int64("id", id),
		zap.String("urgency", string(guidance.Urgency)),
		zap.Int64p("doctor_id", guidance.DoctorID()),
	)
	publish(ctx, s.publisher, s.logger, domain.EventQuerySubmitted, stored)

	return &domain.SubmittedQuery{Query: stored, Guidance: guidance.Response()}, nil
}

// Preview returns the guidance a submission would receive without storing
// anything.
func (s *QueryServiceImpl) Preview(ctx context.Context, symptoms string) (*domain.TriageResponse, error) {
	registry, err := registrySnapshot(ctx, s.doctorRepo, s.logger)
	if err != nil {
		return nil, err
	}

	resp := matching.BuildGuidance(symptoms, registry).Response()
	return &resp, nil
}

func (s *QueryServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Query, error) {
	query, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get query", zap.Int64("id", id), zap.Error(err))
		return nil, errInternal
	}
	return query, nil
}

func (s *QueryServiceImpl) List(ctx context.Context, filter domain.QueryFilter) ([]domain.Query, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		v := domain.NewValidationError()
		v.Add("status", "Unknown status")
		return nil, v
	}

	queries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list queries", zap.Error(err))
		return nil, errInternal
	}
	return queries, nil
}

func (s *QueryServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (*domain.Query, error) {
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
		s.logger.Error("failed to update query status", zap.Int64("id", id), zap.Error(err))
		return nil, errInternal
	}

	s.logger.Info("query status changed",
		zap.Int64("id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
	)
	return s.GetByID(ctx, id)
}

// registrySnapshot reads the whole doctor registry in insertion order.
func registrySnapshot(ctx context.Context, repo repository.DoctorRepository, logger *zap.Logger) ([]domain.Doctor, error) {
	doctors, err := repo.List(ctx, domain.DoctorFilter{})
	if err != nil {
		logger.Error("failed to read doctor registry", zap.Error(err))
		return nil, errInternal
	}
	return doctors, nil
}
