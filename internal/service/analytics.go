package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/matching"
	"carepoint/internal/repository"
)

const topDepartments = 5

var specialtyCategories = []string{"Pediatrician", "Cardiologist", "Dermatologist", "Orthopedic"}

type AnalyticsServiceImpl struct {
	queryRepo       repository.QueryRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	logger          *zap.Logger
}

func NewAnalyticsService(
	queryRepo repository.QueryRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	logger *zap.Logger,
) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		queryRepo:       queryRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		logger:          logger,
	}
}

// Overview computes the administrator dashboard for the calendar day of
// today.
func (s *AnalyticsServiceImpl) Overview(ctx context.Context, today time.Time) (*domain.Overview, error) {
	queries, err := s.queryRepo.List(ctx, domain.QueryFilter{})
	if err != nil {
		s.logger.Error("failed to list queries for analytics", zap.Error(err))
		return nil, errInternal
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{})
	if err != nil {
		s.logger.Error("failed to list appointments for analytics", zap.Error(err))
		return nil, errInternal
	}

	registry, err := registrySnapshot(ctx, s.doctorRepo, s.logger)
	if err != nil {
		return nil, err
	}

	overview := &domain.Overview{
		TotalQueries:             len(queries),
		TotalAppointments:        len(appointments),
		DoctorsOnDuty:            doctorsOnDuty(registry, today),
		CategoryDistribution:     categoryDistribution(queries),
		AppointmentsByDepartment: appointmentsByDepartment(appointments),
		AppointmentsTrend:        appointmentsTrend(appointments),
	}

	for _, q := range queries {
		if q.Category == domain.CategoryEmergency {
			overview.EmergencyQueries++
		}
		if q.Status == domain.StatusPending {
			overview.PendingQueries++
		}
	}

	todayKey := today.Format(domain.DateLayout)
	for _, a := range appointments {
		if a.Date.Format(domain.DateLayout) == todayKey {
			overview.AppointmentsToday++
		}
	}

	return overview, nil
}

func doctorsOnDuty(registry []domain.Doctor, today time.Time) []domain.Doctor {
	day := domain.Weekdays[matching.Weekday(today)]
	onDuty := make([]domain.Doctor, 0)
	for _, d := range registry {
		if d.IsActive() && d.WorksOn(day) {
			onDuty = append(onDuty, d)
		}
	}
	return onDuty
}

func categoryBucket(category string) string {
	switch {
	case category == domain.CategoryEmergency:
		return "Emergency"
	case category == domain.CategoryGeneralConsultation:
		return "General"
	case category == domain.CategorySpecialistRequired:
		return "Specialist"
	}
	for _, specialty := range specialtyCategories {
		if strings.Contains(category, specialty) {
			return "Specialist"
		}
	}
	return "Other"
}

// categoryDistribution buckets queries by category, dropping empty buckets.
func categoryDistribution(queries []domain.Query) []domain.NamedCount {
	counts := map[string]int{}
	for _, q := range queries {
		counts[categoryBucket(q.Category)]++
	}

	out := make([]domain.NamedCount, 0, 4)
	for _, name := range []string{"Emergency", "General", "Specialist", "Other"} {
		if counts[name] > 0 {
			out = append(out, domain.NamedCount{Name: name, Count: counts[name]})
		}
	}
	return out
}

// appointmentsByDepartment groups by the first word of the department and
// keeps the five largest groups. Ties keep first-seen order.
func appointmentsByDepartment(appointments []domain.Appointment) []domain.NamedCount {
	index := map[string]int{}
	out := make([]domain.NamedCount, 0)
	for _, a := range appointments {
		name := a.Department
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}
		if i, ok := index[name]; ok {
			out[i].Count++
			continue
		}
		index[name] = len(out)
		out = append(out, domain.NamedCount{Name: name, Count: 1})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topDepartments {
		out = out[:topDepartments]
	}
	return out
}

func appointmentsTrend(appointments []domain.Appointment) []domain.DateCount {
	counts := map[string]int{}
	for _, a := range appointments {
		counts[a.Date.Format(domain.DateLayout)]++
	}

	out := make([]domain.DateCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, domain.DateCount{Date: date, Count: count})
	}
	// The layout sorts lexically in calendar order.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
