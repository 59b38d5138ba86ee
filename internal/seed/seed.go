// Package seed holds the default registry and accounts a fresh install
// starts with, plus a generator for demo traffic.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/repository"
	"carepoint/internal/repository/snapshot"
	"carepoint/pkg/auth"
)

const (
	AdminEmail   = "admin@hospital.com"
	DoctorEmail  = "doctor1@hospital.com"
	PatientEmail = "patient@hospital.com"
)

var (
	morning   = domain.TimeSlotMorning
	afternoon = domain.TimeSlotAfternoon
	evening   = domain.TimeSlotEvening
)

func days(d ...string) []string { return d }

func slots(s ...domain.TimeSlot) []domain.TimeSlot { return s }

// Doctors returns the default registry in matching order. Every doctor starts
// Active.
func Doctors() []domain.CreateDoctorDTO {
	doctors := []domain.CreateDoctorDTO{
		{Name: "Dr. Sarah Smith", Department: "Cardiologist (Heart)", Experience: "12 Years", AvailableDays: days("Monday", "Wednesday", "Friday"), TimeSlots: slots(morning, afternoon)},
		{Name: "Dr. Mark Davis", Department: "Cardiologist (Heart)", Experience: "9 Years", AvailableDays: days("Tuesday", "Thursday", "Saturday"), TimeSlots: slots(morning, evening)},
		{Name: "Dr. Lisa Wong", Department: "Cardiologist (Heart)", Experience: "15 Years", AvailableDays: days("Monday", "Tuesday", "Wednesday"), TimeSlots: slots(afternoon, evening)},
		{Name: "Dr. James Wilson", Department: "Dermatologist (Skin)", Experience: "8 Years", AvailableDays: days("Tuesday", "Thursday"), TimeSlots: slots(morning, evening)},
		{Name: "Dr. Patricia Hall", Department: "Dermatologist (Skin)", Experience: "5 Years", AvailableDays: days("Monday", "Wednesday", "Friday"), TimeSlots: slots(afternoon)},
		{Name: "Dr. Emily Chen", Department: "Orthopedic (Bones/Joints)", Experience: "15 Years", AvailableDays: days("Monday", "Tuesday", "Wednesday", "Thursday", "Friday"), TimeSlots: slots(afternoon, evening)},
		{Name: "Dr. Robert Garcia", Department: "Orthopedic (Bones/Joints)", Experience: "11 Years", AvailableDays: days("Tuesday", "Thursday", "Saturday"), TimeSlots: slots(morning)},
		{Name: "Dr. Michael Brown", Department: "General Physician", Experience: "5 Years", AvailableDays: days("Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"), TimeSlots: slots(morning, afternoon, evening)},
		{Name: "Dr. William Lee", Department: "General Physician", Experience: "18 Years", AvailableDays: days("Monday", "Wednesday", "Friday"), TimeSlots: slots(morning)},
		{Name: "Dr. Angela Martinez", Department: "General Physician", Experience: "2 Years", AvailableDays: days("Tuesday", "Thursday", "Saturday"), TimeSlots: slots(evening)},
		{Name: "Dr. Kevin White", Department: "Pediatrician", Experience: "14 Years", AvailableDays: days("Monday", "Wednesday", "Friday"), TimeSlots: slots(morning, afternoon)},
		{Name: "Dr. Mary Taylor", Department: "Pediatrician", Experience: "7 Years", AvailableDays: days("Tuesday", "Thursday"), TimeSlots: slots(afternoon, evening)},
		{Name: "Dr. Christopher Moore", Department: "Neurologist (Brain/Nerves)", Experience: "20 Years", AvailableDays: days("Monday", "Tuesday", "Thursday"), TimeSlots: slots(morning, evening)},
	}
	for i := range doctors {
		doctors[i].Status = domain.DoctorStatusActive
	}
	return doctors
}

type account struct {
	name     string
	email    string
	password string
	role     domain.UserRole
}

var accounts = []account{
	{name: "Admin", email: AdminEmail, password: "admin", role: domain.UserRoleAdmin},
	{name: "Dr. Jane Smith", email: DoctorEmail, password: "doctor", role: domain.UserRoleDoctor},
	{name: "Test Patient", email: PatientEmail, password: "patient", role: domain.UserRolePatient},
}

// Users returns the demo accounts with hashed passwords.
func Users() ([]domain.CreateUserDTO, error) {
	users := make([]domain.CreateUserDTO, 0, len(accounts))
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.email, err)
		}
		users = append(users, domain.CreateUserDTO{
			Name:         a.name,
			Email:        a.email,
			PasswordHash: hash,
			Role:         a.role,
		})
	}
	return users, nil
}

// Defaults is what the embedded store bootstraps empty collections with.
func Defaults() (snapshot.Defaults, error) {
	users, err := Users()
	if err != nil {
		return snapshot.Defaults{}, err
	}
	return snapshot.Defaults{Doctors: Doctors(), Users: users}, nil
}

type Seeder struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewSeeder(repos *repository.Repositories, logger *zap.Logger) *Seeder {
	return &Seeder{repos: repos, logger: logger}
}

// Run loads the default registry when it is empty and creates any missing
// default account. It is safe to run repeatedly.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.repos.Doctor.List(ctx, domain.DoctorFilter{})
	if err != nil {
		return fmt.Errorf("list doctors: %w", err)
	}
	if len(existing) == 0 {
		for _, dto := range Doctors() {
			dto.Normalize()
			if _, err := s.repos.Doctor.Create(ctx, dto); err != nil {
				return fmt.Errorf("create doctor %s: %w", dto.Name, err)
			}
		}
		s.logger.Info("seeded doctors", zap.Int("count", len(Doctors())))
	} else {
		s.logger.Info("doctor registry not empty, skipping", zap.Int("count", len(existing)))
	}

	users, err := Users()
	if err != nil {
		return err
	}
	for _, dto := range users {
		_, err := s.repos.User.GetByEmail(ctx, dto.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("lookup %s: %w", dto.Email, err)
		}
		if _, err := s.repos.User.Create(ctx, dto); err != nil {
			return fmt.Errorf("create user %s: %w", dto.Email, err)
		}
		s.logger.Info("seeded user", zap.String("email", dto.Email), zap.String("role", string(dto.Role)))
	}

	return nil
}
