package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/matching"
)

var (
	demoCategories = []string{
		domain.CategoryEmergency,
		domain.CategoryGeneralConsultation,
		"Pediatrician",
		"Cardiologist",
		"Dermatologist",
		"Orthopedic",
	}

	demoGenders = []string{"Male", "Female", "Other"}

	demoSymptoms = []string{
		"Severe chest pain and shortness of breath",
		"Mild headache and slightly elevated temperature",
		"Fever and rash on arms",
		"Severe allergic reaction, face swelling",
		"Irregular heartbeat during exercise",
		"Severe acne breakout and skin redness",
		"Persistent cough for 3 weeks",
		"Sharp pain in lower back",
		"Blurry vision in left eye",
		"Nausea and dizziness after eating",
	}

	demoDepartments = []string{
		"General Physician",
		"Cardiologist (Heart)",
		"Dermatologist (Skin)",
		"Orthopedic (Bones/Joints)",
		"Pediatrician",
		"Neurologist (Brain/Nerves)",
	}

	demoSlots = []domain.TimeSlot{domain.TimeSlotMorning, domain.TimeSlotAfternoon, domain.TimeSlotEvening}

	demoStatuses = []domain.RequestStatus{
		domain.StatusPending,
		domain.StatusUnderReview,
		domain.StatusApproved,
		domain.StatusRejected,
	}
)

// Demo generates n queries and n appointments for the default patient
// account. Queries fall in the week before now; appointments within two
// weeks either side of it. The first 15% of queries are emergencies.
func (s *Seeder) Demo(ctx context.Context, n int, rng *rand.Rand, now time.Time) error {
	if n <= 0 {
		return nil
	}

	patient, err := s.repos.User.GetByEmail(ctx, PatientEmail)
	if err != nil {
		return fmt.Errorf("demo patient: %w", err)
	}

	registry, err := s.repos.Doctor.List(ctx, domain.DoctorFilter{})
	if err != nil {
		return fmt.Errorf("list doctors: %w", err)
	}

	emergencies := n * 15 / 100
	for i := 0; i < n; i++ {
		category := demoCategories[rng.IntN(len(demoCategories))]
		if i < emergencies {
			category = domain.CategoryEmergency
		}
		status := domain.StatusPending
		if i%4 == 0 {
			status = domain.StatusApproved
		}
		symptoms := demoSymptoms[rng.IntN(len(demoSymptoms))]
		guidance := matching.BuildGuidance(symptoms, registry)

		q := domain.Query{
			PatientID:        patient.ID,
			PatientName:      fmt.Sprintf("Test Patient %d", i+1),
			Age:              rng.IntN(60) + 18,
			Gender:           demoGenders[rng.IntN(len(demoGenders))],
			Category:         category,
			Symptoms:         symptoms,
			Status:           status,
			Urgency:          guidance.Urgency,
			AdvisoryKind:     guidance.Kind,
			Advisory:         guidance.Text,
			AssignedDoctorID: guidance.DoctorID(),
			CreatedAt:        now.Add(-time.Duration(rng.Int64N(int64(7 * 24 * time.Hour)))),
		}
		if guidance.Doctor != nil {
			q.AssignedDoctorName = guidance.Doctor.Name
		}
		if _, err := s.repos.Query.Create(ctx, q); err != nil {
			return fmt.Errorf("create demo query: %w", err)
		}
	}

	for i := 0; i < n; i++ {
		offset := rng.IntN(15)
		if rng.IntN(2) == 0 {
			offset = -offset
		}
		y, m, d := now.AddDate(0, 0, offset).Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

		department := demoDepartments[rng.IntN(len(demoDepartments))]
		slot := demoSlots[rng.IntN(len(demoSlots))]

		a := domain.Appointment{
			PatientID:   patient.ID,
			PatientName: fmt.Sprintf("Test Patient %d", i+1),
			Department:  department,
			Date:        date,
			TimeSlot:    slot,
			Status:      demoStatuses[rng.IntN(len(demoStatuses))],
			CreatedAt:   now,
		}
		if doctor := matching.AssignForBooking(department, date, slot, registry); doctor != nil {
			id := doctor.ID
			a.AssignedDoctorID = &id
			a.AssignedDoctorName = doctor.Name
		}
		if _, err := s.repos.Appointment.Create(ctx, a); err != nil {
			return fmt.Errorf("create demo appointment: %w", err)
		}
	}

	s.logger.Info("generated demo data", zap.Int("queries", n), zap.Int("appointments", n))
	return nil
}
