package snapshot

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"carepoint/internal/domain"
	"carepoint/internal/matching"
)

// Records below follow the camelCase shape the browser client wrote.

type legacyDoctor struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Department    string   `json:"department"`
	Experience    string   `json:"experience"`
	AvailableDays []string `json:"availableDays"`
	TimeSlots     []string `json:"timeSlots"`
	Status        string   `json:"status"`
}

type legacyQuery struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Age            flexInt         `json:"age"`
	Gender         string          `json:"gender"`
	Category       string          `json:"category"`
	Symptoms       string          `json:"symptoms"`
	Status         string          `json:"status"`
	Date           string          `json:"date"`
	AIGuidance     string          `json:"aiGuidance"`
	AssignedDoctor json.RawMessage `json:"assignedDoctor"`
}

type legacyAppointment struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PatientName    string          `json:"patientName"`
	Department     string          `json:"department"`
	Date           string          `json:"date"`
	TimeSlot       string          `json:"timeSlot"`
	Status         string          `json:"status"`
	AssignedDoctor json.RawMessage `json:"assignedDoctor"`
}

// flexInt accepts both 42 and "42"; form inputs were stored as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

func legacyStatus(s string) domain.RequestStatus {
	switch strings.ToLower(s) {
	case "resolved", "confirmed", "completed", "approved":
		return domain.StatusApproved
	case "cancelled", "rejected":
		return domain.StatusRejected
	case "under review", "under_review":
		return domain.StatusUnderReview
	default:
		return domain.StatusPending
	}
}

func legacyTime(s string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t
	}
	return fallback
}

// legacyDoctorName extracts a doctor name from either a plain string or an
// embedded doctor object.
func legacyDoctorName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

func doctorFromDTO(id int64, dto domain.CreateDoctorDTO, now time.Time) domain.Doctor {
	status := dto.Status
	if status == "" {
		status = domain.DoctorStatusActive
	}
	return domain.Doctor{
		ID:            id,
		UserID:        dto.UserID,
		Name:          dto.Name,
		Email:         dto.Email,
		Department:    dto.Department,
		Experience:    dto.Experience,
		AvailableDays: dto.AvailableDays,
		TimeSlots:     dto.TimeSlots,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func convertDoctors(raw []legacyDoctor, now time.Time) []domain.Doctor {
	doctors := make([]domain.Doctor, 0, len(raw))
	for i, d := range raw {
		slots := make([]domain.TimeSlot, 0, len(d.TimeSlots))
		for _, s := range d.TimeSlots {
			slots = append(slots, domain.TimeSlot(s))
		}
		doctors = append(doctors, doctorFromDTO(int64(i+1), domain.CreateDoctorDTO{
			Name:          d.Name,
			Email:         d.Email,
			Department:    d.Department,
			Experience:    d.Experience,
			AvailableDays: d.AvailableDays,
			TimeSlots:     slots,
			Status:        domain.DoctorStatus(d.Status),
		}, now))
	}
	return doctors
}

func doctorIDByName(doctors []domain.Doctor, name string) *int64 {
	if name == "" {
		return nil
	}
	for _, d := range doctors {
		if d.Name == name {
			id := d.ID
			return &id
		}
	}
	return nil
}

// convertQueries keeps the legacy order, which was newest first, by
// numbering from the end.
func convertQueries(raw []legacyQuery, doctors []domain.Doctor) []domain.Query {
	queries := make([]domain.Query, 0, len(raw))
	for i, q := range raw {
		created := legacyTime(q.Date, time.Time{})
		name := legacyDoctorName(q.AssignedDoctor)
		category := q.Category
		if category == "" {
			category = domain.CategoryGeneralConsultation
		}
		c := matching.Classify(q.Symptoms)
		advisory := q.AIGuidance
		if advisory == "" {
			advisory = c.Advisory
		}
		queries = append(queries, domain.Query{
			ID:                 int64(len(raw) - i),
			PatientName:        q.Name,
			Age:                int(q.Age),
			Gender:             q.Gender,
			Category:           category,
			Symptoms:           q.Symptoms,
			Status:             legacyStatus(q.Status),
			Urgency:            c.Urgency,
			AdvisoryKind:       c.Kind,
			Advisory:           advisory,
			AssignedDoctorID:   doctorIDByName(doctors, name),
			AssignedDoctorName: name,
			CreatedAt:          created,
			UpdatedAt:          created,
		})
	}
	return queries
}

func convertAppointments(raw []legacyAppointment, doctors []domain.Doctor) []domain.Appointment {
	appointments := make([]domain.Appointment, 0, len(raw))
	for i, a := range raw {
		date := legacyTime(a.Date, time.Time{})
		y, m, d := date.Date()
		patient := a.PatientName
		if patient == "" {
			patient = a.Name
		}
		slot := domain.TimeSlot(a.TimeSlot)
		if !slot.IsValid() {
			slot = domain.TimeSlotMorning
		}
		name := legacyDoctorName(a.AssignedDoctor)
		appointments = append(appointments, domain.Appointment{
			ID:                 int64(len(raw) - i),
			PatientName:        patient,
			Department:         a.Department,
			Date:               time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			TimeSlot:           slot,
			Status:             legacyStatus(a.Status),
			AssignedDoctorID:   doctorIDByName(doctors, name),
			AssignedDoctorName: name,
			CreatedAt:          date,
			UpdatedAt:          date,
		})
	}
	return appointments
}
