package domain

import (
	"strings"
	"time"
)

const (
	CategoryEmergency           = "Emergency"
	CategoryGeneralConsultation = "General Consultation"
	CategorySpecialistRequired  = "Specialist Required"
)

// Query is a patient-submitted symptom report together with the advisory
// computed when it was submitted.
type Query struct {
	ID                 int64         `json:"id"`
	PatientID          int64         `json:"patient_id"`
	PatientName        string        `json:"patient_name"`
	Age                int           `json:"age"`
	Gender             string        `json:"gender,omitempty"`
	Category           string        `json:"category"`
	Symptoms           string        `json:"symptoms"`
	Status             RequestStatus `json:"status"`
	Urgency            Urgency       `json:"urgency"`
	AdvisoryKind       AdvisoryKind  `json:"advisory_kind"`
	Advisory           string        `json:"advisory"`
	AssignedDoctorID   *int64        `json:"assigned_doctor_id"`
	AssignedDoctorName string        `json:"assigned_doctor_name,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type CreateQueryDTO struct {
	Age      *int   `json:"age"`
	Gender   string `json:"gender,omitempty"`
	Category string `json:"category,omitempty"`
	Symptoms string `json:"symptoms"`
}

func (dto *CreateQueryDTO) Normalize() {
	dto.Symptoms = strings.TrimSpace(dto.Symptoms)
	dto.Gender = strings.TrimSpace(dto.Gender)
	dto.Category = strings.TrimSpace(dto.Category)
	if dto.Category == "" {
		dto.Category = CategoryGeneralConsultation
	}
}

func (dto CreateQueryDTO) Validate() error {
	v := NewValidationError()
	if dto.Age == nil {
		v.Add("age", "Age is required")
	} else if *dto.Age < 0 || *dto.Age > 120 {
		v.Add("age", "Age must be between 0 and 120")
	}
	if dto.Symptoms == "" {
		v.Add("symptoms", "Symptoms are required")
	}
	return v.OrNil()
}

type QueryFilter struct {
	PatientID *int64         `json:"patient_id"`
	Category  *string        `json:"category"`
	Status    *RequestStatus `json:"status"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

// SubmittedQuery is returned to the patient right after submission.
type SubmittedQuery struct {
	Query    *Query         `json:"query"`
	Guidance TriageResponse `json:"guidance"`
}
