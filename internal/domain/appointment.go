package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Appointment is a scheduling request. Date is a calendar date with no time
// of day; AssignedDoctorID stays nil when nobody matched.
type Appointment struct {
	ID                 int64         `json:"id"`
	PatientID          int64         `json:"patient_id"`
	PatientName        string        `json:"patient_name"`
	Department         string        `json:"department"`
	Date               time.Time     `json:"date"`
	TimeSlot           TimeSlot      `json:"time_slot"`
	Status             RequestStatus `json:"status"`
	AssignedDoctorID   *int64        `json:"assigned_doctor_id"`
	AssignedDoctorName string        `json:"assigned_doctor_name,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type CreateAppointmentDTO struct {
	Department string   `json:"department,omitempty"`
	Date       string   `json:"date"`
	TimeSlot   TimeSlot `json:"time_slot,omitempty"`
}

func (dto *CreateAppointmentDTO) Normalize() {
	dto.Department = strings.TrimSpace(dto.Department)
	dto.Date = strings.TrimSpace(dto.Date)
	if dto.Department == "" {
		dto.Department = DefaultDepartment
	}
	if dto.TimeSlot == "" {
		dto.TimeSlot = TimeSlotMorning
	}
}

// Validate checks the request and returns the parsed calendar date.
func (dto CreateAppointmentDTO) Validate() (time.Time, error) {
	v := NewValidationError()
	var date time.Time
	if dto.Date == "" {
		v.Add("date", "Preferred Date is required")
	} else {
		parsed, err := time.Parse(DateLayout, dto.Date)
		if err != nil {
			v.Add("date", "Date must be in YYYY-MM-DD format")
		}
		date = parsed
	}
	if !dto.TimeSlot.IsValid() {
		v.Add("time_slot", "Unknown time slot")
	}
	return date, v.OrNil()
}

type AssignDoctorDTO struct {
	DoctorID *int64 `json:"doctor_id"`
}

type AppointmentFilter struct {
	PatientID  *int64         `json:"patient_id"`
	DoctorID   *int64         `json:"doctor_id"`
	Status     *RequestStatus `json:"status"`
	Department *string        `json:"department"`
	Date       *time.Time     `json:"date"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}
