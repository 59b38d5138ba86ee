package domain

import (
	"strings"
	"time"
)

type DoctorStatus string

const (
	DoctorStatusActive  DoctorStatus = "Active"
	DoctorStatusOnLeave DoctorStatus = "On Leave"
)

func (s DoctorStatus) IsValid() bool {
	return s == DoctorStatusActive || s == DoctorStatusOnLeave
}

type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "Morning"
	TimeSlotAfternoon TimeSlot = "Afternoon"
	TimeSlotEvening   TimeSlot = "Evening"
)

var TimeSlots = []TimeSlot{TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening}

func (t TimeSlot) IsValid() bool {
	for _, slot := range TimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// Weekdays lists the canonical weekday names in time.Weekday order.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func ParseWeekday(name string) (time.Weekday, bool) {
	for i, day := range Weekdays {
		if strings.EqualFold(day, name) {
			return time.Weekday(i), true
		}
	}
	return time.Sunday, false
}

const (
	DefaultDepartment = "General Physician"
	AllDepartments    = "All Departments"
)

// Doctor is a staff clinician. AvailableDays and TimeSlots are ordered: the
// first entry of each is treated as the doctor's next opening.
type Doctor struct {
	ID              int64        `json:"id"`
	UserID          *int64       `json:"user_id,omitempty"`
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	Department      string       `json:"department"`
	Experience      string       `json:"experience,omitempty"`
	AvailableDays   []string     `json:"available_days"`
	TimeSlots       []TimeSlot   `json:"time_slots"`
	Status          DoctorStatus `json:"status"`
	ProfilePhotoURL string       `json:"profile_photo_url,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (d Doctor) IsActive() bool {
	return d.Status == DoctorStatusActive
}

func (d Doctor) WorksOn(day string) bool {
	for _, available := range d.AvailableDays {
		if available == day {
			return true
		}
	}
	return false
}

func (d Doctor) Offers(slot TimeSlot) bool {
	for _, offered := range d.TimeSlots {
		if offered == slot {
			return true
		}
	}
	return false
}

// HasSchedule reports whether the doctor lists at least one day and one slot.
func (d Doctor) HasSchedule() bool {
	return len(d.AvailableDays) > 0 && len(d.TimeSlots) > 0
}

// DisplayName returns the name with a single "Dr." honorific.
func (d Doctor) DisplayName() string {
	if strings.HasPrefix(d.Name, "Dr.") || strings.HasPrefix(d.Name, "Dr ") {
		return d.Name
	}
	return "Dr. " + d.Name
}

type CreateDoctorDTO struct {
	UserID        *int64       `json:"user_id,omitempty"`
	Name          string       `json:"name"`
	Email         string       `json:"email,omitempty"`
	Department    string       `json:"department"`
	Experience    string       `json:"experience,omitempty"`
	AvailableDays []string     `json:"available_days"`
	TimeSlots     []TimeSlot   `json:"time_slots"`
	Status        DoctorStatus `json:"status,omitempty"`
}

func (dto *CreateDoctorDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Department = strings.TrimSpace(dto.Department)
	if dto.Department == "" {
		dto.Department = DefaultDepartment
	}
	if dto.Status == "" {
		dto.Status = DoctorStatusActive
	}
}

func (dto CreateDoctorDTO) Validate() error {
	v := NewValidationError()
	if dto.Name == "" {
		v.Add("name", "Name is required")
	}
	validateSchedule(v, dto.AvailableDays, dto.TimeSlots)
	if !dto.Status.IsValid() {
		v.Add("status", "Unknown doctor status")
	}
	return v.OrNil()
}

// UpdateDoctorProfileDTO is what a doctor edits on their own profile.
type UpdateDoctorProfileDTO struct {
	Department    string       `json:"department"`
	Experience    string       `json:"experience"`
	AvailableDays []string     `json:"available_days"`
	TimeSlots     []TimeSlot   `json:"time_slots"`
	Status        DoctorStatus `json:"status,omitempty"`
}

func (dto *UpdateDoctorProfileDTO) Normalize() {
	dto.Department = strings.TrimSpace(dto.Department)
	if dto.Department == "" {
		dto.Department = DefaultDepartment
	}
}

// Validate accepts an empty status; the current one is kept in that case.
func (dto UpdateDoctorProfileDTO) Validate() error {
	v := NewValidationError()
	validateSchedule(v, dto.AvailableDays, dto.TimeSlots)
	if dto.Status != "" && !dto.Status.IsValid() {
		v.Add("status", "Unknown doctor status")
	}
	return v.OrNil()
}

type UpdateDoctorStatusDTO struct {
	Status DoctorStatus `json:"status" binding:"required"`
}

func validateSchedule(v *ValidationError, days []string, slots []TimeSlot) {
	if len(days) == 0 {
		v.Add("days", "Select at least one day")
	}
	for _, day := range days {
		if _, ok := ParseWeekday(day); !ok {
			v.Add("days", "Unknown weekday "+day)
		}
	}
	if len(slots) == 0 {
		v.Add("slots", "Select at least one slot")
	}
	for _, slot := range slots {
		if !slot.IsValid() {
			v.Add("slots", "Unknown time slot "+string(slot))
		}
	}
}

type DoctorFilter struct {
	Department *string       `json:"department"`
	Day        *string       `json:"day"`
	Status     *DoctorStatus `json:"status"`
}
