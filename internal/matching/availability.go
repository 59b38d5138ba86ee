package matching

import (
	"strings"
	"time"

	"carepoint/internal/domain"
)

// FindAvailable returns, in registry order, every active doctor whose
// department starts with department and who works the given weekday and
// slot. Note this is a prefix match, unlike MatchDoctor.
func FindAvailable(department string, day time.Weekday, slot domain.TimeSlot, registry []domain.Doctor) []domain.Doctor {
	dayName := day.String()

	var available []domain.Doctor
	for _, d := range registry {
		if !strings.HasPrefix(d.Department, department) {
			continue
		}
		if !d.IsActive() || !d.WorksOn(dayName) || !d.Offers(slot) {
			continue
		}
		available = append(available, d)
	}
	return available
}

// Weekday returns the weekday of the calendar date in t's own location.
// Dates parsed with domain.DateLayout are UTC midnight, so no shift happens.
func Weekday(t time.Time) time.Weekday {
	return t.Weekday()
}

// AssignForBooking returns the first doctor available for the requested
// department, date and slot, or nil so the appointment is stored unassigned.
func AssignForBooking(department string, date time.Time, slot domain.TimeSlot, registry []domain.Doctor) *domain.Doctor {
	available := FindAvailable(department, Weekday(date), slot, registry)
	if len(available) == 0 {
		return nil
	}
	d := available[0]
	return &d
}
