package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func TestFindAvailable_PrefixMatchOnly(t *testing.T) {
	registry := []domain.Doctor{
		doctor(1, "Dr. Heart", "Cardiologist (Heart)", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotMorning),
		doctor(2, "Dr. Kid", "Pediatric Cardiologist", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotMorning),
	}

	got := FindAvailable("Cardiologist", time.Monday, domain.TimeSlotMorning, registry)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFindAvailable_FiltersStatusDayAndSlot(t *testing.T) {
	registry := []domain.Doctor{
		doctor(1, "Dr. Leave", "General Physician", domain.DoctorStatusOnLeave, []string{"Monday"}, domain.TimeSlotMorning),
		doctor(2, "Dr. Tuesday", "General Physician", domain.DoctorStatusActive, []string{"Tuesday"}, domain.TimeSlotMorning),
		doctor(3, "Dr. Evening", "General Physician", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotEvening),
		doctor(4, "Dr. Match", "General Physician", domain.DoctorStatusActive, []string{"Friday", "Monday"}, domain.TimeSlotEvening, domain.TimeSlotMorning),
		doctor(5, "Dr. Second", "General Physician", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotMorning),
	}

	got := FindAvailable("General Physician", time.Monday, domain.TimeSlotMorning, registry)

	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Equal(t, int64(5), got[1].ID)
}

func TestAssignForBooking_FirstAvailable(t *testing.T) {
	registry := []domain.Doctor{
		doctor(8, "Dr. Michael Brown", "General Physician", domain.DoctorStatusActive, []string{"Monday", "Tuesday"}, domain.TimeSlotMorning),
		doctor(9, "Dr. William Lee", "General Physician", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotMorning),
	}
	date, err := time.Parse(domain.DateLayout, "2024-05-06") // Monday
	require.NoError(t, err)

	d := AssignForBooking("General Physician", date, domain.TimeSlotMorning, registry)

	require.NotNil(t, d)
	assert.Equal(t, int64(8), d.ID)
}

func TestAssignForBooking_SundayWithoutCoverage(t *testing.T) {
	registry := []domain.Doctor{
		doctor(1, "Dr. A", "General Physician", domain.DoctorStatusActive, []string{"Monday", "Saturday"}, domain.TimeSlotMorning, domain.TimeSlotEvening),
		doctor(2, "Dr. B", "Cardiologist (Heart)", domain.DoctorStatusActive, []string{"Friday"}, domain.TimeSlotAfternoon),
	}
	sunday, err := time.Parse(domain.DateLayout, "2024-05-05")
	require.NoError(t, err)
	require.Equal(t, time.Sunday, Weekday(sunday))

	for _, dept := range []string{"General Physician", "Cardiologist", ""} {
		for _, slot := range domain.TimeSlots {
			assert.Nil(t, AssignForBooking(dept, sunday, slot, registry), "%s/%s", dept, slot)
		}
	}
}

func TestWeekday_CalendarDate(t *testing.T) {
	date, err := time.Parse(domain.DateLayout, "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, Weekday(date))

	local := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("UTC-10", -10*3600))
	assert.Equal(t, time.Monday, Weekday(local))
}
