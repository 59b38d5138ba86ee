package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func doctor(id int64, name, department string, status domain.DoctorStatus, days []string, slots ...domain.TimeSlot) domain.Doctor {
	return domain.Doctor{
		ID:            id,
		Name:          name,
		Department:    department,
		Status:        status,
		AvailableDays: days,
		TimeSlots:     slots,
	}
}

func testRegistry() []domain.Doctor {
	return []domain.Doctor{
		doctor(1, "Dr. Sarah Smith", "Cardiologist (Heart)", domain.DoctorStatusOnLeave, []string{"Monday"}, domain.TimeSlotMorning),
		doctor(2, "Dr. Mark Davis", "Cardiologist (Heart)", domain.DoctorStatusActive, []string{"Tuesday", "Thursday"}, domain.TimeSlotMorning, domain.TimeSlotEvening),
		doctor(3, "Dr. Lisa Wong", "Cardiologist (Heart)", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotAfternoon),
		doctor(4, "Dr. Michael Brown", "General Physician", domain.DoctorStatusActive, []string{"Monday", "Tuesday"}, domain.TimeSlotMorning),
		doctor(5, "Dr. William Lee", "General Physician", domain.DoctorStatusActive, []string{"Friday"}, domain.TimeSlotMorning),
	}
}

func TestMatchDoctor_SpecialtyFirstActiveWins(t *testing.T) {
	d := MatchDoctor(SpecialtyCardiologist, testRegistry())
	require.NotNil(t, d)
	assert.Equal(t, int64(2), d.ID)
}

func TestMatchDoctor_FallsBackToGeneral(t *testing.T) {
	d := MatchDoctor(SpecialtyDermatologist, testRegistry())
	require.NotNil(t, d)
	assert.Equal(t, int64(4), d.ID)

	d = MatchDoctor("", testRegistry())
	require.NotNil(t, d)
	assert.Equal(t, int64(4), d.ID)
}

func TestMatchDoctor_NoCandidate(t *testing.T) {
	registry := []domain.Doctor{
		doctor(1, "Dr. Kevin White", "Pediatrician", domain.DoctorStatusActive, []string{"Monday"}, domain.TimeSlotMorning),
		doctor(2, "Dr. Angela Martinez", "General Physician", domain.DoctorStatusOnLeave, []string{"Monday"}, domain.TimeSlotMorning),
	}
	assert.Nil(t, MatchDoctor(SpecialtyCardiologist, registry))
	assert.Nil(t, MatchDoctor(SpecialtyCardiologist, nil))
}

func TestMatchDoctor_SubstringMatch(t *testing.T) {
	registry := []domain.Doctor{
		doctor(7, "Dr. Ada", "Pediatric Cardiologist", domain.DoctorStatusActive, nil),
	}
	d := MatchDoctor(SpecialtyCardiologist, registry)
	require.NotNil(t, d)
	assert.Equal(t, int64(7), d.ID)
}

func TestMatchDoctor_DoesNotAliasRegistry(t *testing.T) {
	registry := testRegistry()
	d := MatchDoctor(SpecialtyCardiologist, registry)
	require.NotNil(t, d)
	d.Name = "changed"
	assert.Equal(t, "Dr. Mark Davis", registry[1].Name)
}

func TestMatchDoctor_Idempotent(t *testing.T) {
	registry := testRegistry()
	assert.Equal(t, MatchDoctor(SpecialtyOrthopedic, registry), MatchDoctor(SpecialtyOrthopedic, registry))
}
