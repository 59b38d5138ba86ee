package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
	"carepoint/internal/storage"
)

type fakeStorage struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakeStorage) UploadFile(_ context.Context, data []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if len(data) == 0 {
		return "", storage.ErrEmptyFile
	}
	url := "http://minio/photos/doctors/" + filename
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func TestDoctorService_CreateAndStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.services.Doctor.Create(ctx, domain.CreateDoctorDTO{Name: "Dr. X"})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "days")
	assert.Contains(t, ve.Fields, "slots")

	doctor, err := env.services.Doctor.Create(ctx, domain.CreateDoctorDTO{
		Name:          "Dr. New",
		AvailableDays: []string{"Friday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotMorning},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDepartment, doctor.Department)
	assert.Equal(t, domain.DoctorStatusActive, doctor.Status)

	updated, err := env.services.Doctor.UpdateStatus(ctx, doctor.ID, domain.DoctorStatusOnLeave)
	require.NoError(t, err)
	assert.Equal(t, domain.DoctorStatusOnLeave, updated.Status)

	_, err = env.services.Doctor.UpdateStatus(ctx, doctor.ID, "Retired")
	_, ok = domain.AsValidationError(err)
	assert.True(t, ok)

	_, err = env.services.Doctor.UpdateStatus(ctx, 9999, domain.DoctorStatusActive)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDoctorService_Search(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	all, err := env.services.Doctor.Search(ctx, domain.AllDepartments, "monday")
	require.NoError(t, err)
	require.Len(t, all, 1, "the on-leave dermatologist is excluded")
	assert.Equal(t, "Dr. Sarah Smith", all[0].Name)

	exact, err := env.services.Doctor.Search(ctx, "Cardiologist", "Monday")
	require.NoError(t, err)
	assert.Empty(t, exact, "department match is exact")

	gp, err := env.services.Doctor.Search(ctx, "General Physician", "Tuesday")
	require.NoError(t, err)
	require.Len(t, gp, 1)

	_, err = env.services.Doctor.Search(ctx, "", "Someday")
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
}

func TestDoctorService_Profile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.services.Doctor.GetProfile(ctx, env.doctorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	profile, err := env.services.Doctor.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{
		Department:    "Neurologist (Brain)",
		Experience:    "12 years",
		AvailableDays: []string{"Thursday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotAfternoon},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Jane Smith", profile.Name)
	assert.Equal(t, "doctor1@hospital.com", profile.Email)
	require.NotNil(t, profile.UserID)
	assert.Equal(t, env.doctorID, *profile.UserID)

	again, err := env.services.Doctor.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{
		Department:    "Neurologist (Brain)",
		AvailableDays: []string{"Thursday", "Friday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotAfternoon},
	})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID, "second save updates the same record")
	assert.Equal(t, []string{"Thursday", "Friday"}, again.AvailableDays)

	_, err = env.services.Doctor.UpdateStatus(ctx, profile.ID, domain.DoctorStatusOnLeave)
	require.NoError(t, err)

	onLeave, err := env.services.Doctor.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{
		Department:    "Neurologist (Brain)",
		AvailableDays: []string{"Friday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotMorning},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DoctorStatusOnLeave, onLeave.Status, "omitted status keeps the current one")

	_, err = env.services.Doctor.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{
		Department:    "Neurologist (Brain)",
		AvailableDays: []string{"Friday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotMorning},
		Status:        "Retired",
	})
	verr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "status")

	_, err = env.services.Doctor.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{})
	_, ok = domain.AsValidationError(err)
	assert.True(t, ok)
}

func TestDoctorService_UploadProfilePhoto(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.services.Doctor.UploadProfilePhoto(ctx, env.doctorID, []byte("x"), "a.png")
	assert.ErrorIs(t, err, errPhotoStorageDisabled)

	files := &fakeStorage{}
	svc := env.services.Doctor.(*DoctorServiceImpl)
	svc.files = files

	_, err = svc.UploadProfilePhoto(ctx, env.doctorID, []byte("x"), "a.png")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no profile yet")

	_, err = svc.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{
		AvailableDays: []string{"Monday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotMorning},
	})
	require.NoError(t, err)

	first, err := svc.UploadProfilePhoto(ctx, env.doctorID, []byte("x"), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/photos/doctors/a.png", first.ProfilePhotoURL)

	second, err := svc.UploadProfilePhoto(ctx, env.doctorID, []byte("y"), "b.png")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/photos/doctors/b.png", second.ProfilePhotoURL)
	assert.Equal(t, []string{first.ProfilePhotoURL}, files.deleted)

	_, err = svc.UploadProfilePhoto(ctx, env.doctorID, nil, "c.png")
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)

	files.err = errors.New("bucket unreachable")
	_, err = svc.UploadProfilePhoto(ctx, env.doctorID, []byte("z"), "d.png")
	assert.ErrorIs(t, err, errInternal)
}

func TestDoctorService_AssignedAppointments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	doctor, err := env.services.Doctor.UpsertProfile(ctx, env.doctorID, domain.UpdateDoctorProfileDTO{
		Department:    "Neurologist (Brain)",
		AvailableDays: []string{"Thursday"},
		TimeSlots:     []domain.TimeSlot{domain.TimeSlotAfternoon},
	})
	require.NoError(t, err)

	// 2026-10-22 is a Thursday.
	booked, err := env.services.Appointment.Request(ctx, env.patientID, domain.CreateAppointmentDTO{
		Department: "Neurologist",
		Date:       "2026-10-22",
		TimeSlot:   domain.TimeSlotAfternoon,
	})
	require.NoError(t, err)
	require.NotNil(t, booked.AssignedDoctorID)
	assert.Equal(t, doctor.ID, *booked.AssignedDoctorID)

	mine, err := env.services.Doctor.AssignedAppointments(ctx, env.doctorID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, booked.ID, mine[0].ID)
}

