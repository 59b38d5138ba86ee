package snapshot

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/repository"
)

func testDefaults() Defaults {
	return Defaults{
		Doctors: []domain.CreateDoctorDTO{
			{Name: "Dr. Sarah Smith", Department: "Cardiologist (Heart)", AvailableDays: []string{"Monday"}, TimeSlots: []domain.TimeSlot{domain.TimeSlotMorning}},
			{Name: "Dr. Michael Brown", Department: "General Physician", AvailableDays: []string{"Tuesday"}, TimeSlots: []domain.TimeSlot{domain.TimeSlotEvening}},
		},
		Users: []domain.CreateUserDTO{
			{Name: "Admin", Email: "admin@hospital.com", PasswordHash: "hash-admin", Role: domain.UserRoleAdmin},
		},
	}
}

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(context.Background(), dir, testDefaults(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestNewStore_SeedsDefaults(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repos := store.Repositories()

	doctors, err := repos.Doctor.List(ctx, domain.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, int64(1), doctors[0].ID)
	assert.Equal(t, "Dr. Sarah Smith", doctors[0].Name)
	assert.Equal(t, domain.DoctorStatusActive, doctors[0].Status)

	admin, err := repos.User.GetByEmail(ctx, "ADMIN@hospital.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, admin.Role)
	assert.Equal(t, "hash-admin", admin.PasswordHash)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	store, dir := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Repositories().Doctor.Create(ctx, domain.CreateDoctorDTO{
		Name: "Dr. New", Department: "Pediatrician", AvailableDays: []string{"Friday"},
		TimeSlots: []domain.TimeSlot{domain.TimeSlotAfternoon}, Status: domain.DoctorStatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(ctx, dir, Defaults{}, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	doctors, err := reopened.Repositories().Doctor.List(ctx, domain.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, "Dr. New", doctors[2].Name)
	assert.Equal(t, int64(3), doctors[2].ID)
}

func TestNewStore_ConvertsLegacyKeys(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(dir, "carepoint.db"))
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE snapshots (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at DATETIME NOT NULL)`)
	require.NoError(t, err)
	legacy := map[string]string{
		LegacyKeyDoctors: `[{"id":"d1","name":"Dr. Old","department":"General Physician","experience":"5 Years",
			"availableDays":["Monday"],"timeSlots":["Morning"],"status":"Active"}]`,
		LegacyKeyQueries: `[{"id":"2","name":"Ann","age":"34","gender":"Female","category":"Emergency",
			"symptoms":"chest pain","status":"Resolved","date":"2024-05-06T10:00:00.000Z","assignedDoctor":{"name":"Dr. Old"}},
			{"id":"1","name":"Bob","age":51,"symptoms":"cough","status":"Pending","date":"2024-05-05T09:00:00.000Z"}]`,
		LegacyKeyAppointments: `[{"id":"a1","patientName":"Cy","department":"General Physician",
			"date":"2024-05-07T08:30:00.000Z","timeSlot":"Evening","status":"Cancelled","assignedDoctor":"Dr. Old"}]`,
	}
	for key, value := range legacy {
		_, err = db.Exec(`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)`, key, value, time.Now())
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	store, err := NewStore(ctx, dir, testDefaults(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	repos := store.Repositories()

	doctors, err := repos.Doctor.List(ctx, domain.DoctorFilter{})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Old", doctors[0].Name)

	queries, err := repos.Query.List(ctx, domain.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, int64(2), queries[0].ID)
	assert.Equal(t, "Ann", queries[0].PatientName)
	assert.Equal(t, 34, queries[0].Age)
	assert.Equal(t, domain.StatusApproved, queries[0].Status)
	assert.Equal(t, domain.UrgencyHigh, queries[0].Urgency)
	require.NotNil(t, queries[0].AssignedDoctorID)
	assert.Equal(t, doctors[0].ID, *queries[0].AssignedDoctorID)
	assert.Equal(t, 51, queries[1].Age)
	assert.Equal(t, domain.CategoryGeneralConsultation, queries[1].Category)
	assert.Equal(t, domain.StatusPending, queries[1].Status)

	appointments, err := repos.Appointment.List(ctx, domain.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "Cy", appointments[0].PatientName)
	assert.Equal(t, "2024-05-07", appointments[0].Date.Format(domain.DateLayout))
	assert.Equal(t, domain.TimeSlotEvening, appointments[0].TimeSlot)
	assert.Equal(t, domain.StatusRejected, appointments[0].Status)
	assert.Equal(t, "Dr. Old", appointments[0].AssignedDoctorName)
}

func TestDoctorStore_ListFiltersInOrder(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().Doctor

	require.NoError(t, repo.UpdateStatus(ctx, 1, domain.DoctorStatusOnLeave))

	day := "Monday"
	active := domain.DoctorStatusActive
	doctors, err := repo.List(ctx, domain.DoctorFilter{Day: &day, Status: &active})
	require.NoError(t, err)
	assert.Empty(t, doctors)

	dept := "General Physician"
	doctors, err = repo.List(ctx, domain.DoctorFilter{Department: &dept})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, int64(2), doctors[0].ID)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, domain.DoctorStatusActive), domain.ErrNotFound)
}

func TestDoctorStore_ProfileByUser(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().Doctor

	userID := int64(7)
	id, err := repo.Create(ctx, domain.CreateDoctorDTO{UserID: &userID, Name: "Dr. Jane Smith"})
	require.NoError(t, err)

	err = repo.UpdateProfile(ctx, id, domain.UpdateDoctorProfileDTO{
		Department: "Dermatologist (Skin)", Experience: "3 Years",
		AvailableDays: []string{"Tuesday"}, TimeSlots: []domain.TimeSlot{domain.TimeSlotMorning},
		Status: domain.DoctorStatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateProfilePhoto(ctx, id, "http://photos/doctors/x.jpg"))

	d, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Dermatologist (Skin)", d.Department)
	assert.Equal(t, []string{"Tuesday"}, d.AvailableDays)
	assert.Equal(t, "http://photos/doctors/x.jpg", d.ProfilePhotoURL)

	_, err = repo.GetByUserID(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryStore_StatusTransitions(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().Query

	first, err := repo.Create(ctx, domain.Query{PatientID: 3, Symptoms: "cough", Category: domain.CategoryGeneralConsultation, Status: domain.StatusPending})
	require.NoError(t, err)
	second, err := repo.Create(ctx, domain.Query{PatientID: 4, Symptoms: "rash", Category: domain.CategoryEmergency, Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	require.NoError(t, repo.UpdateStatus(ctx, first, domain.StatusPending, domain.StatusUnderReview))
	err = repo.UpdateStatus(ctx, first, domain.StatusPending, domain.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, domain.StatusPending, domain.StatusApproved), domain.ErrNotFound)

	q, err := repo.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, q.Status)

	all, err := repo.List(ctx, domain.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID)

	patient := int64(3)
	mine, err := repo.List(ctx, domain.QueryFilter{PatientID: &patient})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	paged, err := repo.List(ctx, domain.QueryFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first, paged[0].ID)
}

func TestAppointmentStore_AssignAndFilter(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().Appointment

	date := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	id, err := repo.Create(ctx, domain.Appointment{
		PatientID: 3, Department: "General Physician", Date: date,
		TimeSlot: domain.TimeSlotMorning, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	doctorID := int64(2)
	none, err := repo.List(ctx, domain.AppointmentFilter{DoctorID: &doctorID})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.AssignDoctor(ctx, id, doctorID, "Dr. Michael Brown"))

	assigned, err := repo.List(ctx, domain.AppointmentFilter{DoctorID: &doctorID, Date: &date})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Dr. Michael Brown", assigned[0].AssignedDoctorName)

	other := date.AddDate(0, 0, 1)
	none, err = repo.List(ctx, domain.AppointmentFilter{Date: &other})
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.ErrorIs(t, repo.AssignDoctor(ctx, 42, doctorID, "x"), domain.ErrNotFound)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().User

	id, err := repo.Create(ctx, domain.CreateUserDTO{Name: "Pat", Email: "pat@example.com", PasswordHash: "h", Role: domain.UserRolePatient})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = repo.Create(ctx, domain.CreateUserDTO{Name: "Pat 2", Email: "PAT@example.com", PasswordHash: "h", Role: domain.UserRolePatient})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	users, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().Auth

	session := domain.Session{ID: "s1", UserID: 1, RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSessionByRefreshToken(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "r1", got.RefreshToken)

	var stored []sessionRecord
	ok, err := store.get(ctx, store.db, KeySessions, &stored)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, stored, 1)
	assert.Equal(t, repository.TokenDigest("r1"), stored[0].TokenDigest)

	require.NoError(t, repo.DeleteSessionsByUserID(ctx, 1))
	_, err = repo.GetSessionByRefreshToken(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOTPBookingStore(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := store.Repositories().OTPBooking

	bookings, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	id, err := repo.Create(ctx, domain.OTPBooking{Name: "Ann", Phone: "+15550100", Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	bookings, err = repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "+15550100", bookings[0].Phone)
	assert.False(t, bookings[0].CreatedAt.IsZero())
}
