package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carepoint/config"
	"carepoint/internal/domain"
	"carepoint/internal/repository"
	"carepoint/internal/repository/snapshot"
	"carepoint/pkg/auth"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeVerifier struct {
	sendErr  error
	checkErr error
	codes    map[string]string
	sent     []string
}

func (v *fakeVerifier) Send(_ context.Context, phone string) (string, error) {
	if v.sendErr != nil {
		return "", v.sendErr
	}
	v.sent = append(v.sent, phone)
	return "pending", nil
}

func (v *fakeVerifier) Check(_ context.Context, phone, code string) (bool, error) {
	if v.checkErr != nil {
		return false, v.checkErr
	}
	return v.codes[phone] == code, nil
}

type testEnv struct {
	services  *Services
	repos     *repository.Repositories
	publisher *recordingPublisher
	verifier  *fakeVerifier
	patientID int64
	adminID   int64
	doctorID  int64 // user id of the doctor account
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SigningKey:      "test-signing-key",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
		OTP: config.OTPConfig{SendsPerMinute: 60, Burst: 2},
	}
}

func testRegistry() []domain.CreateDoctorDTO {
	return []domain.CreateDoctorDTO{
		{Name: "Dr. Sarah Smith", Department: "Cardiologist (Heart)", AvailableDays: []string{"Monday", "Wednesday"}, TimeSlots: []domain.TimeSlot{domain.TimeSlotMorning}},
		{Name: "Dr. Michael Brown", Department: "General Physician", AvailableDays: []string{"Tuesday"}, TimeSlots: []domain.TimeSlot{domain.TimeSlotEvening}},
		{Name: "Dr. Emily Davis", Department: "Dermatologist (Skin)", AvailableDays: []string{"Monday"}, TimeSlots: []domain.TimeSlot{domain.TimeSlotAfternoon}, Status: domain.DoctorStatusOnLeave},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	store, err := snapshot.NewStore(ctx, t.TempDir(), snapshot.Defaults{
		Doctors: testRegistry(),
		Users: []domain.CreateUserDTO{
			{Name: "Admin", Email: "admin@hospital.com", PasswordHash: hash, Role: domain.UserRoleAdmin},
			{Name: "Dr. Jane Smith", Email: "doctor1@hospital.com", PasswordHash: hash, Role: domain.UserRoleDoctor},
			{Name: "Test Patient", Email: "patient@hospital.com", PasswordHash: hash, Role: domain.UserRolePatient},
		},
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repos := store.Repositories()
	publisher := &recordingPublisher{}
	verifier := &fakeVerifier{codes: map[string]string{}}

	env := &testEnv{
		services: NewServices(Deps{
			Repos:     repos,
			Logger:    zap.NewNop(),
			Config:    testConfig(),
			Publisher: publisher,
			Verifier:  verifier,
		}),
		repos:     repos,
		publisher: publisher,
		verifier:  verifier,
	}

	for _, email := range []string{"admin@hospital.com", "doctor1@hospital.com", "patient@hospital.com"} {
		u, err := repos.User.GetByEmail(ctx, email)
		require.NoError(t, err)
		switch u.Role {
		case domain.UserRoleAdmin:
			env.adminID = u.ID
		case domain.UserRoleDoctor:
			env.doctorID = u.ID
		case domain.UserRolePatient:
			env.patientID = u.ID
		}
	}

	return env
}

// stalledPublisher never completes a write on its own, like a broker that
// stopped answering.
type stalledPublisher struct{}

func (stalledPublisher) Publish(ctx context.Context, _ domain.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestNewServices_StalledPublisherDoesNotHoldRequests(t *testing.T) {
	env := newTestEnv(t)
	cfg := testConfig()
	cfg.Kafka.WriteTimeout = 50 * time.Millisecond

	services := NewServices(Deps{
		Repos:     env.repos,
		Logger:    zap.NewNop(),
		Config:    cfg,
		Publisher: stalledPublisher{},
		Verifier:  env.verifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	submitted, err := services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{
		Age:      intPtr(40),
		Symptoms: "mild fever",
	})
	require.NoError(t, err)
	require.Less(t, time.Since(start), 2*time.Second)

	stored, err := services.Query.GetByID(ctx, submitted.Query.ID)
	require.NoError(t, err)
	require.Equal(t, submitted.Query.ID, stored.ID)
}

func TestPassthrough(t *testing.T) {
	v := domain.NewValidationError()
	v.Add("age", "Age is required")

	require.Same(t, v, passthrough(v))
	require.Equal(t, domain.ErrNotFound, passthrough(errors.Join(errors.New("ctx"), domain.ErrNotFound)))
	require.Equal(t, errInternal, passthrough(errors.New("connection refused")))
}

func TestPublish_FailureIsSwallowed(t *testing.T) {
	p := &recordingPublisher{err: errors.New("broker down")}

	require.NotPanics(t, func() {
		publish(context.Background(), p, zap.NewNop(), domain.EventQuerySubmitted, map[string]int{"id": 1})
	})
	require.Len(t, p.events, 1)
}
