package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestQueryService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("chest pain raises an emergency override", func(t *testing.T) {
		env := newTestEnv(t)

		submitted, err := env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{
			Age:      intPtr(54),
			Category: domain.CategoryEmergency,
			Symptoms: "Sharp CHEST PAIN since morning",
		})
		require.NoError(t, err)

		q := submitted.Query
		assert.Equal(t, "Test Patient", q.PatientName)
		assert.Equal(t, domain.StatusPending, q.Status)
		assert.Equal(t, domain.UrgencyHigh, q.Urgency)
		assert.Equal(t, domain.AdvisoryDanger, q.AdvisoryKind)
		require.NotNil(t, q.AssignedDoctorID)
		assert.Equal(t, "Dr. Sarah Smith", q.AssignedDoctorName)
		assert.Contains(t, q.Advisory, "EMERGENCY OVERRIDE: Dr. Sarah Smith (Cardiologist (Heart))")

		assert.Equal(t, q.Advisory, submitted.Guidance.Advisory)
		assert.Equal(t, "Cardiologist", submitted.Guidance.Specialty)
		assert.Equal(t, []domain.EventType{domain.EventQuerySubmitted}, env.publisher.types())
	})

	t.Run("unmatched symptoms fall back to general", func(t *testing.T) {
		env := newTestEnv(t)

		submitted, err := env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{
			Age:      intPtr(30),
			Symptoms: "persistent headache",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.UrgencyLow, submitted.Query.Urgency)
		assert.Equal(t, domain.CategoryGeneralConsultation, submitted.Query.Category)
		assert.Equal(t, "Dr. Michael Brown", submitted.Query.AssignedDoctorName)
		assert.Contains(t, submitted.Query.Advisory, "Dr. Michael Brown (General Physician) is available on Tuesday at Evening.")
	})

	t.Run("validation blocks the save", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{Symptoms: "   "})
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "age")
		assert.Contains(t, ve.Fields, "symptoms")

		queries, err := env.services.Query.List(ctx, domain.QueryFilter{})
		require.NoError(t, err)
		assert.Empty(t, queries)
		assert.Empty(t, env.publisher.types())
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		env := newTestEnv(t)
		env.publisher.err = assert.AnError

		_, err := env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{Age: intPtr(8), Symptoms: "fever"})
		assert.NoError(t, err)
	})
}

func TestQueryService_Preview(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.services.Query.Preview(context.Background(), "I feel tired")
	require.NoError(t, err)
	assert.Equal(t, domain.UrgencyNormal, resp.Urgency)
	assert.Empty(t, resp.Specialty)

	queries, err := env.services.Query.List(context.Background(), domain.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, queries, "preview stores nothing")
}

func TestQueryService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	submitted, err := env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{Age: intPtr(40), Symptoms: "cough"})
	require.NoError(t, err)
	id := submitted.Query.ID

	reviewed, err := env.services.Query.UpdateStatus(ctx, id, domain.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, reviewed.Status)

	_, err = env.services.Query.UpdateStatus(ctx, id, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	approved, err := env.services.Query.UpdateStatus(ctx, id, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	_, err = env.services.Query.UpdateStatus(ctx, id, domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "approved is terminal")

	_, err = env.services.Query.UpdateStatus(ctx, 9999, domain.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_ListFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{Age: intPtr(40), Category: domain.CategoryEmergency, Symptoms: "heart"})
	require.NoError(t, err)
	_, err = env.services.Query.Submit(ctx, env.patientID, domain.CreateQueryDTO{Age: intPtr(40), Symptoms: "rash"})
	require.NoError(t, err)
	_, err = env.services.Query.Submit(ctx, env.adminID, domain.CreateQueryDTO{Age: intPtr(60), Symptoms: "fever"})
	require.NoError(t, err)

	emergency := domain.CategoryEmergency
	onlyEmergency, err := env.services.Query.List(ctx, domain.QueryFilter{Category: &emergency})
	require.NoError(t, err)
	assert.Len(t, onlyEmergency, 1)

	mine, err := env.services.Query.List(ctx, domain.QueryFilter{PatientID: &env.patientID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "rash", mine[0].Symptoms, "newest first")

	bad := domain.RequestStatus("done")
	_, err = env.services.Query.List(ctx, domain.QueryFilter{Status: &bad})
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
}
