package rest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func TestAppointmentFlow(t *testing.T) {
	ts := newTestServer(t)

	// 2026-10-20 is a Tuesday.
	w := ts.do(t, http.MethodPost, "/api/v1/appointments", ts.patient, map[string]string{
		"department": "General Physician",
		"date":       "2026-10-20",
		"time_slot":  "Evening",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var appointment domain.Appointment
	decodeData(t, w, &appointment)
	assert.Equal(t, "Dr. Michael Brown", appointment.AssignedDoctorName)

	w = ts.do(t, http.MethodPost, "/api/v1/appointments", ts.patient, map[string]string{"date": "20-10-2026"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "date")

	w = ts.do(t, http.MethodGet, "/api/v1/appointments", ts.patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []domain.Appointment
	decodeData(t, w, &mine)
	assert.Len(t, mine, 1)

	w = ts.do(t, http.MethodGet, "/api/v1/appointments", ts.doctor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/appointments?date=2026-10-20", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var onDate []domain.Appointment
	decodeData(t, w, &onDate)
	assert.Len(t, onDate, 1)

	path := fmt.Sprintf("/api/v1/appointments/%d", appointment.ID)

	w = ts.do(t, http.MethodPatch, path+"/doctor", ts.admin, map[string]any{"doctor_id": 9999})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "doctor_id")

	w = ts.do(t, http.MethodPatch, path+"/doctor", ts.admin, map[string]any{"doctor_id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &appointment)
	assert.Equal(t, "Dr. Sarah Smith", appointment.AssignedDoctorName)

	w = ts.do(t, http.MethodPatch, path+"/status", ts.admin, map[string]string{"status": "under_review"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsOverview(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/analytics/overview", ts.patient, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/analytics/overview?date=not-a-date", ts.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/analytics/overview?date=2026-10-19", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var overview domain.Overview
	decodeData(t, w, &overview)
	assert.Zero(t, overview.TotalQueries)
	require.Len(t, overview.DoctorsOnDuty, 1)
	assert.Equal(t, "Dr. Sarah Smith", overview.DoctorsOnDuty[0].Name)
}
