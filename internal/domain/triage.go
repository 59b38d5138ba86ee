package domain

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
)

// AdvisoryKind is the presentation class of an advisory message.
type AdvisoryKind string

const (
	AdvisoryDanger  AdvisoryKind = "danger"
	AdvisoryWarning AdvisoryKind = "warning"
	AdvisoryInfo    AdvisoryKind = "info"
	AdvisorySuccess AdvisoryKind = "success"
)

type TriageRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
}

type TriageResponse struct {
	Urgency           Urgency      `json:"urgency"`
	Kind              AdvisoryKind `json:"kind"`
	Advisory          string       `json:"advisory"`
	Specialty         string       `json:"specialty,omitempty"`
	SuggestedDoctorID *int64       `json:"suggested_doctor_id"`
	SuggestedDoctor   string       `json:"suggested_doctor,omitempty"`
}
