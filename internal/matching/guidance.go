package matching

import (
	"fmt"

	"carepoint/internal/domain"
)

// Guidance is the end-to-end advisory shown after a query is submitted.
type Guidance struct {
	Urgency   domain.Urgency
	Kind      domain.AdvisoryKind
	Text      string
	Specialty string
	Doctor    *domain.Doctor
}

// DoctorID returns the suggested doctor's id or nil.
func (g Guidance) DoctorID() *int64 {
	if g.Doctor == nil {
		return nil
	}
	id := g.Doctor.ID
	return &id
}

// BuildGuidance classifies symptoms, matches a doctor and appends a
// suggestion naming that doctor's first listed day and slot. High urgency
// switches the suggestion to an emergency override. Doctors with an empty
// schedule are still returned but get no suggestion clause.
func BuildGuidance(symptoms string, registry []domain.Doctor) Guidance {
	c := Classify(symptoms)
	g := Guidance{
		Urgency:   c.Urgency,
		Kind:      c.Kind,
		Text:      c.Advisory,
		Specialty: c.Specialty,
		Doctor:    MatchDoctor(c.Specialty, registry),
	}

	if g.Doctor != nil && g.Doctor.HasSchedule() {
		g.Text += suggestionClause(*g.Doctor, c.Urgency)
	}

	return g
}

func suggestionClause(d domain.Doctor, urgency domain.Urgency) string {
	if urgency == domain.UrgencyHigh {
		return fmt.Sprintf(" EMERGENCY OVERRIDE: %s (%s) has been automatically flagged to review your case immediately.",
			d.DisplayName(), d.Department)
	}
	return fmt.Sprintf(" %s (%s) is available on %s at %s.",
		d.DisplayName(), d.Department, d.AvailableDays[0], d.TimeSlots[0])
}

// Response converts the guidance into its API shape.
func (g Guidance) Response() domain.TriageResponse {
	resp := domain.TriageResponse{
		Urgency:           g.Urgency,
		Kind:              g.Kind,
		Advisory:          g.Text,
		Specialty:         g.Specialty,
		SuggestedDoctorID: g.DoctorID(),
	}
	if g.Doctor != nil {
		resp.SuggestedDoctor = g.Doctor.Name
	}
	return resp
}
