package matching

import (
	"strings"

	"carepoint/internal/domain"
)

const (
	adviceDefault = "Your query has been recorded. A doctor will review your symptoms soon."
	adviceCardiac = "URGENT: Based on your symptoms of chest pain, please seek emergency medical attention or call emergency services immediately."
	adviceSkin    = "Based on your symptoms, we recommend a consultation with a skin specialist."
	adviceBone    = "We suggest consulting an Orthopedic specialist for this issue."
	adviceInjury  = "Based on your symptoms, we recommend a doctor consultation to properly assess the injury."
	adviceFever   = "We noticed you have a fever. Ensure you get plenty of rest and stay hydrated."
	adviceHead    = "For your headache, we suggest resting in a quiet, dark room and staying hydrated."
	adviceCough   = "Since you mentioned a cough, we suggest monitoring it and staying hydrated."
)

const (
	SpecialtyCardiologist  = "Cardiologist"
	SpecialtyDermatologist = "Dermatologist"
	SpecialtyOrthopedic    = "Orthopedic"
	SpecialtyPediatrician  = "Pediatrician"
)

// Classification is the outcome of scanning a symptom description.
// Specialty is empty when no specialist is indicated.
type Classification struct {
	Urgency   domain.Urgency
	Kind      domain.AdvisoryKind
	Advisory  string
	Specialty string
}

type rule struct {
	name     string
	keywords []string
	result   Classification
}

func (r rule) matches(text string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// rules are evaluated top to bottom and the first hit wins.
var rules = []rule{
	{
		name:     "cardiac",
		keywords: []string{"chest pain", "heart"},
		result:   Classification{domain.UrgencyHigh, domain.AdvisoryDanger, adviceCardiac, SpecialtyCardiologist},
	},
	{
		name:     "skin",
		keywords: []string{"skin", "rash"},
		result:   Classification{domain.UrgencyNormal, domain.AdvisorySuccess, adviceSkin, SpecialtyDermatologist},
	},
	{
		name:     "bone",
		keywords: []string{"bone", "joint", "fracture"},
		result:   Classification{domain.UrgencyNormal, domain.AdvisorySuccess, adviceBone, SpecialtyOrthopedic},
	},
	{
		name:     "child",
		keywords: []string{"child", "baby", "toddler"},
		result:   Classification{domain.UrgencyNormal, domain.AdvisorySuccess, adviceDefault, SpecialtyPediatrician},
	},
	{
		name:     "injury",
		keywords: []string{"injury"},
		result:   Classification{domain.UrgencyMedium, domain.AdvisoryWarning, adviceInjury, ""},
	},
	{
		name:     "fever",
		keywords: []string{"fever"},
		result:   Classification{domain.UrgencyLow, domain.AdvisoryInfo, adviceFever, ""},
	},
	{
		name:     "headache",
		keywords: []string{"headache"},
		result:   Classification{domain.UrgencyLow, domain.AdvisoryInfo, adviceHead, ""},
	},
	{
		name:     "cough",
		keywords: []string{"cough"},
		result:   Classification{domain.UrgencyLow, domain.AdvisoryInfo, adviceCough, ""},
	},
}

var defaultClassification = Classification{domain.UrgencyNormal, domain.AdvisorySuccess, adviceDefault, ""}

// Classify maps free-text symptoms to an urgency tier, an advisory and an
// optional target specialty using case-insensitive keyword containment.
func Classify(symptoms string) Classification {
	text := strings.ToLower(symptoms)
	for _, r := range rules {
		if r.matches(text) {
			return r.result
		}
	}
	return defaultClassification
}
