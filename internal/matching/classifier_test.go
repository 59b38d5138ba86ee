package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carepoint/internal/domain"
)

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name      string
		symptoms  string
		urgency   domain.Urgency
		kind      domain.AdvisoryKind
		specialty string
		advisory  string
	}{
		{"chest pain", "Severe chest pain and shortness of breath", domain.UrgencyHigh, domain.AdvisoryDanger, SpecialtyCardiologist, adviceCardiac},
		{"heart", "Irregular heartbeat during exercise", domain.UrgencyHigh, domain.AdvisoryDanger, SpecialtyCardiologist, adviceCardiac},
		{"skin", "Severe acne breakout and skin redness", domain.UrgencyNormal, domain.AdvisorySuccess, SpecialtyDermatologist, adviceSkin},
		{"rash", "a rash on my arms", domain.UrgencyNormal, domain.AdvisorySuccess, SpecialtyDermatologist, adviceSkin},
		{"joint", "my knee joint is swollen", domain.UrgencyNormal, domain.AdvisorySuccess, SpecialtyOrthopedic, adviceBone},
		{"fracture", "possible fracture", domain.UrgencyNormal, domain.AdvisorySuccess, SpecialtyOrthopedic, adviceBone},
		{"toddler", "my toddler will not eat", domain.UrgencyNormal, domain.AdvisorySuccess, SpecialtyPediatrician, adviceDefault},
		{"injury", "sports injury to the shoulder", domain.UrgencyMedium, domain.AdvisoryWarning, "", adviceInjury},
		{"fever", "high fever since yesterday", domain.UrgencyLow, domain.AdvisoryInfo, "", adviceFever},
		{"headache", "persistent headache", domain.UrgencyLow, domain.AdvisoryInfo, "", adviceHead},
		{"cough", "Persistent cough for 3 weeks", domain.UrgencyLow, domain.AdvisoryInfo, "", adviceCough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.symptoms)
			assert.Equal(t, tt.urgency, c.Urgency)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.specialty, c.Specialty)
			assert.Equal(t, tt.advisory, c.Advisory)
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := Classify("CHEST PAIN after climbing stairs")
	assert.Equal(t, domain.UrgencyHigh, c.Urgency)
	assert.Equal(t, SpecialtyCardiologist, c.Specialty)
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// Later keywords must not change the cardiac outcome.
	c := Classify("heart racing, fever, rash on skin and a bad cough after a bone injury")
	assert.Equal(t, domain.UrgencyHigh, c.Urgency)
	assert.Equal(t, domain.AdvisoryDanger, c.Kind)
	assert.Equal(t, SpecialtyCardiologist, c.Specialty)

	c = Classify("Fever and rash on arms")
	assert.Equal(t, SpecialtyDermatologist, c.Specialty)
	assert.Equal(t, domain.UrgencyNormal, c.Urgency)

	c = Classify("child has a fever")
	assert.Equal(t, SpecialtyPediatrician, c.Specialty)
}

func TestClassify_Default(t *testing.T) {
	for _, symptoms := range []string{"", "I feel tired"} {
		c := Classify(symptoms)
		assert.Equal(t, domain.UrgencyNormal, c.Urgency)
		assert.Equal(t, domain.AdvisorySuccess, c.Kind)
		assert.Empty(t, c.Specialty)
		assert.Equal(t, adviceDefault, c.Advisory)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify("Mild headache and slightly elevated temperature")
	second := Classify("Mild headache and slightly elevated temperature")
	assert.Equal(t, first, second)
}
