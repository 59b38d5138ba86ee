package matching

import (
	"strings"

	"carepoint/internal/domain"
)

// FallbackDepartment is matched when no specialist is indicated or found.
const FallbackDepartment = "General"

// MatchDoctor picks the first active doctor whose department contains
// specialty, falling back to the first active "General" doctor. It returns
// nil when neither exists. There is no load balancing: the same doctor is
// suggested for every matching query.
func MatchDoctor(specialty string, registry []domain.Doctor) *domain.Doctor {
	if specialty != "" {
		if d := firstActive(registry, func(d domain.Doctor) bool {
			return strings.Contains(d.Department, specialty)
		}); d != nil {
			return d
		}
	}

	return firstActive(registry, func(d domain.Doctor) bool {
		return strings.Contains(d.Department, FallbackDepartment)
	})
}

func firstActive(registry []domain.Doctor, pred func(domain.Doctor) bool) *domain.Doctor {
	for i := range registry {
		if registry[i].IsActive() && pred(registry[i]) {
			d := registry[i]
			return &d
		}
	}
	return nil
}
