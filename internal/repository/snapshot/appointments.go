package snapshot

import (
	"context"
	"time"

	"carepoint/internal/domain"
)

type appointmentStore struct {
	store *Store
}

func (r *appointmentStore) Create(ctx context.Context, a domain.Appointment) (int64, error) {
	err := mutate(ctx, r.store, KeyAppointments, func(appointments []domain.Appointment) ([]domain.Appointment, error) {
		a.ID = nextID(appointments, func(a domain.Appointment) int64 { return a.ID })
		if a.CreatedAt.IsZero() {
			a.CreatedAt = r.store.now()
		}
		a.UpdatedAt = a.CreatedAt
		return append([]domain.Appointment{a}, appointments...), nil
	})
	return a.ID, err
}

func (r *appointmentStore) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointments, err := readAll[domain.Appointment](ctx, r.store, KeyAppointments)
	if err != nil {
		return nil, err
	}
	for _, a := range appointments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *appointmentStore) update(ctx context.Context, id int64, apply func(a *domain.Appointment) error) error {
	return mutate(ctx, r.store, KeyAppointments, func(appointments []domain.Appointment) ([]domain.Appointment, error) {
		for i := range appointments {
			if appointments[i].ID == id {
				if err := apply(&appointments[i]); err != nil {
					return nil, err
				}
				appointments[i].UpdatedAt = r.store.now()
				return appointments, nil
			}
		}
		return nil, domain.ErrNotFound
	})
}

func (r *appointmentStore) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	return r.update(ctx, id, func(a *domain.Appointment) error {
		if a.Status != from {
			return domain.ErrInvalidTransition
		}
		a.Status = to
		return nil
	})
}

func (r *appointmentStore) AssignDoctor(ctx context.Context, id, doctorID int64, doctorName string) error {
	return r.update(ctx, id, func(a *domain.Appointment) error {
		a.AssignedDoctorID = &doctorID
		a.AssignedDoctorName = doctorName
		return nil
	})
}

func (r *appointmentStore) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	appointments, err := readAll[domain.Appointment](ctx, r.store, KeyAppointments)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && (a.AssignedDoctorID == nil || *a.AssignedDoctorID != *filter.DoctorID) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Department != nil && a.Department != *filter.Department {
			continue
		}
		if filter.Date != nil && !sameDate(a.Date, *filter.Date) {
			continue
		}
		out = append(out, a)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
