package snapshot

import (
	"context"

	"carepoint/internal/domain"
)

type doctorStore struct {
	store *Store
}

func (r *doctorStore) Create(ctx context.Context, dto domain.CreateDoctorDTO) (int64, error) {
	var id int64
	err := mutate(ctx, r.store, KeyDoctors, func(doctors []domain.Doctor) ([]domain.Doctor, error) {
		id = nextID(doctors, func(d domain.Doctor) int64 { return d.ID })
		return append(doctors, doctorFromDTO(id, dto, r.store.now())), nil
	})
	return id, err
}

func (r *doctorStore) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	return r.find(ctx, func(d domain.Doctor) bool { return d.ID == id })
}

func (r *doctorStore) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	return r.find(ctx, func(d domain.Doctor) bool { return d.UserID != nil && *d.UserID == userID })
}

func (r *doctorStore) find(ctx context.Context, match func(domain.Doctor) bool) (*domain.Doctor, error) {
	doctors, err := readAll[domain.Doctor](ctx, r.store, KeyDoctors)
	if err != nil {
		return nil, err
	}
	for _, d := range doctors {
		if match(d) {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *doctorStore) update(ctx context.Context, id int64, apply func(d *domain.Doctor)) error {
	return mutate(ctx, r.store, KeyDoctors, func(doctors []domain.Doctor) ([]domain.Doctor, error) {
		for i := range doctors {
			if doctors[i].ID == id {
				apply(&doctors[i])
				doctors[i].UpdatedAt = r.store.now()
				return doctors, nil
			}
		}
		return nil, domain.ErrNotFound
	})
}

func (r *doctorStore) UpdateProfile(ctx context.Context, id int64, dto domain.UpdateDoctorProfileDTO) error {
	return r.update(ctx, id, func(d *domain.Doctor) {
		d.Department = dto.Department
		d.Experience = dto.Experience
		d.AvailableDays = dto.AvailableDays
		d.TimeSlots = dto.TimeSlots
		d.Status = dto.Status
	})
}

func (r *doctorStore) UpdateStatus(ctx context.Context, id int64, status domain.DoctorStatus) error {
	return r.update(ctx, id, func(d *domain.Doctor) {
		d.Status = status
	})
}

func (r *doctorStore) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	return r.update(ctx, id, func(d *domain.Doctor) {
		d.ProfilePhotoURL = photoURL
	})
}

func (r *doctorStore) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	doctors, err := readAll[domain.Doctor](ctx, r.store, KeyDoctors)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if filter.Department != nil && d.Department != *filter.Department {
			continue
		}
		if filter.Day != nil && !d.WorksOn(*filter.Day) {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
