package snapshot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carepoint/internal/domain"
)

func (s *Store) bootstrap(ctx context.Context, defaults Defaults) error {
	doctors, err := s.bootstrapDoctors(ctx, defaults.Doctors)
	if err != nil {
		return err
	}

	if err := convertLegacy(ctx, s, KeyQueries, LegacyKeyQueries, func(raw []legacyQuery) any {
		return convertQueries(raw, doctors)
	}); err != nil {
		return err
	}

	if err := convertLegacy(ctx, s, KeyAppointments, LegacyKeyAppointments, func(raw []legacyAppointment) any {
		return convertAppointments(raw, doctors)
	}); err != nil {
		return err
	}

	ok, err := s.exists(ctx, KeyUsers)
	if err != nil {
		return err
	}
	if !ok {
		now := s.now()
		users := make([]userRecord, 0, len(defaults.Users))
		for i, dto := range defaults.Users {
			users = append(users, userRecord{
				ID:           int64(i + 1),
				Name:         dto.Name,
				Email:        dto.Email,
				Phone:        dto.Phone,
				PasswordHash: dto.PasswordHash,
				Role:         dto.Role,
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		if err := s.put(ctx, s.db, KeyUsers, users); err != nil {
			return err
		}
		s.logger.Info("seeded default users", zap.Int("count", len(users)))
	}

	return nil
}

func (s *Store) bootstrapDoctors(ctx context.Context, defaults []domain.CreateDoctorDTO) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	ok, err := s.get(ctx, s.db, KeyDoctors, &doctors)
	if err != nil {
		return nil, err
	}
	if ok {
		return doctors, nil
	}

	var legacy []legacyDoctor
	ok, err = s.get(ctx, s.db, LegacyKeyDoctors, &legacy)
	if err != nil {
		return nil, err
	}
	if ok {
		doctors = convertDoctors(legacy, s.now())
		s.logger.Info("converted legacy doctors", zap.String("key", LegacyKeyDoctors), zap.Int("count", len(doctors)))
	} else {
		now := s.now()
		doctors = make([]domain.Doctor, 0, len(defaults))
		for i, dto := range defaults {
			doctors = append(doctors, doctorFromDTO(int64(i+1), dto, now))
		}
		s.logger.Info("seeded default doctors", zap.Int("count", len(doctors)))
	}

	if err := s.put(ctx, s.db, KeyDoctors, doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// convertLegacy copies legacyKey into key through convert when key is
// missing. An absent legacy key leaves the collection empty.
func convertLegacy[T any](ctx context.Context, s *Store, key, legacyKey string, convert func([]T) any) error {
	ok, err := s.exists(ctx, key)
	if err != nil || ok {
		return err
	}

	var raw []T
	ok, err = s.get(ctx, s.db, legacyKey, &raw)
	if err != nil {
		return fmt.Errorf("legacy %s: %w", legacyKey, err)
	}
	if !ok {
		return nil
	}

	if err := s.put(ctx, s.db, key, convert(raw)); err != nil {
		return err
	}
	s.logger.Info("converted legacy collection", zap.String("from", legacyKey), zap.String("to", key), zap.Int("count", len(raw)))
	return nil
}
