package snapshot

import (
	"context"

	"carepoint/internal/domain"
)

type queryStore struct {
	store *Store
}

func (r *queryStore) Create(ctx context.Context, q domain.Query) (int64, error) {
	err := mutate(ctx, r.store, KeyQueries, func(queries []domain.Query) ([]domain.Query, error) {
		q.ID = nextID(queries, func(q domain.Query) int64 { return q.ID })
		if q.CreatedAt.IsZero() {
			q.CreatedAt = r.store.now()
		}
		q.UpdatedAt = q.CreatedAt
		// Newest first, as the dashboard reads it.
		return append([]domain.Query{q}, queries...), nil
	})
	return q.ID, err
}

func (r *queryStore) GetByID(ctx context.Context, id int64) (*domain.Query, error) {
	queries, err := readAll[domain.Query](ctx, r.store, KeyQueries)
	if err != nil {
		return nil, err
	}
	for _, q := range queries {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *queryStore) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	return mutate(ctx, r.store, KeyQueries, func(queries []domain.Query) ([]domain.Query, error) {
		for i := range queries {
			if queries[i].ID != id {
				continue
			}
			if queries[i].Status != from {
				return nil, domain.ErrInvalidTransition
			}
			queries[i].Status = to
			queries[i].UpdatedAt = r.store.now()
			return queries, nil
		}
		return nil, domain.ErrNotFound
	})
}

func (r *queryStore) List(ctx context.Context, filter domain.QueryFilter) ([]domain.Query, error) {
	queries, err := readAll[domain.Query](ctx, r.store, KeyQueries)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Query, 0, len(queries))
	for _, q := range queries {
		if filter.PatientID != nil && q.PatientID != *filter.PatientID {
			continue
		}
		if filter.Category != nil && q.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && q.Status != *filter.Status {
			continue
		}
		out = append(out, q)
	}
	return page(out, filter.Limit, filter.Offset), nil
}
