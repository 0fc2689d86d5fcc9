package app

import (
	"context"
	"strings"

	"lightbnb/internal/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// QueryService serves the read paths. It owns limit normalization so every
// caller pages the same way regardless of storage backend.
type QueryService struct {
	repo domain.Repository
}

func NewQueryService(r domain.Repository) *QueryService {
	return &QueryService{repo: r}
}

func (s *QueryService) GetUserWithEmail(ctx context.Context, email string) (domain.User, error) {
	return s.repo.GetUserWithEmail(ctx, strings.TrimSpace(email))
}

func (s *QueryService) GetUserWithID(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.GetUserWithID(ctx, id)
}

func (s *QueryService) GetAllReservations(ctx context.Context, guestID int64, limit int) ([]domain.GuestReservation, error) {
	out, err := s.repo.GetAllReservations(ctx, guestID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.GuestReservation{}
	}
	return out, nil
}

func (s *QueryService) GetAllProperties(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	f.Limit = normalizeLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}
	out, err := s.repo.GetAllProperties(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Property{}
	}
	return out, nil
}

func normalizeLimit(n int) int {
	switch {
	case n <= 0:
		return defaultLimit
	case n > maxLimit:
		return maxLimit
	}
	return n
}
