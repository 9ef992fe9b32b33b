package service

import (
	"context"

	busrepository "busport/internal/buses/repository"
	"busport/internal/stats/repository"
	userrepository "busport/internal/users/repository"
	"busport/pkg/config"
	apperrors "busport/pkg/errors"
)

// PlatformStats is the public landing-page counter set.
type PlatformStats struct {
	Users    int64 `json:"users"`
	Buses    int64 `json:"buses"`
	Searches int64 `json:"searches"`
}

type StatsService interface {
	Snapshot(ctx context.Context) (*PlatformStats, error)
}

type statsService struct {
	users    userrepository.UserRepository
	buses    busrepository.BusRepository
	counters repository.CounterRepository
	cfg      *config.Config
}

func NewStatsService(
	users userrepository.UserRepository,
	buses busrepository.BusRepository,
	counters repository.CounterRepository,
	cfg *config.Config,
) StatsService {
	return &statsService{
		users:    users,
		buses:    buses,
		counters: counters,
		cfg:      cfg,
	}
}

// Snapshot reads all three counts live; no caching, the collections are
// small and the page tolerates a slow read better than a stale one.
func (s *statsService) Snapshot(ctx context.Context) (*PlatformStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count users", "error", err)
		return nil, apperrors.Internal("Failed to load platform stats", err)
	}

	buses, err := s.buses.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count buses", "error", err)
		return nil, apperrors.Internal("Failed to load platform stats", err)
	}

	searches, err := s.counters.Value(ctx, repository.CounterSearches)
	if err != nil {
		s.cfg.Log.Error("Failed to read search counter", "error", err)
		return nil, apperrors.Internal("Failed to load platform stats", err)
	}

	return &PlatformStats{
		Users:    users,
		Buses:    buses,
		Searches: searches,
	}, nil
}
