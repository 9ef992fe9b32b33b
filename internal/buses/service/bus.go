package service

import (
	"context"
	"sort"
	"strings"

	"busport/internal/buses/repository"
	statsrepository "busport/internal/stats/repository"
	"busport/pkg/config"
	apperrors "busport/pkg/errors"
	"busport/pkg/model"
	"busport/pkg/sanitizer"
)

type BusService interface {
	Search(ctx context.Context, from string, to string) ([]model.SearchMatch, error)
	UniqueRoutes(ctx context.Context) ([]model.RouteEndpoints, error)
	GetAll(ctx context.Context) ([]*model.Bus, error)
}

type busService struct {
	repo     repository.BusRepository
	counters statsrepository.CounterRepository
	cfg      *config.Config
}

func NewBusService(
	repo repository.BusRepository,
	counters statsrepository.CounterRepository,
	cfg *config.Config,
) BusService {
	return &busService{
		repo:     repo,
		counters: counters,
		cfg:      cfg,
	}
}

// Search scans every published bus for a directional route match: both
// query terms must appear as substrings of stop names, and the from-stop
// must precede the to-stop in stored order. Only the "going" direction
// is matched; the return direction is resolved client-side from the
// matched stoppages' times.
func (s *busService) Search(ctx context.Context, from string, to string) ([]model.SearchMatch, error) {
	from = sanitizer.NormalizeStopName(from)
	to = sanitizer.NormalizeStopName(to)

	if from == "" || to == "" {
		return nil, apperrors.InvalidInput("Both 'from' and 'to' query parameters are required")
	}

	buses, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load buses for search",
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to search buses", err)
	}

	matches := make([]model.SearchMatch, 0)
	for _, bus := range buses {
		if match, ok := matchRoute(bus, from, to); ok {
			matches = append(matches, match)
		}
	}

	// Best-effort tally; a failed increment never fails the search.
	if err := s.counters.Increment(ctx, statsrepository.CounterSearches); err != nil {
		s.cfg.Log.Warn("Failed to increment search counter", "error", err)
	}

	s.cfg.Log.Debug("Bus search completed",
		"from", from,
		"to", to,
		"scanned", len(buses),
		"matches", len(matches),
	)

	return matches, nil
}

func matchRoute(bus *model.Bus, from string, to string) (model.SearchMatch, bool) {
	if len(bus.Stoppages) < 2 {
		return model.SearchMatch{}, false
	}

	fromIndex, toIndex := -1, -1
	for i, stop := range bus.Stoppages {
		name := sanitizer.NormalizeStopName(stop.Name)
		if fromIndex == -1 && strings.Contains(name, from) {
			fromIndex = i
		}
		if toIndex == -1 && strings.Contains(name, to) {
			toIndex = i
		}
	}

	if fromIndex == -1 || toIndex == -1 || fromIndex >= toIndex {
		return model.SearchMatch{}, false
	}

	return model.SearchMatch{
		BusID:     bus.ID,
		BusName:   bus.BusName,
		BusNumber: bus.BusNumber,
		BusType:   bus.BusType,
		Capacity:  bus.Capacity,
		Fare:      bus.Fare,
		Amenities: bus.Amenities,
		FromStop:  bus.Stoppages[fromIndex],
		ToStop:    bus.Stoppages[toIndex],
	}, true
}

// UniqueRoutes derives the de-duplicated (origin, destination) pairs
// across all published buses, keyed on each bus's first and last stop in
// going order. Intermediate stops are not part of the key.
func (s *busService) UniqueRoutes(ctx context.Context) ([]model.RouteEndpoints, error) {
	buses, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load buses for route listing", "error", err)
		return nil, apperrors.Internal("Failed to list routes", err)
	}

	seen := make(map[string]bool)
	routes := make([]model.RouteEndpoints, 0)

	for _, bus := range buses {
		if len(bus.Stoppages) == 0 {
			continue
		}

		sorted := bus.SortedStoppages()
		from := sanitizer.NormalizeStopName(sorted[0].Name)
		to := sanitizer.NormalizeStopName(sorted[len(sorted)-1].Name)

		key := from + "|" + to
		if seen[key] {
			continue
		}
		seen[key] = true
		routes = append(routes, model.RouteEndpoints{From: from, To: to})
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].From != routes[j].From {
			return routes[i].From < routes[j].From
		}
		return routes[i].To < routes[j].To
	})

	return routes, nil
}

func (s *busService) GetAll(ctx context.Context) ([]*model.Bus, error) {
	buses, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list buses", "error", err)
		return nil, apperrors.Internal("Failed to list buses", err)
	}
	return buses, nil
}
