package services

import (
	"context"
	"errors"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/workers"
)

type ProfileService struct {
	repo   domain.ProfileRepository
	worker *workers.StatsWorker
	now    Clock
}

func NewProfileService(repo domain.ProfileRepository, worker *workers.StatsWorker, clock Clock) *ProfileService {
	if clock == nil {
		clock = SystemClock
	}
	return &ProfileService{
		repo:   repo,
		worker: worker,
		now:    clock,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Save creates or replaces the user's profile and recomputes the TDEE. A
// changed target changes every compliance figure, so stats are refreshed.
func (s *ProfileService) Save(ctx context.Context, userID string, params domain.ProfileParams) (*domain.Profile, error) {
	now := s.now()

	profile, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		profile, err = domain.NewProfile(userID, params, now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := profile.Update(params, now); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.worker.Enqueue(userID)
	return profile, nil
}

// TargetKcal returns the user's daily goal, or zero when no profile exists.
func (s *ProfileService) TargetKcal(ctx context.Context, userID string) (float64, error) {
	return targetFor(ctx, s.repo, userID)
}

func targetFor(ctx context.Context, repo domain.ProfileRepository, userID string) (float64, error) {
	profile, err := repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.TargetKcal(), nil
}

