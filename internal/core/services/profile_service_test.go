package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/workers"
)

func profileParams() domain.ProfileParams {
	return domain.ProfileParams{
		Name:     "Ana",
		Sex:      domain.SexFemale,
		Age:      25,
		WeightKg: 60,
		HeightCm: 165,
		Activity: domain.ActivitySedentary,
	}
}

func TestProfileService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Creates a profile with computed TDEE AND enqueues refresh", func(t *testing.T) {
		repo := new(MockProfileRepo)
		worker := workers.NewStatsWorker(nil, 10, nil)
		svc := services.NewProfileService(repo, worker, fixedClock)

		repo.On("GetByUserID", ctx, "u1").Return(nil, domain.ErrProfileNotFound)
		repo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.Profile) bool {
			return p.UserID == "u1" && p.TDEE == 1614
		})).Return(nil)

		profile, err := svc.Save(ctx, "u1", profileParams())

		require.NoError(t, err)
		assert.Equal(t, fixedClock(), profile.CreatedAt)
		assert.Equal(t, 1, worker.Pending())
		repo.AssertExpectations(t)
	})

	t.Run("Success: Updates an existing profile in place", func(t *testing.T) {
		repo := new(MockProfileRepo)
		svc := services.NewProfileService(repo, nil, fixedClock)

		existing, err := domain.NewProfile("u1", profileParams(), fixedClock().AddDate(0, -1, 0))
		require.NoError(t, err)
		repo.On("GetByUserID", ctx, "u1").Return(existing, nil)
		repo.On("Upsert", ctx, existing).Return(nil)

		params := profileParams()
		params.WeightKg = 70
		profile, err := svc.Save(ctx, "u1", params)

		require.NoError(t, err)
		assert.Equal(t, 70.0, profile.WeightKg)
		assert.Equal(t, fixedClock().AddDate(0, -1, 0), profile.CreatedAt)
		assert.Equal(t, fixedClock(), profile.UpdatedAt)
	})

	t.Run("Fail: Invalid params are not persisted", func(t *testing.T) {
		repo := new(MockProfileRepo)
		svc := services.NewProfileService(repo, nil, fixedClock)
		repo.On("GetByUserID", ctx, "u1").Return(nil, domain.ErrProfileNotFound)

		params := profileParams()
		params.Age = 200
		_, err := svc.Save(ctx, "u1", params)

		assert.ErrorIs(t, err, domain.ErrInvalidAge)
		repo.AssertNotCalled(t, "Upsert")
	})
}

func TestProfileService_TargetKcal(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProfileRepo)
	svc := services.NewProfileService(repo, nil, fixedClock)
	repo.On("GetByUserID", ctx, "none").Return(nil, domain.ErrProfileNotFound)
	repo.On("GetByUserID", ctx, "broken").Return(nil, errors.New("timeout"))
	repo.On("GetByUserID", ctx, "u1").Return(&domain.Profile{TDEE: 2400}, nil)

	target, err := svc.TargetKcal(ctx, "none")
	require.NoError(t, err)
	assert.Equal(t, 0.0, target)

	_, err = svc.TargetKcal(ctx, "broken")
	assert.Error(t, err)

	target, err = svc.TargetKcal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2400.0, target)
}
