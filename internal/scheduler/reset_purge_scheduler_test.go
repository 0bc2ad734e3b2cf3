package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/app/service"
	"github.com/ikkim/tubemark-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired() (int64, error) {
	p.calls.Add(1)
	return 0, p.err
}

func TestNewResetPurgeScheduler_DefaultSchedule(t *testing.T) {
	s := NewResetPurgeScheduler(&countingPurger{}, "")
	assert.Equal(t, DefaultPurgeSchedule, s.schedule)
}

func TestResetPurgeScheduler_Start(t *testing.T) {
	t.Run("Invalid schedule", func(t *testing.T) {
		s := NewResetPurgeScheduler(&countingPurger{}, "not a schedule")
		assert.Error(t, s.Start())
	})

	t.Run("Runs on schedule", func(t *testing.T) {
		purger := &countingPurger{}
		s := NewResetPurgeScheduler(purger, "@every 1s")
		require.NoError(t, s.Start())
		defer s.Stop()

		assert.Eventually(t, func() bool {
			return purger.calls.Load() > 0
		}, 3*time.Second, 50*time.Millisecond)
	})
}

func TestResetPurgeScheduler_RunOnce_SurvivesErrors(t *testing.T) {
	purger := &countingPurger{err: errors.New("database unavailable")}
	s := NewResetPurgeScheduler(purger, "")

	s.RunOnce()
	s.RunOnce()
	assert.Equal(t, int32(2), purger.calls.Load())
}

func TestResetPurgeScheduler_RunOnce_DeletesExpired(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Name: "Alice"}
	require.NoError(t, testDB.Create(user).Error)

	now := time.Now()
	require.NoError(t, testDB.Create(&model.PasswordReset{UserID: user.ID, TokenHash: "expired", ExpiresAt: now.Add(-time.Minute)}).Error)
	require.NoError(t, testDB.Create(&model.PasswordReset{UserID: user.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}).Error)

	userRepo := repository.NewUserRepository(testDB)
	resetService := service.NewPasswordResetService(
		repository.NewPasswordResetRepository(testDB),
		userRepo,
		nil,
		service.PasswordResetConfig{TokenTTL: time.Hour},
	)

	NewResetPurgeScheduler(resetService, "").RunOnce()

	var remaining []model.PasswordReset
	require.NoError(t, testDB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].TokenHash)
}
