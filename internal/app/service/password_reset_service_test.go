package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/db"
	"github.com/ikkim/tubemark-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSiteURL = "http://localhost:3000"

type sentMail struct {
	to   string
	link string
	ttl  time.Duration
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendPasswordReset(toEmail, resetLink string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: toEmail, link: resetLink, ttl: ttl})
	return nil
}

func (f *fakeMailer) lastToken(t *testing.T) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	link := f.sent[len(f.sent)-1].link
	require.True(t, strings.HasPrefix(link, testSiteURL+"/reset-password/"))
	return strings.TrimPrefix(link, testSiteURL+"/reset-password/")
}

type resetFixture struct {
	service *passwordResetService
	mailer  *fakeMailer
	db      *gorm.DB
	user    *model.User
}

func setupPasswordResetTest(t *testing.T, hideAccounts bool) *resetFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	hash, err := util.HashPassword("old-password")
	require.NoError(t, err)
	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Name:         "Alice",
	}
	require.NoError(t, userRepo.Create(user))

	mail := &fakeMailer{}
	svc := NewPasswordResetService(
		repository.NewPasswordResetRepository(testDB),
		userRepo,
		mail,
		PasswordResetConfig{
			SiteURL:              testSiteURL + "/",
			TokenTTL:             2 * time.Hour,
			HideAccountExistence: hideAccounts,
		},
	).(*passwordResetService)

	return &resetFixture{service: svc, mailer: mail, db: testDB, user: user}
}

func (f *resetFixture) countResets(t *testing.T) int64 {
	var count int64
	require.NoError(t, f.db.Model(&model.PasswordReset{}).Count(&count).Error)
	return count
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	f := setupPasswordResetTest(t, false)

	require.NoError(t, f.service.RequestReset(" Alice@Example.com "))

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].to)
	assert.Equal(t, 2*time.Hour, f.mailer.sent[0].ttl)

	token := f.mailer.lastToken(t)
	assert.Len(t, token, 64)

	// Only the hash is stored
	var reset model.PasswordReset
	require.NoError(t, f.db.First(&reset).Error)
	assert.Equal(t, util.HashResetToken(token), reset.TokenHash)
	assert.NotEqual(t, token, reset.TokenHash)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), reset.ExpiresAt, 5*time.Second)
}

func TestPasswordResetService_RequestReset_Errors(t *testing.T) {
	t.Run("Missing email", func(t *testing.T) {
		f := setupPasswordResetTest(t, false)
		assert.ErrorIs(t, f.service.RequestReset("  "), ErrMissingFields)
	})

	t.Run("Unknown email", func(t *testing.T) {
		f := setupPasswordResetTest(t, false)
		assert.ErrorIs(t, f.service.RequestReset("nobody@example.com"), ErrEmailNotFound)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("Unknown email hidden", func(t *testing.T) {
		f := setupPasswordResetTest(t, true)
		assert.NoError(t, f.service.RequestReset("nobody@example.com"))
		assert.Empty(t, f.mailer.sent)
		assert.Zero(t, f.countResets(t))
	})

	t.Run("Mail failure rolls back the token", func(t *testing.T) {
		f := setupPasswordResetTest(t, false)
		f.mailer.err = errors.New("smtp down")

		err := f.service.RequestReset("alice@example.com")
		assert.ErrorIs(t, err, ErrResetEmailFailed)
		assert.Zero(t, f.countResets(t))
	})
}

func TestPasswordResetService_VerifyToken(t *testing.T) {
	f := setupPasswordResetTest(t, false)
	require.NoError(t, f.service.RequestReset("alice@example.com"))
	token := f.mailer.lastToken(t)

	email, err := f.service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	// Verifying does not consume
	_, err = f.service.VerifyToken(token)
	assert.NoError(t, err)

	_, err = f.service.VerifyToken("")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = f.service.VerifyToken("deadbeef")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetService_VerifyToken_Expired(t *testing.T) {
	f := setupPasswordResetTest(t, false)
	require.NoError(t, f.service.RequestReset("alice@example.com"))
	token := f.mailer.lastToken(t)

	f.service.now = func() time.Time { return time.Now().Add(2*time.Hour + time.Second) }

	_, err := f.service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrResetTokenExpired)

	err = f.service.CompleteReset(token, "new-password")
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestPasswordResetService_CompleteReset(t *testing.T) {
	f := setupPasswordResetTest(t, false)
	require.NoError(t, f.service.RequestReset("alice@example.com"))
	token := f.mailer.lastToken(t)

	assert.ErrorIs(t, f.service.CompleteReset(token, ""), ErrPasswordRequired)
	assert.ErrorIs(t, f.service.CompleteReset(token, strings.Repeat("p", util.MaxPasswordBytes+1)), ErrPasswordTooLong)

	require.NoError(t, f.service.CompleteReset(token, "new-password"))

	var user model.User
	require.NoError(t, f.db.First(&user, f.user.ID).Error)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "new-password"))
	assert.False(t, util.VerifyPassword(user.PasswordHash, "old-password"))

	// Single use
	assert.ErrorIs(t, f.service.CompleteReset(token, "another-password"), ErrInvalidResetToken)
	_, err := f.service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetService_CompleteReset_Concurrent(t *testing.T) {
	f := setupPasswordResetTest(t, false)
	require.NoError(t, f.service.RequestReset("alice@example.com"))
	token := f.mailer.lastToken(t)

	const attempts = 3
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.service.CompleteReset(token, "new-password")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInvalidResetToken)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestPasswordResetService_PurgeExpired(t *testing.T) {
	f := setupPasswordResetTest(t, false)
	require.NoError(t, f.service.RequestReset("alice@example.com"))
	require.NoError(t, f.service.RequestReset("alice@example.com"))

	count, err := f.service.PurgeExpired()
	require.NoError(t, err)
	assert.Zero(t, count)

	f.service.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	count, err = f.service.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Zero(t, f.countResets(t))
}
