package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/stories-api/internal/config"
	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/shared/ratelimit"
)

type resetFixture struct {
	users  *fakeUserRepo
	otps   *fakeOTPRepo
	mailer *fakeMailer
	now    time.Time
	codes  []string
	uc     PasswordResetUsecase
}

func newResetFixture(t *testing.T, cfg config.OTPConfig, limiter ratelimit.Limiter) *resetFixture {
	t.Helper()

	f := &resetFixture{
		users:  newFakeUserRepo(),
		otps:   newFakeOTPRepo(),
		mailer: &fakeMailer{},
		now:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		codes:  []string{"111111", "222222", "333333"},
	}

	next := 0
	gen := func() (string, error) {
		code := f.codes[next%len(f.codes)]
		next++
		return code, nil
	}

	f.uc = NewPasswordResetUsecase(
		f.users, f.otps, f.mailer, limiter, &cfg, &nopLogger,
		WithClock(func() time.Time { return f.now }),
		WithCodeGenerator(gen),
	)

	return f
}

func defaultOTPConfig() config.OTPConfig {
	return config.OTPConfig{ExpiresIn: 5 * time.Minute}
}

func TestRequestPasswordResetStoresAndMailsCode(t *testing.T) {
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)

	require.NoError(t, f.uc.RequestPasswordReset(context.Background(), "a@x.com"))

	otp, err := f.otps.GetOTPByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "111111", otp.Code)
	assert.Equal(t, f.now.Add(5*time.Minute), otp.ExpiresAt)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, []string{"a@x.com"}, f.mailer.sent[0].to)
	assert.Equal(t, "Password Reset OTP", f.mailer.sent[0].subject)
	assert.Contains(t, f.mailer.sent[0].body, "111111")
	assert.Contains(t, f.mailer.sent[0].body, "5 minutes")
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})

	err := f.uc.RequestPasswordReset(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, f.otps.has("nobody@x.com"))
	assert.Empty(t, f.mailer.sent)
}

func TestRequestPasswordResetMailFailureIsSwallowed(t *testing.T) {
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
	f.mailer.err = errors.New("smtp down")
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)

	require.NoError(t, f.uc.RequestPasswordReset(context.Background(), "a@x.com"))
	assert.True(t, f.otps.has("a@x.com"))
}

func TestRequestPasswordResetRateLimited(t *testing.T) {
	f := newResetFixture(t, defaultOTPConfig(), fakeLimiter{allow: false})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)

	err := f.uc.RequestPasswordReset(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrTooManyRequests)
	assert.False(t, f.otps.has("a@x.com"))
}

func TestSecondRequestOverwritesFirstCode(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "a@x.com"))
	require.NoError(t, f.uc.RequestPasswordReset(ctx, "a@x.com"))

	otp, err := f.otps.GetOTPByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", otp.Code)

	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, "a@x.com", "111111"), ErrInvalidOrExpiredOTP)
	assert.False(t, f.otps.has("a@x.com"))
}

func TestVerifyOTP(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		advance    time.Duration
		wantErr    error
		wantRecord bool
	}{
		{name: "correct before expiry", code: "111111", advance: 4 * time.Minute, wantRecord: true},
		{name: "correct at expiry", code: "111111", advance: 5 * time.Minute, wantRecord: true},
		{name: "correct after expiry", code: "111111", advance: 5*time.Minute + time.Second, wantErr: ErrInvalidOrExpiredOTP},
		{name: "wrong code", code: "999999", wantErr: ErrInvalidOrExpiredOTP},
		{name: "code prefix", code: "11111", wantErr: ErrInvalidOrExpiredOTP},
		{name: "code with extra digit", code: "1111111", wantErr: ErrInvalidOrExpiredOTP},
		{name: "empty code", code: "", wantErr: ErrInvalidOrExpiredOTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
			seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)
			require.NoError(t, f.uc.RequestPasswordReset(ctx, "a@x.com"))

			f.now = f.now.Add(tt.advance)
			err := f.uc.VerifyOTP(ctx, "a@x.com", tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRecord, f.otps.has("a@x.com"))
		})
	}
}

func TestVerifyOTPIsSingleAttempt(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)
	require.NoError(t, f.uc.RequestPasswordReset(ctx, "a@x.com"))

	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, "a@x.com", "000000"), ErrInvalidOrExpiredOTP)
	assert.ErrorIs(t, f.uc.VerifyOTP(ctx, "a@x.com", "111111"), ErrInvalidOrExpiredOTP)
}

func TestVerifyOTPWithoutRequest(t *testing.T) {
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})

	assert.ErrorIs(t, f.uc.VerifyOTP(context.Background(), "a@x.com", "111111"), ErrInvalidOrExpiredOTP)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)
	login := NewAuthUsecase(f.users, fakeTokens{})

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "a@x.com"))
	require.NoError(t, f.uc.VerifyOTP(ctx, "a@x.com", "111111"))
	require.NoError(t, f.uc.ResetPassword(ctx, "a@x.com", "N3wPassw0rd$"))

	assert.False(t, f.otps.has("a@x.com"))

	_, err := login.Login(ctx, LoginParams{Email: "a@x.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = login.Login(ctx, LoginParams{Email: "a@x.com", Password: "N3wPassw0rd$"})
	assert.NoError(t, err)
}

func TestResetPasswordRejections(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t, defaultOTPConfig(), ratelimit.Noop{})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)

	for _, weak := range []string{"short1!", "nodigits!!", "NoSymbol12", "Passw0rd#"} {
		assert.ErrorIs(t, f.uc.ResetPassword(ctx, "a@x.com", weak), ErrWeakPassword, weak)
	}

	assert.ErrorIs(t, f.uc.ResetPassword(ctx, "nobody@x.com", "Passw0rd!"), ErrUserNotFound)
}

func TestResetPasswordRequiresVerifiedCodeWhenConfigured(t *testing.T) {
	ctx := context.Background()
	cfg := defaultOTPConfig()
	cfg.RequireVerified = true
	f := newResetFixture(t, cfg, ratelimit.Noop{})
	seedUser(t, f.users, "a@x.com", "Passw0rd!", model.RoleUser)

	assert.ErrorIs(t, f.uc.ResetPassword(ctx, "a@x.com", "N3wPassw0rd$"), ErrInvalidOrExpiredOTP)

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "a@x.com"))
	assert.ErrorIs(t, f.uc.ResetPassword(ctx, "a@x.com", "N3wPassw0rd$"), ErrInvalidOrExpiredOTP)

	require.NoError(t, f.uc.VerifyOTP(ctx, "a@x.com", "111111"))
	assert.NoError(t, f.uc.ResetPassword(ctx, "a@x.com", "N3wPassw0rd$"))
	assert.False(t, f.otps.has("a@x.com"))
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
