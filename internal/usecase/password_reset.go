package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/stories-api/internal/config"
	"github.com/vasapolrittideah/stories-api/internal/repository"
	"github.com/vasapolrittideah/stories-api/shared/ratelimit"
	"github.com/vasapolrittideah/stories-api/shared/security"
	"github.com/vasapolrittideah/stories-api/shared/validation"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// EmailSender delivers plain text emails.
type EmailSender interface {
	SendSimple(to []string, subject, body string) error
}

// PasswordResetUsecase defines the OTP based password reset flow.
type PasswordResetUsecase interface {
	// RequestPasswordReset issues a fresh code for email, replacing any outstanding one,
	// and mails it to the account owner.
	RequestPasswordReset(ctx context.Context, email string) error

	// VerifyOTP checks code against the outstanding code for email. A wrong or
	// expired code is deleted, so every code gets exactly one attempt.
	VerifyOTP(ctx context.Context, email, code string) error

	// ResetPassword replaces the account password and discards the outstanding code.
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	otpRepo  repository.OTPRepository
	mailer   EmailSender
	limiter  ratelimit.Limiter
	cfg      *config.OTPConfig
	logger   *zerolog.Logger

	now          func() time.Time
	generateCode func() (string, error)
}

// PasswordResetOption customises a PasswordResetUsecase.
type PasswordResetOption func(*passwordResetUsecase)

// WithClock overrides the time source.
func WithClock(now func() time.Time) PasswordResetOption {
	return func(u *passwordResetUsecase) { u.now = now }
}

// WithCodeGenerator overrides how one-time codes are produced.
func WithCodeGenerator(fn func() (string, error)) PasswordResetOption {
	return func(u *passwordResetUsecase) { u.generateCode = fn }
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	mailer EmailSender,
	limiter ratelimit.Limiter,
	cfg *config.OTPConfig,
	logger *zerolog.Logger,
	opts ...PasswordResetOption,
) PasswordResetUsecase {
	u := &passwordResetUsecase{
		userRepo:     userRepo,
		otpRepo:      otpRepo,
		mailer:       mailer,
		limiter:      limiter,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		generateCode: GenerateOTP,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	allowed, err := u.limiter.Allow(ctx, email)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTooManyRequests
	}

	if _, err := u.userRepo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := u.generateCode()
	if err != nil {
		return err
	}

	if err := u.otpRepo.UpsertOTP(ctx, email, code, u.now().Add(u.cfg.ExpiresIn)); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	body := fmt.Sprintf(
		"Your OTP for password reset is %s. It is valid for %s.",
		code, humanizeDuration(u.cfg.ExpiresIn),
	)

	// Delivery failure does not fail the request.
	if err := u.mailer.SendSimple([]string{email}, "Password Reset OTP", body); err != nil {
		u.logger.Warn().Err(err).Str("email", email).Msg("failed to send password reset otp")
	}

	return nil
}

func (u *passwordResetUsecase) VerifyOTP(ctx context.Context, email, code string) error {
	otp, err := u.otpRepo.GetOTPByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOrExpiredOTP
		}
		return fmt.Errorf("failed to get otp: %w", err)
	}

	now := u.now()
	if !otpMatches(otp.Code, code) || otp.Expired(now) {
		if err := u.otpRepo.DeleteOTPByEmail(ctx, email); err != nil {
			return fmt.Errorf("failed to delete otp: %w", err)
		}
		return ErrInvalidOrExpiredOTP
	}

	if err := u.otpRepo.MarkOTPVerified(ctx, email, now); err != nil {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, email, newPassword string) error {
	if !validation.IsStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if u.cfg.RequireVerified {
		if err := u.requireVerifiedOTP(ctx, email); err != nil {
			return err
		}
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := u.otpRepo.DeleteOTPByEmail(ctx, email); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}

	return nil
}

func (u *passwordResetUsecase) requireVerifiedOTP(ctx context.Context, email string) error {
	otp, err := u.otpRepo.GetOTPByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOrExpiredOTP
		}
		return fmt.Errorf("failed to get otp: %w", err)
	}

	if otp.VerifiedAt == nil || otp.Expired(u.now()) {
		return ErrInvalidOrExpiredOTP
	}

	return nil
}

func otpMatches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// GenerateOTP returns a uniformly random six digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

func humanizeDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}
