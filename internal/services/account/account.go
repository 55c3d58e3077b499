// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package account orchestrates the credential lifecycle: registration with
// deferred activation, email-code confirmation, password reset via
// time-limited one-time codes, and authenticated password change.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"notemark/internal/models"
	"notemark/internal/repository"
	"notemark/internal/services/email"
	"notemark/internal/services/otp"
)

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service is the account lifecycle manager.
type Service struct {
	repo              *repository.Repository
	notifier          email.Notifier
	passwordValidator *PasswordValidator
	logger            *slog.Logger
}

// NewService creates a new account service.
func NewService(repo *repository.Repository, notifier email.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:              repo,
		notifier:          notifier,
		passwordValidator: DefaultPasswordValidator(),
		logger:            logger,
	}
}

// PasswordValidator returns the registration password policy.
func (s *Service) PasswordValidator() *PasswordValidator {
	return s.passwordValidator
}

// RegisterParams holds the registration request.
type RegisterParams struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Username             string `json:"username"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (p *RegisterParams) validate() ValidationErrors {
	var errs ValidationErrors

	if p.FirstName == "" {
		errs = append(errs, ValidationError{Field: "first_name", Reason: "is required"})
	}
	if p.LastName == "" {
		errs = append(errs, ValidationError{Field: "last_name", Reason: "is required"})
	}
	if p.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Reason: "is required"})
	} else if _, err := mail.ParseAddress(p.Email); err != nil {
		errs = append(errs, ValidationError{Field: "email", Reason: "is not a valid email address"})
	}
	if p.Username == "" {
		errs = append(errs, ValidationError{Field: "username", Reason: "is required"})
	} else if len(p.Username) > models.MaxUsernameLength {
		errs = append(errs, ValidationError{Field: "username", Reason: fmt.Sprintf("must be at most %d characters", models.MaxUsernameLength)})
	}
	if p.Password != p.PasswordConfirmation {
		errs = append(errs, ValidationError{Field: "password_confirmation", Reason: "passwords do not match"})
	}

	return errs
}

// Register creates an inactive user, issues a registration code and mails it.
// All input problems are reported together as ValidationErrors without
// mutating state. A failed email send is surfaced as ErrMailDelivery but the
// created user and code stay committed, so a resend remains possible.
func (s *Service) Register(ctx context.Context, params RegisterParams) (int64, error) {
	errs := params.validate()

	if params.Email != "" {
		taken, err := s.repo.EmailExists(ctx, params.Email)
		if err != nil {
			return 0, fmt.Errorf("checking email: %w", err)
		}
		if taken {
			errs = append(errs, ValidationError{Field: "email", Reason: "is already registered"})
		}
	}
	if params.Username != "" {
		taken, err := s.repo.UsernameExists(ctx, params.Username)
		if err != nil {
			return 0, fmt.Errorf("checking username: %w", err)
		}
		if taken {
			errs = append(errs, ValidationError{Field: "username", Reason: "is already registered"})
		}
	}

	for _, v := range s.passwordValidator.Validate(params.Password,
		params.Username, params.Email, params.FirstName, params.LastName) {
		errs = append(errs, ValidationError{Field: "password", Reason: v.Message})
	}

	if len(errs) > 0 {
		return 0, errs
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     params.Username,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		IsActive:     false,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}

	code, err := s.repo.CreateRegistrationCode(ctx, user.ID, otp.Generate)
	if err != nil {
		return 0, fmt.Errorf("creating registration code: %w", err)
	}

	s.logger.Info("registration_code_created", "user_id", user.ID, "username", user.Username)

	if err := s.notifier.SendRegistrationCode(ctx, user.Email, code.Code); err != nil {
		s.logger.Error("registration_email_failed", "user_id", user.ID, "error", err)
		return user.ID, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	return user.ID, nil
}

// ConfirmRegistrationParams holds the confirmation request.
type ConfirmRegistrationParams struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ConfirmRegistration activates the user identified by email when the code
// matches, deleting the code in the same transaction. A missing user and a
// wrong code are indistinguishable. Not idempotent: replaying after success
// fails because the code no longer exists.
func (s *Service) ConfirmRegistration(ctx context.Context, params ConfirmRegistrationParams) error {
	var errs ValidationErrors
	if params.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Reason: "is required"})
	}
	if params.Code == "" {
		errs = append(errs, ValidationError{Field: "code", Reason: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	user, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidConfirmationCode
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	code, err := s.repo.GetRegistrationCodeByValue(ctx, user.ID, params.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidConfirmationCode
		}
		return fmt.Errorf("looking up registration code: %w", err)
	}

	if err := s.repo.ActivateUserAndDeleteRegistrationCode(ctx, user.ID, code.ID); err != nil {
		return fmt.Errorf("activating user: %w", err)
	}

	s.logger.Info("user_activated", "user_id", user.ID, "username", user.Username)
	return nil
}

// Login verifies the credential and returns the user. An inactive account
// fails with ErrAccountInactive before any credential check so the caller
// can route the user to confirmation; everything else collapses into the
// generic ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Warn("login_failed", "username", username, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !user.IsActive {
		s.logger.Warn("login_inactive", "user_id", user.ID, "username", username)
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login_failed", "username", username, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("login_success", "user_id", user.ID, "username", username)
	return user, nil
}

// RequestPasswordReset issues a reset code for the account behind email and
// mails it. An expired leftover code is deleted first; an unexpired one
// coalesces the request into ErrResetPending and sends nothing. Concurrent
// requests racing on the one-per-user index also land on ErrResetPending.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("reset_request_unknown_email", "email", emailAddr)
			return ErrUnknownEmail
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	existing, err := s.repo.GetResetPasswordCode(ctx, user.ID)
	switch {
	case err == nil:
		if !otp.IsExpired(existing.CreatedAt, time.Now().UTC(), otp.ResetCodeTTL) {
			return ErrResetPending
		}
		if err := s.repo.DeleteResetPasswordCode(ctx, existing.ID); err != nil {
			return fmt.Errorf("deleting expired reset code: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		// No outstanding code.
	default:
		return fmt.Errorf("looking up reset code: %w", err)
	}

	code, err := s.repo.CreateResetPasswordCode(ctx, user.ID, otp.Generate)
	if err != nil {
		if errors.Is(err, repository.ErrCodeExists) {
			return ErrResetPending
		}
		return fmt.Errorf("creating reset code: %w", err)
	}

	s.logger.Info("reset_code_created", "user_id", user.ID)

	if err := s.notifier.SendPasswordResetCode(ctx, user.Email, code.Code); err != nil {
		s.logger.Error("reset_email_failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	return nil
}

// ConfirmPasswordResetParams holds the reset confirmation request.
type ConfirmPasswordResetParams struct {
	Email          string `json:"email"`
	Code           string `json:"code"`
	NewPassword    string `json:"new_password"`
	RepeatPassword string `json:"repeat_password"`
}

// ConfirmPasswordReset overwrites the credential and consumes the reset code
// in one transaction. A password mismatch fails before any lookup; a missing
// user or code collapses into the generic ErrInvalidResetCode.
func (s *Service) ConfirmPasswordReset(ctx context.Context, params ConfirmPasswordResetParams) error {
	if params.NewPassword != params.RepeatPassword {
		return ValidationErrors{{Field: "repeat_password", Reason: "passwords do not match"}}
	}
	var errs ValidationErrors
	if params.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Reason: "is required"})
	}
	if params.Code == "" {
		errs = append(errs, ValidationError{Field: "code", Reason: "is required"})
	}
	if params.NewPassword == "" {
		errs = append(errs, ValidationError{Field: "new_password", Reason: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	user, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	code, err := s.repo.GetResetPasswordCodeByValue(ctx, user.ID, params.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("looking up reset code: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.UpdatePasswordAndDeleteResetCode(ctx, user.ID, string(passwordHash), code.ID); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info("password_reset", "user_id", user.ID)
	return nil
}

// ChangePasswordParams holds the authenticated password change request.
type ChangePasswordParams struct {
	OldPassword    string `json:"old_password"`
	NewPassword    string `json:"new_password"`
	RepeatPassword string `json:"repeat_password"`
}

// ChangePassword overwrites the credential of an authenticated user after
// verifying the old password. The caller is expected to re-establish the
// session afterwards so the user stays logged in.
func (s *Service) ChangePassword(ctx context.Context, userID int64, params ChangePasswordParams) error {
	if params.NewPassword != params.RepeatPassword {
		return ValidationErrors{{Field: "repeat_password", Reason: "passwords do not match"}}
	}
	if params.NewPassword == "" {
		return ValidationErrors{{Field: "new_password", Reason: "is required"}}
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.OldPassword)); err != nil {
		s.logger.Warn("change_password_failed", "user_id", userID, "reason", "invalid_old_password")
		return ErrInvalidCredentials
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, userID, string(passwordHash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info("password_changed", "user_id", userID)
	return nil
}
