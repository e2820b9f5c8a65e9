package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/events"
	"github.com/Skotchmaster/shopit/internal/hash"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/mailer"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
	"github.com/Skotchmaster/shopit/internal/tokens"
)

const (
	MsgMissingCredentials = "Please enter email & password"
	MsgInvalidCredentials = "Invalid Email or Password"
	MsgUserNotFoundEmail  = "User not found with this email"
	MsgEmailNotSent       = "Email could not be sent"
	MsgResetInvalid       = "Password reset token is invalid or has been expired"
	MsgPasswordMismatch   = "Password does not match"
	MsgOldPasswordWrong   = "Old password is incorrect"

	MsgPasswordTooShort = "Your password must be longer than 6 characters"
	MsgPasswordTooLong  = "Your password cannot exceed 72 characters"

	resetSubject   = "ShopIT Password Recovery"
	minPasswordLen = 6
	// bcrypt rejects longer input.
	maxPasswordLen = 72
)

type AuthConfig struct {
	ResetTokenTTL time.Duration
	FrontendURL   string
}

type AuthService struct {
	users  repo.UserRepository
	hasher *hash.Hasher
	issuer *tokens.Issuer
	mail   mailer.Sender
	events events.Publisher
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(users repo.UserRepository, hasher *hash.Hasher, issuer *tokens.Issuer, mail mailer.Sender, pub events.Publisher, cfg AuthConfig) *AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 30 * time.Minute
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		mail:   mail,
		events: pub,
		cfg:    cfg,
		now:    time.Now,
	}
}

// AuthResult is a freshly issued session for User.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	token, exp, err := s.issuer.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u.PasswordHash = ""
	return &AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if msgs := registerProblems(in); len(msgs) > 0 {
		return nil, apperr.Validation(strings.Join(msgs, ", "))
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, apperr.Internal(err)
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: digest,
		Avatar:       models.DefaultAvatar,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
		}
		return nil, err
	}

	events.Emit(ctx, s.events, events.TopicUsers, "user.registered", user.ID, map[string]any{"email": user.Email})
	l.Info("register_successful", "user_id", user.ID)
	return s.issue(user)
}

func registerProblems(in RegisterInput) []string {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, "Please enter your name")
	}
	if strings.TrimSpace(in.Email) == "" {
		msgs = append(msgs, "Please enter your email")
	}
	if in.Password == "" {
		msgs = append(msgs, "Please enter your password")
	} else if len(in.Password) < minPasswordLen {
		msgs = append(msgs, MsgPasswordTooShort)
	} else if len(in.Password) > maxPasswordLen {
		msgs = append(msgs, MsgPasswordTooLong)
	}
	return msgs
}

// Login answers unknown email and wrong password with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(MsgMissingCredentials)
	}

	user, err := s.users.GetUserByEmail(ctx, email, repo.WithPassword())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, apperr.Unauthenticated(MsgInvalidCredentials)
		}
		return nil, err
	}
	if !s.hasher.Check(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, apperr.Unauthenticated(MsgInvalidCredentials)
	}

	l.Info("login_successful", "user_id", user.ID)
	return s.issue(user)
}

// ForgotPassword stores a reset token for the account and mails the link.
// origin is the scheme and host the request came in on; it is used when no
// frontend URL is configured.
func (s *AuthService) ForgotPassword(ctx context.Context, email, origin string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound(MsgUserNotFoundEmail)
		}
		return err
	}

	tok, err := tokens.GenerateReset(s.now(), s.cfg.ResetTokenTTL)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, &tok.Hash, &tok.ExpiresAt); err != nil {
		return err
	}

	body := fmt.Sprintf("Your password reset token is as follow:\n\n%s\n\nIf you have not requested this email, then ignore it.",
		s.resetURL(origin, tok.Plain))

	if err := s.mail.Send(ctx, user.Email, resetSubject, body); err != nil {
		l.Error("forgot_password_failed", "status", 500, "reason", "cannot send email", "user_id", user.ID, "error", err)
		if rbErr := s.users.SetResetToken(context.WithoutCancel(ctx), user.ID, nil, nil); rbErr != nil {
			l.Error("forgot_password_rollback_failed", "user_id", user.ID, "error", rbErr)
		}
		return apperr.Upstream(MsgEmailNotSent, err)
	}

	l.Info("reset_email_sent", "user_id", user.ID)
	return nil
}

func (s *AuthService) resetURL(origin, plain string) string {
	if s.cfg.FrontendURL != "" {
		return strings.TrimRight(s.cfg.FrontendURL, "/") + "/password/reset/" + plain
	}
	return strings.TrimRight(origin, "/") + "/api/v1/password/reset/" + plain
}

// ResetPassword consumes a reset token. A wrong token and an expired one are
// reported the same way.
func (s *AuthService) ResetPassword(ctx context.Context, plain, password, confirm string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	user, err := s.users.FindUserByResetToken(ctx, tokens.HashResetToken(plain), s.now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("reset_password_failed", "status", 400, "reason", "token invalid or expired")
			return nil, apperr.Validation(MsgResetInvalid)
		}
		return nil, err
	}

	if password != confirm {
		return nil, apperr.Validation(MsgPasswordMismatch)
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	updated, err := s.users.UpdateUser(ctx, user.ID, repo.UpdateUserParams{PasswordHash: &digest, ClearReset: true})
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, events.TopicUsers, "user.password_reset", updated.ID, nil)
	l.Info("reset_password_successful", "user_id", updated.ID)
	return s.issue(updated)
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_password", "user_id", userID)

	user, err := s.users.GetUser(ctx, userID, repo.WithPassword())
	if err != nil {
		return nil, err
	}
	if !s.hasher.Check(user.PasswordHash, oldPassword) {
		l.Warn("update_password_failed", "status", 401, "reason", "old password mismatch")
		return nil, apperr.Unauthenticated(MsgOldPasswordWrong)
	}
	if err := checkPassword(newPassword); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	updated, err := s.users.UpdateUser(ctx, user.ID, repo.UpdateUserParams{PasswordHash: &digest})
	if err != nil {
		return nil, err
	}

	l.Info("update_password_successful")
	return s.issue(updated)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// UpdateProfile changes name and email only. Empty values are left as they are.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	var params repo.UpdateUserParams
	if name = strings.TrimSpace(name); name != "" {
		params.Name = &name
	}
	if email = strings.TrimSpace(email); email != "" {
		params.Email = &email
	}
	return s.users.UpdateUser(ctx, userID, params)
}

func checkPassword(pw string) error {
	if pw == "" {
		return apperr.Validation("Please enter your password")
	}
	if len(pw) < minPasswordLen {
		return apperr.Validation(MsgPasswordTooShort)
	}
	if len(pw) > maxPasswordLen {
		return apperr.Validation(MsgPasswordTooLong)
	}
	return nil
}
