package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/logger"
)

// AuthUsecase signs sessions in against the remote store's accounts. Remote
// tokens never leave the server; clients keep using their session token.
type AuthUsecase struct {
	accounts      domain.AccountSource
	expiresInMins int
}

func NewAuthUsecase(accounts domain.AccountSource, expiresInMins int) *AuthUsecase {
	return &AuthUsecase{
		accounts:      accounts,
		expiresInMins: expiresInMins,
	}
}

// Login authenticates username (or email) and attaches the account to s.
// A failed login leaves any earlier account on s untouched.
func (u *AuthUsecase) Login(ctx context.Context, s *Session, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	res, err := u.accounts.Login(ctx, username, password, u.expiresInMins)
	if err != nil {
		logger.WithContext(ctx).Info().Err(err).Str("username", username).Msg("Login rejected")
		return nil, err
	}

	// The login response omits the role; the profile carries it.
	user := res.User
	if profile, err := u.accounts.CurrentUser(ctx, res.AccessToken); err == nil {
		user = *profile
	} else {
		logger.WithContext(ctx).Warn().Err(err).Int("user_id", user.ID).Msg("Profile lookup after login failed")
	}

	s.SetUser(user, res.AccessToken)
	logger.WithContext(ctx).Info().Int("user_id", user.ID).Str("role", user.Role).Msg("Session signed in")
	return &user, nil
}

// CurrentUser re-reads the signed-in account from the remote store. An access
// token the remote no longer accepts signs the session out.
func (u *AuthUsecase) CurrentUser(ctx context.Context, s *Session) (*domain.User, error) {
	token := s.RemoteToken()
	if token == "" {
		return nil, fmt.Errorf("%w: not signed in", domain.ErrUnauthorized)
	}

	user, err := u.accounts.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.ClearUser()
			logger.WithContext(ctx).Info().Msg("Remote token expired, session signed out")
		}
		return nil, err
	}

	s.SetUser(*user, token)
	return user, nil
}

func (u *AuthUsecase) Logout(s *Session) {
	s.ClearUser()
}

// Register creates a remote account. It does not sign the session in.
func (u *AuthUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := u.accounts.AddUser(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}
