package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/Skotchmaster/altazaj/internal/logging"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Service checks the single configured admin account and issues access
// tokens for it.
type Service struct {
	Secret       []byte
	Username     string
	PasswordHash string
	TTL          time.Duration
	// SecureCookie marks the access cookie Secure.
	SecureCookie bool
	Now          func() time.Time
}

func (s *Service) Enabled() bool { return len(s.Secret) > 0 }

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := CheckPassword(s.PasswordHash, password)
	if !userOK || !passOK {
		l.Warn("login_error", "status", 401, "reason", "invalid credentials", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}
	exp := s.now().Add(ttl)

	token, err := SignAccessToken(s.Username, RoleAdmin, exp, s.Secret)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign access token", "error", err)
		return "", time.Time{}, err
	}

	l.Info("login_success", "username", username)
	return token, exp, nil
}
