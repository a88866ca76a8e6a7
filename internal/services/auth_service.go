package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"avotrade/internal/auth"
	"avotrade/internal/config"
	"avotrade/internal/domain"
	"avotrade/internal/validate"
)

var ErrBadCreds = errors.New("invalid username or password")

// BcryptCost is the work factor for stored operator passwords.
var BcryptCost = 12

type AuthService struct {
	Users  UserStore
	Secret string
	TTL    time.Duration
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: secret, TTL: ttl}
}

// Login checks operator credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	name, ok := validate.Username(username)
	if !ok || !validate.Password(password) {
		return "", time.Time{}, ErrBadCreds
	}
	u, err := s.Users.ByUsername(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return "", time.Time{}, ErrBadCreds
	}
	if err != nil {
		return "", time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", time.Time{}, ErrBadCreds
	}
	return auth.GenerateToken(s.Secret, s.TTL, u.ID, u.Username, u.Role)
}

func (s *AuthService) Verify(token string) (*auth.Claims, error) {
	return auth.ValidateToken(s.Secret, token)
}

// HashPassword returns the bcrypt hash stored for operator accounts.
func HashPassword(password string) (string, error) {
	if !validate.Password(password) {
		return "", domain.Invalid("password", "must be between 8 and 72 characters")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// EnsureAdmin makes sure an operator account exists. With a configured
// password the stored hash is replaced; without one an existing account is
// left alone and a new account gets a random password, which is returned so
// the caller can show it once.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (generated string, err error) {
	name, ok := validate.Username(username)
	if !ok {
		return "", domain.Invalid("username", "must be 3-64 letters, digits, dot, dash or underscore")
	}
	if password == "" {
		_, err := s.Users.ByUsername(ctx, name)
		if err == nil {
			return "", nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		password = config.RandomSecret(12)
		generated = password
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := s.Users.Upsert(ctx, name, hash, domain.RoleAdmin); err != nil {
		return "", err
	}
	return generated, nil
}
