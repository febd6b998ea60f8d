package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikif9/user-account-service/internal/model"
)

const bearerPrefix = "Bearer "

// Principal is the verified subject of a token. It exists only for the
// duration of a request's authorization check.
type Principal struct {
	UserID int64
}

// Service issues and verifies signed, time-limited tokens. The secret and
// TTL are injected at construction and fixed for the process lifetime.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token asserting userID as subject, valid from now for the
// configured TTL.
func (s *Service) Issue(userID int64) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify fails closed: malformed input, signature mismatch, algorithm
// mismatch, expiry and a non-numeric subject all collapse into the same
// generic error so callers cannot leak the failure mode.
func (s *Service) Verify(tokenString string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, model.ErrUnauthorized
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, model.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return Principal{}, model.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 0 {
		return Principal{}, model.ErrUnauthorized
	}

	return Principal{UserID: userID}, nil
}

// FromAuthorizationHeader extracts the token from a literal
// "Bearer <token>" header. A missing or malformed header yields ok=false,
// never an error.
func FromAuthorizationHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	tokenString := header[len(bearerPrefix):]
	if tokenString == "" {
		return "", false
	}

	return tokenString, true
}
