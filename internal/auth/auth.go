package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	// ErrInvalidInput wraps registration validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Claims are the session token claims: reporter identity plus the
// registered expiry.
type Claims struct {
	jwt.RegisteredClaims
	ReporterID int64  `json:"reporter_id"`
	Email      string `json:"email"`
}

type Service struct {
	store    store.ReporterStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(st store.ReporterStore, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{store: st, secret: secret, tokenTTL: tokenTTL}
}

// Register creates the one and only reporter account. Every call after the
// first fails with store.ErrAlreadyRegistered regardless of input.
func (s *Service) Register(ctx context.Context, username, email, password string) (model.Reporter, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return model.Reporter{}, fmt.Errorf("%w: username required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.Reporter{}, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	if len(password) < 8 {
		return model.Reporter{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Reporter{}, fmt.Errorf("hash password: %w", err)
	}

	reporter := model.Reporter{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	id, err := s.store.CreateReporter(ctx, &reporter)
	if err != nil {
		return model.Reporter{}, err
	}
	reporter.ID = id
	return reporter, nil
}

// Login verifies the password against the stored bcrypt hash and mints a
// signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, model.Reporter, error) {
	reporter, err := s.store.GetReporterByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", model.Reporter{}, ErrInvalidCredentials
		}
		return "", model.Reporter{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(reporter.PasswordHash), []byte(password)); err != nil {
		return "", model.Reporter{}, ErrInvalidCredentials
	}

	token, err := s.mintToken(reporter)
	if err != nil {
		return "", model.Reporter{}, fmt.Errorf("sign token: %w", err)
	}
	return token, reporter, nil
}

func (s *Service) mintToken(reporter model.Reporter) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ReporterID: reporter.ID,
		Email:      reporter.Email,
	})
	return token.SignedString(s.secret)
}

// Verify checks the token signature and expiry. It is a pure function of
// the token bytes and the signing secret; no store access.
func (s *Service) Verify(tokenString string) (Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
