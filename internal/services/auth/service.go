package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/dependencies/ids"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrInvalidOperators   = errors.New("invalid operator list")
)

const issuer = "rconstore"

// Session is an issued operator token
type Session struct {
	Token     string
	TokenID   string
	Operator  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service authenticates operators and issues signed tokens
type Service struct {
	clock clock.Clock
	ids   ids.Generator

	secret    []byte
	operators map[string][]byte

	mu      sync.RWMutex
	revoked map[string]time.Time

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	Secret          string
	SessionDuration time.Duration
	// Operators maps operator name to bcrypt hash
	Operators map[string]string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 12 * time.Hour,
	}
}

// New creates a new AuthService
func New(clock clock.Clock, ids ids.Generator, cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	operators := make(map[string][]byte, len(cfg.Operators))
	for name, hash := range cfg.Operators {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("%w: operator %q: %v", ErrInvalidOperators, name, err)
		}
		operators[name] = []byte(hash)
	}
	return &Service{
		clock:           clock,
		ids:             ids,
		secret:          []byte(cfg.Secret),
		operators:       operators,
		revoked:         make(map[string]time.Time),
		sessionDuration: cfg.SessionDuration,
	}, nil
}

// ParseOperators reads "name:bcrypthash,name:bcrypthash"
func ParseOperators(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, hash, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOperators, pair)
		}
		out[name] = strings.TrimSpace(hash)
	}
	return out, nil
}

// Login checks the operator password and issues a token
func (s *Service) Login(username, password string) (*Session, error) {
	hash, ok := s.operators[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.createSession(username)
}

// ValidateSession checks the token signature, expiry and revocation
func (s *Service) ValidateSession(token string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if _, ok := s.operators[claims.Subject]; !ok {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	_, revoked := s.revoked[claims.ID]
	s.mu.RUnlock()
	if revoked {
		return nil, ErrInvalidSession
	}

	session := &Session{
		Token:     token,
		TokenID:   claims.ID,
		Operator:  claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.CreatedAt = claims.IssuedAt.Time
	}
	return session, nil
}

// InvalidateSession revokes a token until it would have expired anyway
func (s *Service) InvalidateSession(token string) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.revoked[session.TokenID] = session.ExpiresAt
	s.mu.Unlock()
}

// createSession signs a new token for an operator
func (s *Service) createSession(operator string) (*Session, error) {
	now := s.clock.Now().Truncate(time.Second)
	expires := now.Add(s.sessionDuration)
	id := s.ids.NewID()

	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    issuer,
		Subject:   operator,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Session{
		Token:     signed,
		TokenID:   id,
		Operator:  operator,
		CreatedAt: now,
		ExpiresAt: expires,
	}, nil
}

// CleanExpiredSessions drops revocations for tokens that have expired (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expires := range s.revoked {
		if now.After(expires) {
			delete(s.revoked, id)
		}
	}
}
