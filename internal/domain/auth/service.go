// Package auth owns credential verification, bearer token issuance, and
// token resolution for the authorization gate.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashgrove-hs/housepoints/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenLength is the canonical length of an issued bearer token. A stored
// token of any other length is treated as malformed and replaced on the
// next password login; a well-formed token is stable until rotated.
const TokenLength = 36

var (
	// ErrInvalidCredentials covers unknown emails, password mismatches, and
	// external-subject mismatches alike, so the response does not reveal
	// which part failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	users storage.UserRepository
}

func NewService(users storage.UserRepository) *Service {
	return &Service{users: users}
}

// Login authenticates by email and either a password or an external-identity
// credential, returning the user's bearer token.
//
// External mode binds the first credential value it sees as the user's
// permanent subject with no verification against the identity provider.
// This is a known trust weakness preserved for compatibility with existing
// accounts; later logins must present the same value exactly.
func (s *Service) Login(ctx context.Context, email, credential string, external bool) (string, *storage.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("look up user: %w", err)
	}

	if external {
		return s.loginExternal(ctx, user, credential)
	}
	return s.loginPassword(ctx, user, credential)
}

func (s *Service) loginPassword(ctx context.Context, user *storage.User, password string) (string, *storage.User, error) {
	if !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token := ""
	if user.Token != nil {
		token = *user.Token
	}
	if len(token) != TokenLength {
		token = uuid.NewString()
		if err := s.users.SetToken(ctx, user.ID, token); err != nil {
			return "", nil, fmt.Errorf("issue token: %w", err)
		}
		user.Token = &token
	}
	return token, user, nil
}

func (s *Service) loginExternal(ctx context.Context, user *storage.User, credential string) (string, *storage.User, error) {
	token := ""
	if user.Token != nil {
		token = *user.Token
	}

	if user.GoogleSubject == nil || *user.GoogleSubject == "" {
		if err := s.users.SetGoogleSubject(ctx, user.ID, credential); err != nil {
			return "", nil, fmt.Errorf("bind subject: %w", err)
		}
		user.GoogleSubject = &credential
		return token, user, nil
	}

	if *user.GoogleSubject != credential {
		return "", nil, ErrInvalidCredentials
	}
	return token, user, nil
}

// ResolveToken returns the user whose stored token equals the given value.
// There is no expiry: a token is valid for as long as it is stored.
func (s *Service) ResolveToken(ctx context.Context, token string) (*storage.User, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}
	return s.users.GetByToken(ctx, token)
}

// ExtractToken pulls the bearer token out of an Authorization header value,
// accepting either a raw token or a "<scheme> <token>" pair.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if idx := strings.LastIndex(header, " "); idx >= 0 {
		return header[idx+1:]
	}
	return header
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a stored hash. The comparison
// is constant-time inside bcrypt.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewToken issues a fresh canonical token value.
func NewToken() string {
	return uuid.NewString()
}
